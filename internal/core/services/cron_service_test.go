package services

import (
	"os"
	"path/filepath"
	"testing"

	"insurtech-portal/internal/config"
	"insurtech-portal/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cronTestConfig(dataPath string, retention int) *config.Config {
	return &config.Config{
		AppMode: "dev",
		Data:    config.DataConfig{File: dataPath, BackupRetention: retention},
		Admin:   domain.Credential{Role: domain.RoleAdmin, Account: "admin"},
		User:    domain.Credential{Role: domain.RoleUser, Account: "viewer"},
	}
}

func TestCronService_StartRegistersJobs(t *testing.T) {
	dataPath := filepath.Join(t.TempDir(), "policies.csv")
	svc := NewCronService(cronTestConfig(dataPath, 7), dataPath)

	svc.Start()
	defer svc.Stop()

	// Both schedules must parse and register
	assert.Len(t, svc.cron.Entries(), 2)
}

func TestBackupDataFile(t *testing.T) {
	dataPath := filepath.Join(t.TempDir(), "policies.csv")
	require.NoError(t, os.WriteFile(dataPath, []byte("id,company\n1,Acme\n"), 0o644))

	svc := NewCronService(cronTestConfig(dataPath, 7), dataPath)
	require.NoError(t, svc.backupDataFile())

	backups, err := filepath.Glob(dataPath + ".bak-*")
	require.NoError(t, err)
	require.Len(t, backups, 1)

	content, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Equal(t, "id,company\n1,Acme\n", string(content))
}

func TestBackupDataFile_MissingSourceIsNoOp(t *testing.T) {
	dataPath := filepath.Join(t.TempDir(), "policies.csv")
	svc := NewCronService(cronTestConfig(dataPath, 7), dataPath)

	require.NoError(t, svc.backupDataFile())

	backups, _ := filepath.Glob(dataPath + ".bak-*")
	assert.Empty(t, backups)
}

func TestPruneBackups(t *testing.T) {
	dataPath := filepath.Join(t.TempDir(), "policies.csv")
	svc := NewCronService(cronTestConfig(dataPath, 2), dataPath)

	stamps := []string{"20260101-020000", "20260102-020000", "20260103-020000", "20260104-020000"}
	for _, stamp := range stamps {
		require.NoError(t, os.WriteFile(dataPath+".bak-"+stamp, []byte("x"), 0o644))
	}

	require.NoError(t, svc.pruneBackups())

	remaining, err := filepath.Glob(dataPath + ".bak-*")
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	// The newest two survive
	assert.Contains(t, remaining[0], "20260103-020000")
	assert.Contains(t, remaining[1], "20260104-020000")
}
