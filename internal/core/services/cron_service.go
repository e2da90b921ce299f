package services

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"insurtech-portal/internal/config"

	"github.com/robfig/cron/v3"
)

// expiryWarningDays is how far ahead the daily check warns about a
// credential window running out
const expiryWarningDays = 7

// CronService runs scheduled maintenance: a nightly backup of the policy
// data file and a daily credential-window expiry check
type CronService struct {
	cfg      *config.Config
	dataPath string
	cron     *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(cfg *config.Config, dataPath string) *CronService {
	return &CronService{
		cfg:      cfg,
		dataPath: dataPath,
		cron:     cron.New(),
	}
}

// Start registers the jobs and launches the scheduler
func (s *CronService) Start() {
	// Nightly backup at 02:30
	if _, err := s.cron.AddFunc("30 2 * * *", func() {
		if err := s.backupDataFile(); err != nil {
			log.Printf("❌ Nightly backup failed: %v", err)
		}
	}); err != nil {
		log.Printf("❌ Failed to schedule nightly backup: %v", err)
	}

	// Credential expiry check at 08:00 daily
	if _, err := s.cron.AddFunc("0 8 * * *", s.checkCredentialWindows); err != nil {
		log.Printf("❌ Failed to schedule credential expiry check: %v", err)
	}

	s.cron.Start()
	log.Println("🚀 CronService started (nightly backup 02:30, expiry check 08:00)")
}

// Stop stops the scheduler
func (s *CronService) Stop() {
	s.cron.Stop()
	log.Println("🛑 CronService stopped")
}

// backupDataFile copies the data file to a timestamped sibling and prunes
// old backups down to the configured retention count
func (s *CronService) backupDataFile() error {
	src, err := os.Open(s.dataPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // nothing to back up yet
		}
		return err
	}
	defer src.Close()

	backupPath := fmt.Sprintf("%s.bak-%s", s.dataPath, time.Now().Format("20060102-150405"))
	dst, err := os.Create(backupPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}

	log.Printf("✅ Policy data backed up to %s", backupPath)
	return s.pruneBackups()
}

// pruneBackups deletes the oldest backups beyond the retention count
func (s *CronService) pruneBackups() error {
	matches, err := filepath.Glob(s.dataPath + ".bak-*")
	if err != nil {
		return err
	}
	retention := s.cfg.Data.BackupRetention
	if retention <= 0 || len(matches) <= retention {
		return nil
	}

	// Timestamped suffixes sort chronologically
	sort.Strings(matches)
	for _, stale := range matches[:len(matches)-retention] {
		if err := os.Remove(stale); err != nil {
			return err
		}
	}
	return nil
}

// checkCredentialWindows logs a warning for credentials that are expired or
// about to expire
func (s *CronService) checkCredentialWindows() {
	today := time.Now().Format("2006-01-02")
	horizon := time.Now().AddDate(0, 0, expiryWarningDays).Format("2006-01-02")

	for _, cred := range s.cfg.Credentials() {
		end := cred.WindowEnd.Format("2006-01-02")
		switch {
		case end < today:
			log.Printf("⚠️ %s credential (%s) expired on %s", cred.Role, cred.Account, end)
		case end <= horizon:
			log.Printf("⚠️ %s credential (%s) expires on %s", cred.Role, cred.Account, end)
		}
	}
}
