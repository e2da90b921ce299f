package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"insurtech-portal/internal/core/domain"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode string
	Port    string
	Data    DataConfig
	JWT     JWTConfig
	Cookie  CookieConfig
	Admin   domain.Credential
	User    domain.Credential
}

// DataConfig holds policy data file configuration
type DataConfig struct {
	File            string
	BackupRetention int
	TermMatchMode   domain.TermMatchMode
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	admin, err := loadCredential("ADMIN", domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	user, err := loadCredential("USER", domain.RoleUser)
	if err != nil {
		return nil, err
	}

	dataCfg, err := loadDataConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode: appMode,
		Port:    getEnv("PORT", "3000"),
		Data:    dataCfg,
		JWT:     loadJWTConfig(),
		Cookie:  loadCookieConfig(),
		Admin:   admin,
		User:    user,
	}

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// Credentials returns the two provisioned credential records
func (c *Config) Credentials() []domain.Credential {
	return []domain.Credential{c.Admin, c.User}
}

// loadCredential loads one provisioned credential record from the environment.
// Account, password and both window dates are required; there are no defaults
// for secrets.
func loadCredential(prefix string, role domain.Role) (domain.Credential, error) {
	account := strings.TrimSpace(os.Getenv(prefix + "_ACCOUNT"))
	password := os.Getenv(prefix + "_PASSWORD")
	if account == "" || password == "" {
		return domain.Credential{}, fmt.Errorf("%s_ACCOUNT and %s_PASSWORD are required", prefix, prefix)
	}

	start, err := parseDate(getEnv(prefix+"_START_DATE", ""))
	if err != nil {
		return domain.Credential{}, fmt.Errorf("invalid %s_START_DATE: %v", prefix, err)
	}
	end, err := parseDate(getEnv(prefix+"_END_DATE", ""))
	if err != nil {
		return domain.Credential{}, fmt.Errorf("invalid %s_END_DATE: %v", prefix, err)
	}
	if end.Before(start) {
		return domain.Credential{}, fmt.Errorf("%s_END_DATE is before %s_START_DATE", prefix, prefix)
	}

	return domain.Credential{
		Role:        role,
		Account:     account,
		Password:    password,
		DisplayName: getEnv(prefix+"_NAME", account),
		WindowStart: start,
		WindowEnd:   end,
	}, nil
}

// loadDataConfig loads the policy data file config
func loadDataConfig() (DataConfig, error) {
	retention, _ := strconv.Atoi(getEnv("BACKUP_RETENTION", "7"))

	mode := domain.TermMatchMode(getEnv("PAYMENT_TERM_MODE", string(domain.TermMatchExact)))
	if mode != domain.TermMatchExact && mode != domain.TermMatchSlashList {
		return DataConfig{}, fmt.Errorf("invalid PAYMENT_TERM_MODE: '%s' (must be '%s' or '%s')",
			mode, domain.TermMatchExact, domain.TermMatchSlashList)
	}

	return DataConfig{
		File:            getEnv("DATA_FILE", "data/policies.csv"),
		BackupRetention: retention,
		TermMatchMode:   mode,
	}, nil
}

// loadJWTConfig loads JWT config
func loadJWTConfig() JWTConfig {
	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "60"))

	return JWTConfig{
		Secret:          getEnv("JWT_SECRET", "default_secret"),
		AccessTokenMins: accessMins,
	}
}

// loadCookieConfig loads cookie config
func loadCookieConfig() CookieConfig {
	secure, _ := strconv.ParseBool(getEnv("COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// parseDate parses a YYYY-MM-DD calendar date
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required (YYYY-MM-DD)")
	}
	return time.Parse("2006-01-02", strings.TrimSpace(value))
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://portal.insurtech.example.com"
	}
	return origins
}
