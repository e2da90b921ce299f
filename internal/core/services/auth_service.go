package services

import (
	"crypto/subtle"
	"log"
	"time"

	"insurtech-portal/internal/config"
	"insurtech-portal/internal/core/domain"
	"insurtech-portal/internal/pkg/jwt"
)

// AuthService handles login decisions and session tokens for the two
// provisioned credentials
type AuthService struct {
	cfg *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// LoginInput represents login input
type LoginInput struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// AuthResult represents a successful authentication decision
type AuthResult struct {
	Role        domain.Role `json:"role"`
	DisplayName string      `json:"display_name"`
	WindowStart time.Time   `json:"window_start"`
	WindowEnd   time.Time   `json:"window_end"`
}

// AuthResponse represents the payload returned to a logged-in caller
type AuthResponse struct {
	Result      *AuthResult `json:"user"`
	AccessToken string      `json:"access_token"`
}

// Authenticate is the pure session-gate decision. It scans candidates for one
// whose account AND password exactly match the submission (case-sensitive, no
// normalization), then checks asOf against the matched credential's inclusive
// [start, end] window at calendar-date granularity.
//
// Outcomes are distinct: a correct credential outside its window returns
// domain.ErrExpired, never domain.ErrInvalidCredentials. Empty account or
// password is an ordinary non-match, not a separate error. The function has
// no side effects; the caller owns writing the result into session state.
func Authenticate(account, password string, candidates []domain.Credential, asOf time.Time) (*AuthResult, error) {
	for i := range candidates {
		cred := &candidates[i]
		accountMatch := subtle.ConstantTimeCompare([]byte(account), []byte(cred.Account)) == 1
		passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(cred.Password)) == 1
		if !accountMatch || !passwordMatch {
			continue
		}

		day := calendarDay(asOf)
		if day < calendarDay(cred.WindowStart) || day > calendarDay(cred.WindowEnd) {
			return nil, domain.ErrExpired
		}

		return &AuthResult{
			Role:        cred.Role,
			DisplayName: cred.DisplayName,
			WindowStart: cred.WindowStart,
			WindowEnd:   cred.WindowEnd,
		}, nil
	}

	return nil, domain.ErrInvalidCredentials
}

// Login authenticates the submission against the configured credentials and
// issues an access token on success
func (s *AuthService) Login(input *LoginInput) (*AuthResponse, error) {
	// 1. Run the session gate
	result, err := Authenticate(input.Account, input.Password, s.cfg.Credentials(), time.Now())
	if err != nil {
		return nil, err
	}

	// 2. Issue the access token, valid at most until the end of the window day
	end := result.WindowEnd
	notAfter := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.Local)
	accessToken, err := jwt.GenerateAccessToken(
		input.Account,
		result.DisplayName,
		string(result.Role),
		result.WindowEnd.Format("2006-01-02"),
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
		notAfter,
	)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ %s logged in: %s", result.Role, result.DisplayName)

	return &AuthResponse{
		Result:      result,
		AccessToken: accessToken,
	}, nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// calendarDay renders a time as its YYYY-MM-DD label. Window checks compare
// these labels so that time of day and time zone offsets never shift the
// inclusive bounds.
func calendarDay(t time.Time) string {
	return t.Format("2006-01-02")
}
