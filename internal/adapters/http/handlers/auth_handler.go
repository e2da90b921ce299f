package handlers

import (
	"errors"
	"time"

	"insurtech-portal/internal/adapters/http/middleware"
	"insurtech-portal/internal/config"
	"insurtech-portal/internal/core/domain"
	"insurtech-portal/internal/core/services"
	"insurtech-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// Login handles login
// @Summary Login
// @Description Authenticate one of the two provisioned credentials and return a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Empty fields are ordinary non-matching input for the gate itself, but
	// the interactive surface reports them up front
	if req.Account == "" {
		return response.BadRequest(c, "Account is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	// Credentials are matched verbatim, no trimming or case folding
	input := &services.LoginInput{
		Account:  req.Account,
		Password: req.Password,
	}

	result, err := h.authService.Login(input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid account or password")
		case errors.Is(err, domain.ErrExpired):
			// Correct credential, but outside its permitted-use window -
			// reported separately from bad credentials
			return response.Forbidden(c, "Account is outside its permitted use period")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	h.setAuthCookie(c, result.AccessToken)

	return response.Success(c, "Login successful", fiber.Map{
		"access_token": result.AccessToken,
		"user":         result.Result,
	})
}

// Logout handles logout
// @Summary Logout
// @Description Clear the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearAuthCookie(c)
	return response.Success(c, "Logged out successfully", nil)
}

// Me returns the current principal
// @Summary Get current principal
// @Description Get the authenticated role and display name from the session token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	account, ok := c.Locals(middleware.LocalAccount).(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	return response.Success(c, "Principal retrieved successfully", fiber.Map{
		"account":      account,
		"display_name": c.Locals(middleware.LocalDisplayName),
		"role":         c.Locals(middleware.LocalRole),
	})
}

// setAuthCookie sets the access token cookie
func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, accessToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.AccessTokenMins * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

// clearAuthCookie clears the access token cookie
func (h *AuthHandler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-1 * time.Hour),
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}
