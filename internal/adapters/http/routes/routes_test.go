package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"insurtech-portal/internal/adapters/http/middleware"
	"insurtech-portal/internal/adapters/persistence/csvstore"
	"insurtech-portal/internal/config"
	"insurtech-portal/internal/core/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *config.Config) {
	t.Helper()

	cfg := &config.Config{
		AppMode: "dev",
		Port:    "0",
		Data: config.DataConfig{
			File:          filepath.Join(t.TempDir(), "policies.csv"),
			TermMatchMode: domain.TermMatchExact,
		},
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			AccessTokenMins: 60,
		},
		Cookie: config.CookieConfig{SameSite: "lax"},
		Admin: domain.Credential{
			Role: domain.RoleAdmin, Account: "admin", Password: "admin-pass",
			DisplayName: "Portal Admin",
			WindowStart: time.Now().AddDate(0, 0, -1),
			WindowEnd:   time.Now().AddDate(1, 0, 0),
		},
		User: domain.Credential{
			Role: domain.RoleUser, Account: "viewer", Password: "viewer-pass",
			DisplayName: "Portal User",
			WindowStart: time.Now().AddDate(-1, 0, 0),
			WindowEnd:   time.Now().AddDate(0, -1, 0), // window already over
		},
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	store := csvstore.New(cfg.Data.File)
	Setup(app, store, cfg)
	return app, cfg
}

func doJSON(t *testing.T, app *fiber.App, method, target, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func login(t *testing.T, app *fiber.App, account, password string) string {
	t.Helper()
	resp := doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]string{
		"account": account, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	return data["access_token"].(string)
}

func TestLogin_Outcomes(t *testing.T) {
	app, _ := newTestApp(t)

	// Wrong password is 401
	resp := doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]string{
		"account": "admin", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Correct credential outside its window is 403, not 401
	resp = doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]string{
		"account": "viewer", "password": "viewer-pass",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Accounts match verbatim: trailing whitespace is not stripped
	resp = doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]string{
		"account": "admin ", "password": "admin-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Missing fields are 400
	resp = doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]string{
		"account": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Valid admin login succeeds and returns the principal
	resp = doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]string{
		"account": "admin", "password": "admin-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "ADMIN", user["role"])
	assert.Equal(t, "Portal Admin", user["display_name"])
}

func TestPolicies_RequireAuth(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "GET", "/api/v1/policies", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/v1/policies/recommend", "", domain.Criteria{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPolicies_AdminCRUDAndRecommend(t *testing.T) {
	app, _ := newTestApp(t)
	token := login(t, app, "admin", "admin-pass")

	// Create
	record := domain.Policy{
		Company: "Acme", Product: "Term 10",
		Currency: domain.CurrencyUSD, Gender: domain.GenderUnrestricted,
		MinAge: 18, MaxAge: 65, PaymentTerm: "10", CoverageTerm: 10,
		CoverageAmount: 100000, Premium: 1000,
	}
	resp := doJSON(t, app, "POST", "/api/v1/policies", token, record)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)["data"].(map[string]interface{})["policy"].(map[string]interface{})
	id := int(created["id"].(float64))
	require.NotZero(t, id)

	// Recommend
	resp = doJSON(t, app, "POST", "/api/v1/policies/recommend", token, domain.Criteria{
		Age: 30, Gender: domain.GenderMale, Currency: domain.CurrencyUSD, PaymentTerm: "10",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeBody(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["count"])

	// Invalid criteria fails fast
	resp = doJSON(t, app, "POST", "/api/v1/policies/recommend", token, map[string]interface{}{
		"age": 30, "gender": "MALE", "currency": "EUR",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Update a missing id
	resp = doJSON(t, app, "PUT", "/api/v1/policies/999", token, record)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Delete (then deleting again stays a success, it is a no-op)
	resp = doJSON(t, app, "DELETE", "/api/v1/policies/1", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, app, "DELETE", "/api/v1/policies/1", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPolicies_UserRoleIsReadOnly(t *testing.T) {
	app, cfg := newTestApp(t)

	// Re-point the user window so the viewer can log in
	cfg.User.WindowStart = time.Now().AddDate(0, 0, -1)
	cfg.User.WindowEnd = time.Now().AddDate(0, 0, 1)
	token := login(t, app, "viewer", "viewer-pass")

	// Reads are allowed
	resp := doJSON(t, app, "GET", "/api/v1/policies", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Mutations are forbidden
	record := domain.Policy{
		Company: "Acme", Currency: domain.CurrencyUSD, Gender: domain.GenderMale,
		MinAge: 0, MaxAge: 99, Premium: 100,
	}
	resp = doJSON(t, app, "POST", "/api/v1/policies", token, record)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = doJSON(t, app, "DELETE", "/api/v1/policies/1", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = doJSON(t, app, "PUT", "/api/v1/policies", token, map[string]interface{}{"policies": []domain.Policy{}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuthMe(t *testing.T) {
	app, _ := newTestApp(t)
	token := login(t, app, "admin", "admin-pass")

	resp := doJSON(t, app, "GET", "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeBody(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, "admin", data["account"])
	assert.Equal(t, "ADMIN", data["role"])

	// Garbage token is rejected
	resp = doJSON(t, app, "GET", "/api/v1/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
