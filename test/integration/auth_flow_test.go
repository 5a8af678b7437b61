package integration

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"aftercare-ai-be/internal/bootstrap"
	"aftercare-ai-be/internal/config"
	"aftercare-ai-be/internal/dto"
	"aftercare-ai-be/internal/model"
	"aftercare-ai-be/internal/pkg/serverutils"
	"aftercare-ai-be/internal/server"
	"aftercare-ai-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestAuthFlow(t *testing.T) {
	// Setup
	// Load .env from root (2 levels up) because tests run in package dir
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		t.Skipf("Skipping: database unavailable: %v", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	srv := server.New(cfg, container)
	app := srv.GetApp()

	testEmail := "it.nurse@aftercare.local"

	// Clean slate: hard delete, soft-deleted rows would still collide
	// with the unique email index
	db.Unscoped().Where("email = ?", testEmail).Delete(&model.User{})
	defer db.Unscoped().Where("email = ?", testEmail).Delete(&model.User{})

	t.Run("Register staff account", func(t *testing.T) {
		reqBody := dto.RegisterRequest{
			FullName: "Integration Nurse",
			Email:    testEmail,
			Password: "s3cret-pass",
		}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req, -1)

		assert.Equal(t, 200, resp.StatusCode)

		var result serverutils.BaseResponse[dto.RegisterResponse]
		json.NewDecoder(resp.Body).Decode(&result)

		assert.True(t, result.Success)
		assert.Equal(t, testEmail, result.Data.Email)
	})

	t.Run("Register duplicate email rejected", func(t *testing.T) {
		reqBody := dto.RegisterRequest{
			FullName: "Integration Nurse",
			Email:    testEmail,
			Password: "s3cret-pass",
		}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req, -1)

		assert.NotEqual(t, 200, resp.StatusCode)
	})

	var accessToken string

	t.Run("Login success", func(t *testing.T) {
		reqBody := dto.LoginRequest{
			Email:    testEmail,
			Password: "s3cret-pass",
		}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req, -1)

		assert.Equal(t, 200, resp.StatusCode)

		var result serverutils.BaseResponse[dto.LoginResponse]
		json.NewDecoder(resp.Body).Decode(&result)

		assert.True(t, result.Success)
		assert.NotEmpty(t, result.Data.AccessToken)
		assert.Equal(t, "staff", result.Data.User.Role)

		accessToken = result.Data.AccessToken
	})

	t.Run("Login wrong password", func(t *testing.T) {
		reqBody := dto.LoginRequest{
			Email:    testEmail,
			Password: "wrongpassword",
		}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req, -1)

		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("Protected route requires token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/patient/v1", nil)

		resp, _ := app.Test(req, -1)

		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("Protected route accepts token", func(t *testing.T) {
		if accessToken == "" {
			t.Skip("no access token from login step")
		}

		req := httptest.NewRequest("GET", "/api/patient/v1", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)

		resp, _ := app.Test(req, -1)

		assert.Equal(t, 200, resp.StatusCode)
	})
}
