package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"clinic-app-server/internal/config"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/routes"
	"clinic-app-server/internal/utils"
)

// setupServer wires the real router against an in-memory SQLite database.
// Redis is never connected in tests, so the rate limiter passes everything
// through.
func setupServer(t *testing.T) (*gin.Engine, *gorm.DB, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:testdb_handlers_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("failed to auto-migrate models: %v", err)
	}

	cfg := &config.Config{
		Environment:               "test",
		JWTSecret:                 "test_access_secret",
		JWTRefreshSecret:          "test_refresh_secret",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 1,
	}

	router := gin.New()
	routes.SetupRoutes(router, db, cfg)
	return router, db, cfg
}

func createUser(t *testing.T, db *gorm.DB, role models.Role, email string) models.User {
	t.Helper()
	user := models.User{
		Email:     email,
		FirstName: "Test",
		LastName:  string(role),
		Role:      role,
	}
	if err := user.SetPassword("password123"); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if role == models.RoleDoctor {
		user.Specialization = "Cardiology"
		user.LicenseNumber = "LIC-1234"
		user.Experience = 10
		user.Qualifications = "MBBS, MD"
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func bearerToken(t *testing.T, cfg *config.Config, user models.User) string {
	t.Helper()
	access, _, err := utils.GenerateTokens(&user, cfg)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return "Bearer " + access
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeResponse unmarshals the standard response envelope.
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) utils.ResponseData {
	t.Helper()
	var resp utils.ResponseData
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return resp
}

// dataMap returns the envelope's data field as a map.
func dataMap(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	resp := decodeResponse(t, w)
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected object data, got %T (%q)", resp.Data, w.Body.String())
	}
	return data
}
