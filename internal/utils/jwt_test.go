package utils

import (
	"testing"

	"clinic-app-server/internal/config"
	"clinic-app-server/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "test_access_secret",
		JWTRefreshSecret:          "test_refresh_secret",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 1,
	}
}

func TestGenerateAndValidateTokens(t *testing.T) {
	cfg := testConfig()
	user := &models.User{Role: models.RoleDoctor}
	user.ID = "user-123"

	access, refresh, err := GenerateTokens(user, cfg)
	if err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("expected non-empty tokens")
	}

	claims, err := ValidateToken(access, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("expected user ID user-123, got %s", claims.UserID)
	}
	if claims.Role != models.RoleDoctor {
		t.Errorf("expected role doctor, got %s", claims.Role)
	}

	if _, err := ValidateToken(refresh, cfg.JWTRefreshSecret); err != nil {
		t.Errorf("refresh token should validate against refresh secret: %v", err)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	cfg := testConfig()
	user := &models.User{Role: models.RolePatient}
	user.ID = "user-456"

	access, _, err := GenerateTokens(user, cfg)
	if err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}

	if _, err := ValidateToken(access, "some_other_secret"); err == nil {
		t.Fatal("expected validation to fail with the wrong secret")
	}

	// An access token must not validate as a refresh token.
	if _, err := ValidateToken(access, cfg.JWTRefreshSecret); err == nil {
		t.Fatal("expected access token to fail refresh-secret validation")
	}
}
