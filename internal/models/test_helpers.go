package models

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing and migrates
// the full schema. TranslateError matches the production gorm.Config so
// unique-index violations surface as gorm.ErrDuplicatedKey here too. The
// database name is uniquified to prevent cross-test contamination when tests
// run in the same process.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb_models_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to auto-migrate models: %v", err)
	}

	return db
}

// newTestUser inserts a user with the given role and returns it.
func newTestUser(t *testing.T, db *gorm.DB, role Role, email string) User {
	t.Helper()
	user := User{
		Email:     email,
		FirstName: "Test",
		LastName:  string(role),
		Role:      role,
	}
	if err := user.SetPassword("password123"); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if role == RoleDoctor {
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
