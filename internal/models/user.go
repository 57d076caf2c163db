package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// User represents a clinic account. Doctors and patients share one table;
// the role column decides which profile fields are meaningful.
type User struct {
	BaseModel
	Email     string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	FirstName string `gorm:"size:100" json:"firstName"`
	LastName  string `gorm:"size:100" json:"lastName"`
	Role      Role   `gorm:"size:20;default:'patient'" json:"role"`

	// Patient profile
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	PhoneNumber string     `gorm:"size:30" json:"phoneNumber,omitempty"`
	Address     string     `gorm:"size:255" json:"address,omitempty"`

	// Doctor profile
	Specialization string `gorm:"size:100" json:"specialization,omitempty"`
	LicenseNumber  string `gorm:"size:50" json:"licenseNumber,omitempty"`
	Experience     int    `json:"experience,omitempty"`
	Qualifications string `gorm:"size:255" json:"qualifications,omitempty"`

	// Relations (not always preloaded)
	RefreshTokens        []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
	DoctorAppointments   []Appointment  `gorm:"foreignKey:DoctorID" json:"-"`
	PatientAppointments  []Appointment  `gorm:"foreignKey:PatientID" json:"-"`
	DoctorPrescriptions  []Prescription `gorm:"foreignKey:DoctorID" json:"-"`
	PatientPrescriptions []Prescription `gorm:"foreignKey:PatientID" json:"-"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Role           Role       `json:"role"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	PhoneNumber    string     `json:"phoneNumber,omitempty"`
	Address        string     `json:"address,omitempty"`
	Specialization string     `json:"specialization,omitempty"`
	LicenseNumber  string     `json:"licenseNumber,omitempty"`
	Experience     int        `json:"experience,omitempty"`
	Qualifications string     `json:"qualifications,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Role:           u.Role,
		DateOfBirth:    u.DateOfBirth,
		PhoneNumber:    u.PhoneNumber,
		Address:        u.Address,
		Specialization: u.Specialization,
		LicenseNumber:  u.LicenseNumber,
		Experience:     u.Experience,
		Qualifications: u.Qualifications,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// FullName returns the display name used in appointment and prescription
// listings. Doctors get the "Dr." honorific, matching the web client.
func (u *User) FullName() string {
	if u.Role == RoleDoctor {
		return "Dr. " + u.FirstName + " " + u.LastName
	}
	return u.FirstName + " " + u.LastName
}
