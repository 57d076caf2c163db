package models

import (
	"errors"

	"gorm.io/gorm"
)

// ErrPrescriptionExists is returned when an appointment already has a
// prescription; at most one may exist per appointment.
var ErrPrescriptionExists = errors.New("appointment already has a prescription")

// Prescription represents the clinical outcome of a completed appointment.
type Prescription struct {
	BaseModel
	AppointmentID string `gorm:"size:36;uniqueIndex" json:"appointmentId"`
	DoctorID      string `gorm:"size:36;index" json:"doctorId"`
	PatientID     string `gorm:"size:36;index" json:"patientId"`
	Diagnosis     string `gorm:"size:255;not null" json:"diagnosis"`
	Instructions  string `gorm:"type:text" json:"instructions"`
	Notes         string `gorm:"type:text" json:"notes"`

	// Relations
	Medications []Medication `gorm:"foreignKey:PrescriptionID" json:"medications"`
	Appointment Appointment  `gorm:"foreignKey:AppointmentID" json:"-"`
	Doctor      User         `gorm:"foreignKey:DoctorID" json:"-"`
	Patient     User         `gorm:"foreignKey:PatientID" json:"-"`
}

// Medication is one line item on a prescription.
type Medication struct {
	BaseModel
	PrescriptionID string `gorm:"size:36;index" json:"-"`
	Name           string `gorm:"size:255" json:"name"`
	Dosage         string `gorm:"size:100" json:"dosage"`
	Frequency      string `gorm:"size:100" json:"frequency"`
	Duration       string `gorm:"size:100" json:"duration"`
}

// CreatePrescription inserts the prescription and all of its medication rows
// in a single transaction, so a medication failure can never leave an
// orphaned prescription behind.
func CreatePrescription(db *gorm.DB, prescription *Prescription) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(prescription).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrPrescriptionExists
	}
	return err
}
