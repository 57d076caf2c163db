package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/utils"
)

// DoctorHandler handles doctor directory and patient-roster requests.
type DoctorHandler struct {
	DB *gorm.DB
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{DB: db}
}

// DoctorItem is the public directory entry for a doctor.
type DoctorItem struct {
	ID             string `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Specialization string `json:"specialization"`
	Experience     int    `json:"experience"`
	Qualifications string `json:"qualifications"`
}

// GetAllDoctors lists every registered doctor. Public: patients browse this
// before they have an account's appointment context.
func (h *DoctorHandler) GetAllDoctors(c *gin.Context) {
	var doctors []models.User
	if err := h.DB.Where("role = ?", models.RoleDoctor).Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	items := make([]DoctorItem, len(doctors))
	for i, d := range doctors {
		items[i] = DoctorItem{
			ID:             d.ID,
			FirstName:      d.FirstName,
			LastName:       d.LastName,
			Specialization: d.Specialization,
			Experience:     d.Experience,
			Qualifications: d.Qualifications,
		}
	}

	utils.Success(c, "Doctors fetched successfully", gin.H{"doctors": items})
}

type doctorPatientRow struct {
	ID               string
	FirstName        string
	LastName         string
	Email            string
	PhoneNumber      string
	DateOfBirth      *time.Time
	AppointmentCount int64
	LastVisit        string
}

// PatientItem is one entry in a doctor's patient roster.
type PatientItem struct {
	ID               string     `json:"id"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	DateOfBirth      *time.Time `json:"dateOfBirth"`
	AppointmentCount int64      `json:"appointmentCount"`
	LastVisit        string     `json:"lastVisit"`
}

// GetDoctorPatients lists the distinct patients who have appointments with
// the logged-in doctor, most recently seen first.
func (h *DoctorHandler) GetDoctorPatients(c *gin.Context) {
	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var rows []doctorPatientRow
	err := h.DB.Table("users").
		Select("users.id, users.first_name, users.last_name, users.email, users.phone_number, users.date_of_birth, "+
			"COUNT(appointments.id) AS appointment_count, MAX(appointments.date) AS last_visit").
		Joins("JOIN appointments ON appointments.patient_id = users.id").
		Where("appointments.doctor_id = ?", doctorID).
		Group("users.id, users.first_name, users.last_name, users.email, users.phone_number, users.date_of_birth").
		Order("last_visit DESC").
		Scan(&rows).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}

	patients := make([]PatientItem, len(rows))
	for i, r := range rows {
		patients[i] = PatientItem{
			ID:               r.ID,
			FirstName:        r.FirstName,
			LastName:         r.LastName,
			Email:            r.Email,
			Phone:            r.PhoneNumber,
			DateOfBirth:      r.DateOfBirth,
			AppointmentCount: r.AppointmentCount,
			LastVisit:        r.LastVisit,
		}
	}

	utils.Success(c, "Patients fetched successfully", gin.H{"patients": patients})
}

type historyRow struct {
	ID             string
	Date           string
	Time           string
	Reason         string
	Status         string
	PrescriptionID *string
	Diagnosis      *string
}

// HistoryItem is one visit in a patient's history with this doctor.
type HistoryItem struct {
	ID              string  `json:"id"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	PrescriptionID  *string `json:"prescriptionId"`
	Diagnosis       *string `json:"diagnosis"`
	HasPrescription bool    `json:"hasPrescription"`
}

// GetPatientHistory lists the doctor's appointments with one patient,
// including whether each produced a prescription.
func (h *DoctorHandler) GetPatientHistory(c *gin.Context) {
	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	patientID := c.Param("patientId")
	if patientID == "" {
		utils.BadRequest(c, "Patient ID is required")
		return
	}

	var rows []historyRow
	err := h.DB.Table("appointments").
		Select("appointments.id, appointments.date, appointments.time, appointments.reason, appointments.status, "+
			"prescriptions.id AS prescription_id, prescriptions.diagnosis").
		Joins("LEFT JOIN prescriptions ON prescriptions.appointment_id = appointments.id").
		Where("appointments.doctor_id = ? AND appointments.patient_id = ?", doctorID, patientID).
		Order("appointments.date DESC, appointments.time DESC").
		Scan(&rows).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch patient history: "+err.Error())
		return
	}

	history := make([]HistoryItem, len(rows))
	for i, r := range rows {
		history[i] = HistoryItem{
			ID:              r.ID,
			Date:            r.Date,
			Time:            r.Time,
			Reason:          r.Reason,
			Status:          r.Status,
			PrescriptionID:  r.PrescriptionID,
			Diagnosis:       r.Diagnosis,
			HasPrescription: r.PrescriptionID != nil,
		}
	}

	utils.Success(c, "Patient history fetched successfully", gin.H{"history": history})
}
