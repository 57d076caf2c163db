package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/utils"
)

// PrescriptionHandler handles prescription requests.
type PrescriptionHandler struct {
	DB *gorm.DB
}

// NewPrescriptionHandler creates a new PrescriptionHandler.
func NewPrescriptionHandler(db *gorm.DB) *PrescriptionHandler {
	return &PrescriptionHandler{DB: db}
}

// MedicationRequest is one medication line in a create request.
type MedicationRequest struct {
	Name      string `json:"name" binding:"required"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

// CreatePrescriptionRequest represents the request body for issuing a prescription.
type CreatePrescriptionRequest struct {
	PatientID     string              `json:"patientId" binding:"required"`
	AppointmentID string              `json:"appointmentId" binding:"required"`
	Diagnosis     string              `json:"diagnosis" binding:"required"`
	Medications   []MedicationRequest `json:"medications" binding:"required,min=1,dive"`
	Instructions  string              `json:"instructions"`
	Notes         string              `json:"notes"`
}

// CreatePrescription issues a prescription for one of the doctor's
// appointments. The prescription and its medications are written atomically;
// an appointment can carry at most one prescription.
func (h *PrescriptionHandler) CreatePrescription(c *gin.Context) {
	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreatePrescriptionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	// The appointment must be this doctor's, with this patient.
	var appointment models.Appointment
	if err := h.DB.Where("id = ? AND doctor_id = ? AND patient_id = ?",
		req.AppointmentID, doctorID, req.PatientID).First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Appointment not found or you do not have permission to prescribe for it")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	prescription := models.Prescription{
		AppointmentID: req.AppointmentID,
		DoctorID:      doctorID,
		PatientID:     req.PatientID,
		Diagnosis:     req.Diagnosis,
		Instructions:  req.Instructions,
		Notes:         req.Notes,
	}
	for _, m := range req.Medications {
		prescription.Medications = append(prescription.Medications, models.Medication{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
		})
	}

	if err := models.CreatePrescription(h.DB, &prescription); err != nil {
		if errors.Is(err, models.ErrPrescriptionExists) {
			utils.Conflict(c, "This appointment already has a prescription")
			return
		}
		utils.InternalServerError(c, "Failed to create prescription: "+err.Error())
		return
	}

	utils.Created(c, "Prescription created successfully", gin.H{"prescriptionId": prescription.ID})
}

// PrescriptionItem is the listing shape for prescription dashboards.
type PrescriptionItem struct {
	ID                   string              `json:"id"`
	Diagnosis            string              `json:"diagnosis"`
	Instructions         string              `json:"instructions"`
	Notes                string              `json:"notes"`
	Date                 time.Time           `json:"date"`
	AppointmentDate      string              `json:"appointmentDate"`
	AppointmentTime      string              `json:"appointmentTime"`
	PatientName          string              `json:"patientName,omitempty"`
	DoctorName           string              `json:"doctorName,omitempty"`
	DoctorSpecialization string              `json:"doctorSpecialization,omitempty"`
	Medications          []models.Medication `json:"medications"`
}

// GetDoctorPrescriptions lists prescriptions issued by the logged-in doctor.
func (h *PrescriptionHandler) GetDoctorPrescriptions(c *gin.Context) {
	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var prescriptions []models.Prescription
	err := h.DB.Preload("Medications").Preload("Patient").Preload("Appointment").
		Where("doctor_id = ?", doctorID).
		Order("created_at desc").
		Find(&prescriptions).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch prescriptions: "+err.Error())
		return
	}

	items := make([]PrescriptionItem, len(prescriptions))
	for i, p := range prescriptions {
		items[i] = PrescriptionItem{
			ID:              p.ID,
			Diagnosis:       p.Diagnosis,
			Instructions:    p.Instructions,
			Notes:           p.Notes,
			Date:            p.CreatedAt,
			AppointmentDate: p.Appointment.Date,
			AppointmentTime: p.Appointment.Time,
			PatientName:     p.Patient.FullName(),
			Medications:     p.Medications,
		}
	}

	utils.Success(c, "Prescriptions fetched successfully", gin.H{"prescriptions": items})
}

// GetPatientPrescriptions lists prescriptions issued to the logged-in patient.
func (h *PrescriptionHandler) GetPatientPrescriptions(c *gin.Context) {
	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var prescriptions []models.Prescription
	err := h.DB.Preload("Medications").Preload("Doctor").Preload("Appointment").
		Where("patient_id = ?", patientID).
		Order("created_at desc").
		Find(&prescriptions).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch prescriptions: "+err.Error())
		return
	}

	items := make([]PrescriptionItem, len(prescriptions))
	for i, p := range prescriptions {
		items[i] = PrescriptionItem{
			ID:                   p.ID,
			Diagnosis:            p.Diagnosis,
			Instructions:         p.Instructions,
			Notes:                p.Notes,
			Date:                 p.CreatedAt,
			AppointmentDate:      p.Appointment.Date,
			AppointmentTime:      p.Appointment.Time,
			DoctorName:           p.Doctor.FullName(),
			DoctorSpecialization: p.Doctor.Specialization,
			Medications:          p.Medications,
		}
	}

	utils.Success(c, "Prescriptions fetched successfully", gin.H{"prescriptions": items})
}

// GetPublicPrescription fetches a single prescription without
// authentication. Intentionally public: printed prescriptions carry their ID
// so pharmacies can verify them.
func (h *PrescriptionHandler) GetPublicPrescription(c *gin.Context) {
	prescriptionID := c.Param("id")

	var p models.Prescription
	err := h.DB.Preload("Medications").Preload("Doctor").Preload("Patient").Preload("Appointment").
		First(&p, "id = ?", prescriptionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Prescription not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	item := PrescriptionItem{
		ID:                   p.ID,
		Diagnosis:            p.Diagnosis,
		Instructions:         p.Instructions,
		Notes:                p.Notes,
		Date:                 p.CreatedAt,
		AppointmentDate:      p.Appointment.Date,
		AppointmentTime:      p.Appointment.Time,
		PatientName:          p.Patient.FullName(),
		DoctorName:           p.Doctor.FullName(),
		DoctorSpecialization: p.Doctor.Specialization,
		Medications:          p.Medications,
	}

	utils.Success(c, "Prescription fetched successfully", gin.H{"prescription": item})
}
