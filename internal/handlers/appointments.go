package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/slots"
	"clinic-app-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB *gorm.DB
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB) *AppointmentHandler {
	return &AppointmentHandler{DB: db}
}

// AppointmentItem is the camelCase listing shape consumed by the dashboards.
// DoctorName/DoctorSpecialization are filled for patients, PatientName for
// doctors.
type AppointmentItem struct {
	ID                   string    `json:"id"`
	PatientID            string    `json:"patientId"`
	DoctorID             string    `json:"doctorId"`
	Date                 string    `json:"date"`
	Time                 string    `json:"time"`
	Reason               string    `json:"reason"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
	DoctorName           string    `json:"doctorName,omitempty"`
	DoctorSpecialization string    `json:"doctorSpecialization,omitempty"`
	PatientName          string    `json:"patientName,omitempty"`
}

// GetUserAppointments handles fetching appointments for the logged-in user
// (patient or doctor), newest first.
func (h *AppointmentHandler) GetUserAppointments(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	var appointments []models.Appointment
	query := h.DB.Order("date desc, time desc")

	var err error
	switch userRole {
	case models.RolePatient:
		err = query.Preload("Doctor").Where("patient_id = ?", userID).Find(&appointments).Error
	case models.RoleDoctor:
		err = query.Preload("Patient").Where("doctor_id = ?", userID).Find(&appointments).Error
	default:
		utils.Forbidden(c, "Unauthorized access")
		return
	}

	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	items := make([]AppointmentItem, len(appointments))
	for i, a := range appointments {
		item := AppointmentItem{
			ID:        a.ID,
			PatientID: a.PatientID,
			DoctorID:  a.DoctorID,
			Date:      a.Date,
			Time:      a.Time,
			Reason:    a.Reason,
			Status:    string(a.Status),
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		}
		if userRole == models.RolePatient {
			item.DoctorName = a.Doctor.FullName()
			item.DoctorSpecialization = a.Doctor.Specialization
		} else {
			item.PatientName = a.Patient.FullName()
		}
		items[i] = item
	}

	utils.Success(c, "Appointments fetched successfully", gin.H{"appointments": items})
}

// BookAppointmentRequest represents the request body for booking an appointment.
type BookAppointmentRequest struct {
	DoctorID string `json:"doctorId" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
}

// BookAppointment books a clinic slot for the authenticated patient.
func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	if role, _ := middleware.GetUserRoleFromContext(c); role != models.RolePatient {
		utils.Forbidden(c, "Only patients can book appointments")
		return
	}

	var req BookAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}
	if !slots.Valid(req.Time) {
		utils.BadRequest(c, "Time must be a 30-minute slot between 09:00 and 16:30")
		return
	}

	// Verify the target doctor exists
	var doctor models.User
	if err := h.DB.Where("id = ? AND role = ?", req.DoctorID, models.RoleDoctor).First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
		}
		return
	}

	appointment, err := models.BookAppointment(h.DB, patientID, req.DoctorID, req.Date, req.Time, req.Reason)
	if err != nil {
		if errors.Is(err, models.ErrSlotTaken) {
			utils.Conflict(c, "This time slot is already booked")
			return
		}
		utils.InternalServerError(c, "Error booking appointment: "+err.Error())
		return
	}

	utils.Created(c, "Appointment booked successfully", gin.H{"appointmentId": appointment.ID})
}

// GetAvailableSlots returns the busy and free slot times for a doctor on a
// date. Busy means any non-cancelled appointment at that time.
func (h *AppointmentHandler) GetAvailableSlots(c *gin.Context) {
	doctorID := c.Query("doctorId")
	date := c.Query("date")
	if doctorID == "" || date == "" {
		utils.BadRequest(c, "Doctor ID and date are required")
		return
	}

	busy, err := models.BusyTimes(h.DB, doctorID, date)
	if err != nil {
		utils.InternalServerError(c, "Error fetching time slots: "+err.Error())
		return
	}

	utils.Success(c, "Time slots fetched successfully", gin.H{
		"busySlots":      busy,
		"availableSlots": slots.Available(busy),
	})
}

// UpdateStatusRequest represents the request body for a status transition.
type UpdateStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required,oneof=pending confirmed cancelled completed"`
}

// UpdateAppointmentStatus transitions an appointment's status. Doctors may
// update their own appointments to any allowed status; patients may only
// cancel their own. Appointments owned by someone else read as not found.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	appointmentID := c.Param("id")

	var req UpdateStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	if userRole == models.RolePatient && req.Status != models.StatusCancelled {
		utils.Forbidden(c, "Patients can only cancel appointments")
		return
	}

	var ownerColumn string
	switch userRole {
	case models.RoleDoctor:
		ownerColumn = "doctor_id"
	case models.RolePatient:
		ownerColumn = "patient_id"
	default:
		utils.Forbidden(c, "Unauthorized access")
		return
	}

	var appointment models.Appointment
	if err := h.DB.Where("id = ? AND "+ownerColumn+" = ?", appointmentID, userID).First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Appointment not found or you do not have permission to update it")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := appointment.SetStatus(h.DB, req.Status); err != nil {
		if errors.Is(err, models.ErrSlotTaken) {
			utils.Conflict(c, "This time slot is already booked")
			return
		}
		utils.InternalServerError(c, "Error updating appointment status: "+err.Error())
		return
	}

	utils.Success(c, "Appointment status updated successfully", nil)
}
