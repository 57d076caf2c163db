package models

import (
	"errors"

	"gorm.io/gorm"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// ErrSlotTaken is returned when a write would leave two non-cancelled
// appointments on the same (doctor, date, time) slot.
var ErrSlotTaken = errors.New("time slot is already booked")

// Appointment represents a scheduled clinic visit occupying one 30-minute slot.
//
// SlotActive is non-NULL exactly while the appointment is not cancelled. It
// participates in the uniq_active_slot index with doctor/date/time, so the
// database rejects a second active appointment for the same slot no matter
// how two bookings interleave; cancelled rows hold NULL and never collide.
type Appointment struct {
	BaseModel
	PatientID  string            `gorm:"size:36;index" json:"patientId"`
	DoctorID   string            `gorm:"size:36;uniqueIndex:uniq_active_slot" json:"doctorId"`
	Date       string            `gorm:"size:10;uniqueIndex:uniq_active_slot" json:"date"`
	Time       string            `gorm:"size:5;uniqueIndex:uniq_active_slot" json:"time"`
	Reason     string            `gorm:"size:255" json:"reason"`
	Status     AppointmentStatus `gorm:"size:20;default:'pending'" json:"status"`
	SlotActive *bool             `gorm:"uniqueIndex:uniq_active_slot" json:"-"`

	// Relations
	Patient User `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"-"`
}

func slotMarker(status AppointmentStatus) *bool {
	if status == StatusCancelled {
		return nil
	}
	active := true
	return &active
}

// BookAppointment creates a pending appointment for the given slot. The
// pre-check and insert run in one transaction; even if a concurrent booking
// slips between them, the uniq_active_slot index fails the insert and the
// caller still sees ErrSlotTaken.
func BookAppointment(db *gorm.DB, patientID, doctorID, date, timeSlot, reason string) (*Appointment, error) {
	appointment := &Appointment{
		PatientID:  patientID,
		DoctorID:   doctorID,
		Date:       date,
		Time:       timeSlot,
		Reason:     reason,
		Status:     StatusPending,
		SlotActive: slotMarker(StatusPending),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Appointment{}).
			Where("doctor_id = ? AND date = ? AND time = ? AND status <> ?",
				doctorID, date, timeSlot, StatusCancelled).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSlotTaken
		}

		if err := tx.Create(appointment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSlotTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// BusyTimes returns the occupied time values for a doctor on a date, i.e.
// the times of every appointment on that doctor/date that is not cancelled.
func BusyTimes(db *gorm.DB, doctorID, date string) ([]string, error) {
	var times []string
	err := db.Model(&Appointment{}).
		Where("doctor_id = ? AND date = ? AND status <> ?", doctorID, date, StatusCancelled).
		Order("time asc").
		Pluck("time", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

// SetStatus transitions the appointment and keeps the slot marker in sync:
// cancelling frees the slot, any other status occupies it. Re-arming a
// cancelled appointment can itself conflict with a booking made in the
// meantime, in which case ErrSlotTaken is returned and nothing changes.
func (a *Appointment) SetStatus(db *gorm.DB, status AppointmentStatus) error {
	a.Status = status
	a.SlotActive = slotMarker(status)

	// Save with Select so the NULL marker is written on cancellation.
	err := db.Model(a).Select("status", "slot_active").Updates(map[string]interface{}{
		"status":      a.Status,
		"slot_active": a.SlotActive,
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlotTaken
	}
	return err
}
