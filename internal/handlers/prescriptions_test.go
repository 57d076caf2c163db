package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"clinic-app-server/internal/config"
	"clinic-app-server/internal/models"
)

// bookTestAppointment books through the API and returns the appointment ID.
func bookTestAppointment(t *testing.T, router *gin.Engine, cfg *config.Config, doctor, patient models.User) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/appointments/book",
		bearerToken(t, cfg, patient), bookingBody(doctor.ID, "2026-06-01", "09:00", "checkup"))
	if w.Code != http.StatusCreated {
		t.Fatalf("booking: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return dataMap(t, w)["appointmentId"].(string)
}

func prescriptionBody(patientID, appointmentID string) map[string]interface{} {
	return map[string]interface{}{
		"patientId":     patientID,
		"appointmentId": appointmentID,
		"diagnosis":     "Seasonal allergy",
		"instructions":  "Take after meals",
		"medications": []map[string]interface{}{
			{"name": "Cetirizine", "dosage": "10mg", "frequency": "once daily", "duration": "7 days"},
			{"name": "Saline spray", "dosage": "2 sprays", "frequency": "twice daily", "duration": "7 days"},
		},
	}
}

func TestCreatePrescription(t *testing.T) {
	router, db, cfg := setupServer(t)
	doctor := createUser(t, db, models.RoleDoctor, "doc@clinic.test")
	patient := createUser(t, db, models.RolePatient, "pat@clinic.test")
	apptID := bookTestAppointment(t, router, cfg, doctor, patient)

	w := doJSON(t, router, http.MethodPost, "/api/prescriptions/create",
		bearerToken(t, cfg, doctor), prescriptionBody(patient.ID, apptID))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if id, _ := dataMap(t, w)["prescriptionId"].(string); id == "" {
		t.Fatal("expected prescriptionId in response")
	}
}

func TestCreatePrescription_OnePerAppointment(t *testing.T) {
	router, db, cfg := setupServer(t)
	doctor := createUser(t, db, models.RoleDoctor, "doc@clinic.test")
	patient := createUser(t, db, models.RolePatient, "pat@clinic.test")
	apptID := bookTestAppointment(t, router, cfg, doctor, patient)
	token := bearerToken(t, cfg, doctor)

	if w := doJSON(t, router, http.MethodPost, "/api/prescriptions/create", token,
		prescriptionBody(patient.ID, apptID)); w.Code != http.StatusCreated {
		t.Fatalf("first prescription: expected 201, got %d", w.Code)
	}

	w := doJSON(t, router, http.MethodPost, "/api/prescriptions/create", token,
		prescriptionBody(patient.ID, apptID))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for second prescription on same appointment, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreatePrescription_DoctorsOnly(t *testing.T) {
	router, db, cfg := setupServer(t)
	doctor := createUser(t, db, models.RoleDoctor, "doc@clinic.test")
	patient := createUser(t, db, models.RolePatient, "pat@clinic.test")
	apptID := bookTestAppointment(t, router, cfg, doctor, patient)

	w := doJSON(t, router, http.MethodPost, "/api/prescriptions/create",
		bearerToken(t, cfg, patient), prescriptionBody(patient.ID, apptID))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for patient, got %d", w.Code)
	}
}

func TestCreatePrescription_ForeignAppointment(t *testing.T) {
	router, db, cfg := setupServer(t)
	doctor := createUser(t, db, models.RoleDoctor, "doc@clinic.test")
	otherDoctor := createUser(t, db, models.RoleDoctor, "doc2@clinic.test")
	patient := createUser(t, db, models.RolePatient, "pat@clinic.test")
	apptID := bookTestAppointment(t, router, cfg, doctor, patient)

	w := doJSON(t, router, http.MethodPost, "/api/prescriptions/create",
		bearerToken(t, cfg, otherDoctor), prescriptionBody(patient.ID, apptID))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another doctor's appointment, got %d", w.Code)
	}
}

func TestGetPatientPrescriptions(t *testing.T) {
	router, db, cfg := setupServer(t)
	doctor := createUser(t, db, models.RoleDoctor, "doc@clinic.test")
	patient := createUser(t, db, models.RolePatient, "pat@clinic.test")
	apptID := bookTestAppointment(t, router, cfg, doctor, patient)

	if w := doJSON(t, router, http.MethodPost, "/api/prescriptions/create",
		bearerToken(t, cfg, doctor), prescriptionBody(patient.ID, apptID)); w.Code != http.StatusCreated {
		t.Fatalf("prescription: expected 201, got %d", w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/prescriptions/patient",
		bearerToken(t, cfg, patient), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	prescriptions, ok := dataMap(t, w)["prescriptions"].([]interface{})
	if !ok || len(prescriptions) != 1 {
		t.Fatalf("expected 1 prescription, got %v", prescriptions)
	}
	p := prescriptions[0].(map[string]interface{})
	if p["diagnosis"] != "Seasonal allergy" {
		t.Errorf("expected diagnosis to round-trip, got %v", p["diagnosis"])
	}
	if p["doctorName"] != "Dr. Test doctor" {
		t.Errorf("expected doctor name on patient listing, got %v", p["doctorName"])
	}
	meds, _ := p["medications"].([]interface{})
	if len(meds) != 2 {
		t.Fatalf("expected 2 medications, got %d", len(meds))
	}
	first := meds[0].(map[string]interface{})
	if first["name"] != "Cetirizine" || first["dosage"] != "10mg" {
		t.Errorf("expected medication details to round-trip, got %v", first)
	}
}

func TestGetDoctorPrescriptions(t *testing.T) {
	router, db, cfg := setupServer(t)
	doctor := createUser(t, db, models.RoleDoctor, "doc@clinic.test")
	patient := createUser(t, db, models.RolePatient, "pat@clinic.test")
	apptID := bookTestAppointment(t, router, cfg, doctor, patient)

	if w := doJSON(t, router, http.MethodPost, "/api/prescriptions/create",
		bearerToken(t, cfg, doctor), prescriptionBody(patient.ID, apptID)); w.Code != http.StatusCreated {
		t.Fatalf("prescription: expected 201, got %d", w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/prescriptions/doctor",
		bearerToken(t, cfg, doctor), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	prescriptions, _ := dataMap(t, w)["prescriptions"].([]interface{})
	if len(prescriptions) != 1 {
		t.Fatalf("expected 1 prescription, got %d", len(prescriptions))
	}
	if p := prescriptions[0].(map[string]interface{}); p["patientName"] != "Test patient" {
		t.Errorf("expected patient name on doctor listing, got %v", p["patientName"])
	}
}

func TestGetPublicPrescription(t *testing.T) {
	router, db, cfg := setupServer(t)
	doctor := createUser(t, db, models.RoleDoctor, "doc@clinic.test")
	patient := createUser(t, db, models.RolePatient, "pat@clinic.test")
	apptID := bookTestAppointment(t, router, cfg, doctor, patient)

	w := doJSON(t, router, http.MethodPost, "/api/prescriptions/create",
		bearerToken(t, cfg, doctor), prescriptionBody(patient.ID, apptID))
	prescriptionID := dataMap(t, w)["prescriptionId"].(string)

	// No Authorization header at all.
	w = doJSON(t, router, http.MethodGet, "/api/prescriptions/public/"+prescriptionID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 without token, got %d: %s", w.Code, w.Body.String())
	}
	p, ok := dataMap(t, w)["prescription"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected prescription object, got %s", w.Body.String())
	}
	if p["doctorSpecialization"] != "Cardiology" {
		t.Errorf("expected doctor specialization, got %v", p["doctorSpecialization"])
	}

	w = doJSON(t, router, http.MethodGet, "/api/prescriptions/public/no-such-id", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown prescription, got %d", w.Code)
	}
}
