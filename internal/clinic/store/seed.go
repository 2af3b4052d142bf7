package store

import (
	"context"

	"clinicdesk/internal/clinic/models"
)

func ptr[T any](v T) *T { return &v }

var samplePatients = []models.PatientFields{
	{Name: "Raj Kumar", DateOfBirth: "1985-05-15", Gender: "Male", Mobile: "+91 98765 43210", Email: ptr("raj@example.com"), LastAppointment: ptr("2025-03-15"), Status: models.StatusWaiting},
	{Name: "Priya Sharma", DateOfBirth: "1992-08-22", Gender: "Female", Mobile: "+91 98765 43211", Email: ptr("priya@example.com"), LastAppointment: ptr("2025-03-14"), Status: models.StatusInConsultation},
	{Name: "Amit Patel", DateOfBirth: "1978-12-03", Gender: "Male", Mobile: "+91 98765 43212", Email: ptr("amit@example.com"), LastAppointment: ptr("2025-03-16"), Status: models.StatusCompleted},
	{Name: "Deepa Gupta", DateOfBirth: "1990-03-28", Gender: "Female", Mobile: "+91 98765 43213", Email: ptr("deepa@example.com"), LastAppointment: ptr("2025-03-12"), Status: models.StatusWaiting},
	{Name: "Vikram Singh", DateOfBirth: "1982-07-19", Gender: "Male", Mobile: "+91 98765 43214", Email: ptr("vikram@example.com"), LastAppointment: ptr("2025-03-11"), Status: models.StatusWaiting},
	{Name: "Meera Reddy", DateOfBirth: "1995-01-08", Gender: "Female", Mobile: "+91 98765 43215", Email: ptr("meera@example.com"), LastAppointment: ptr("2025-03-17"), Status: models.StatusInConsultation},
	{Name: "Suresh Kumar", DateOfBirth: "1975-11-30", Gender: "Male", Mobile: "+91 98765 43216", Email: ptr("suresh@example.com"), LastAppointment: ptr("2025-03-13"), Status: models.StatusWaiting},
	{Name: "Anita Desai", DateOfBirth: "1988-04-25", Gender: "Female", Mobile: "+91 98765 43217", Email: ptr("anita@example.com"), LastAppointment: ptr("2025-03-18"), Status: models.StatusCompleted},
	{Name: "Rahul Verma", DateOfBirth: "1993-09-12", Gender: "Male", Mobile: "+91 98765 43218", Email: ptr("rahul@example.com"), LastAppointment: ptr("2025-03-10"), Status: models.StatusWaiting},
	{Name: "Neha Kapoor", DateOfBirth: "1987-06-17", Gender: "Female", Mobile: "+91 98765 43219", Email: ptr("neha@example.com"), LastAppointment: ptr("2025-03-09"), Status: models.StatusCancelled},
}

var sampleDoctors = []models.DoctorFields{
	{Name: "Dr. Vaibhav Chahar", Specialization: "General Physician", ClinicID: ptr(models.ClinicID(1))},
	{Name: "Dr. Priyanka Chopra", Specialization: "Pediatrician", ClinicID: ptr(models.ClinicID(1))},
	{Name: "Dr. Rajesh Kumar", Specialization: "Orthopedic", ClinicID: ptr(models.ClinicID(1))},
	{Name: "Dr. Anjali Singh", Specialization: "Gynecologist", ClinicID: ptr(models.ClinicID(2))},
	{Name: "Dr. Sanjay Gupta", Specialization: "Neurologist", ClinicID: ptr(models.ClinicID(2))},
}

// Seed loads the sample roster through the regular create path so seeded
// records consume ids like any other.
func Seed(s *InMemory) {
	ctx := context.Background()
	for _, p := range samplePatients {
		_, _ = s.CreatePatient(ctx, p)
	}
	for _, d := range sampleDoctors {
		_, _ = s.CreateDoctor(ctx, d)
	}
}
