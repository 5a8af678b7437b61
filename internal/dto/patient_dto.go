package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePatientRequest struct {
	PatientCode    string            `json:"patient_code" validate:"required,max=32"`
	Name           string            `json:"name" validate:"required,min=2"`
	Age            int               `json:"age" validate:"omitempty,min=0,max=130"`
	Gender         string            `json:"gender" validate:"omitempty,oneof=male female other"`
	Email          string            `json:"email" validate:"omitempty,email"`
	Diagnosis      string            `json:"diagnosis" validate:"required"`
	Symptoms       []string          `json:"symptoms"`
	LabResults     map[string]string `json:"lab_results"`
	Medications    []string          `json:"medications"`
	TreatmentPlan  string            `json:"treatment_plan"`
	DoctorNotes    string            `json:"doctor_notes"`
	FollowUp       string            `json:"follow_up"`
	DateAdmitted   time.Time         `json:"date_admitted"`
	DateDischarged time.Time         `json:"date_discharged" validate:"required"`
}

type CreatePatientResponse struct {
	Id          uuid.UUID `json:"id"`
	PatientCode string    `json:"patient_code"`
}

type PatientResponse struct {
	Id             uuid.UUID         `json:"id"`
	PatientCode    string            `json:"patient_code"`
	Name           string            `json:"name"`
	Age            int               `json:"age,omitempty"`
	Gender         string            `json:"gender,omitempty"`
	Email          string            `json:"email,omitempty"`
	Diagnosis      string            `json:"diagnosis"`
	Symptoms       []string          `json:"symptoms"`
	LabResults     map[string]string `json:"lab_results"`
	Medications    []string          `json:"medications"`
	TreatmentPlan  string            `json:"treatment_plan"`
	DoctorNotes    string            `json:"doctor_notes"`
	FollowUp       string            `json:"follow_up"`
	DateAdmitted   time.Time         `json:"date_admitted"`
	DateDischarged time.Time         `json:"date_discharged"`
	CreatedAt      time.Time         `json:"created_at"`
}

type PatientSummaryResponse struct {
	Id             uuid.UUID `json:"id"`
	PatientCode    string    `json:"patient_code"`
	Name           string    `json:"name"`
	Diagnosis      string    `json:"diagnosis"`
	DateDischarged time.Time `json:"date_discharged"`
}
