package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a discharged patient's record as the rest of the system
// sees it. PatientCode is the human-facing ID printed on the discharge
// paperwork (e.g. "PT-1001").
type Patient struct {
	Id             uuid.UUID
	PatientCode    string
	Name           string
	Age            int
	Gender         string
	Diagnosis      string
	Symptoms       []string
	LabResults     map[string]string
	TreatmentPlan  string
	Medications    []string
	DoctorNotes    string
	FollowUp       string
	Email          string
	DateAdmitted   time.Time
	DateDischarged time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
