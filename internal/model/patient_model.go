package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Patient struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PatientCode    string         `gorm:"type:varchar(32);not null;uniqueIndex"`
	Name           string         `gorm:"type:varchar(255);not null;index"`
	Age            int            `gorm:"not null"`
	Gender         string         `gorm:"type:varchar(16)"`
	Diagnosis      string         `gorm:"type:text;not null"`
	Symptoms       datatypes.JSON `gorm:"type:jsonb"`
	LabResults     datatypes.JSON `gorm:"type:jsonb"`
	TreatmentPlan  string         `gorm:"type:text"`
	Medications    datatypes.JSON `gorm:"type:jsonb"`
	DoctorNotes    string         `gorm:"type:text"`
	FollowUp       string         `gorm:"type:text"`
	Email          string         `gorm:"type:varchar(255)"`
	DateAdmitted   time.Time      `gorm:"not null"`
	DateDischarged time.Time      `gorm:"not null;index"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
}

func (Patient) TableName() string {
	return "patients"
}
