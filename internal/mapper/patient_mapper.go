package mapper

import (
	"encoding/json"
	"time"

	"aftercare-ai-be/internal/entity"
	"aftercare-ai-be/internal/model"

	"gorm.io/datatypes"
)

type PatientMapper struct{}

func NewPatientMapper() *PatientMapper {
	return &PatientMapper{}
}

func (m *PatientMapper) ToEntity(p *model.Patient) *entity.Patient {
	if p == nil {
		return nil
	}

	var symptoms []string
	if len(p.Symptoms) > 0 {
		_ = json.Unmarshal(p.Symptoms, &symptoms)
	}
	var medications []string
	if len(p.Medications) > 0 {
		_ = json.Unmarshal(p.Medications, &medications)
	}
	var labResults map[string]string
	if len(p.LabResults) > 0 {
		_ = json.Unmarshal(p.LabResults, &labResults)
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Patient{
		Id:             p.Id,
		PatientCode:    p.PatientCode,
		Name:           p.Name,
		Age:            p.Age,
		Gender:         p.Gender,
		Diagnosis:      p.Diagnosis,
		Symptoms:       symptoms,
		LabResults:     labResults,
		TreatmentPlan:  p.TreatmentPlan,
		Medications:    medications,
		DoctorNotes:    p.DoctorNotes,
		FollowUp:       p.FollowUp,
		Email:          p.Email,
		DateAdmitted:   p.DateAdmitted,
		DateDischarged: p.DateDischarged,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *PatientMapper) ToModel(p *entity.Patient) *model.Patient {
	if p == nil {
		return nil
	}

	symptoms, _ := json.Marshal(p.Symptoms)
	medications, _ := json.Marshal(p.Medications)
	labResults, _ := json.Marshal(p.LabResults)

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Patient{
		Id:             p.Id,
		PatientCode:    p.PatientCode,
		Name:           p.Name,
		Age:            p.Age,
		Gender:         p.Gender,
		Diagnosis:      p.Diagnosis,
		Symptoms:       datatypes.JSON(symptoms),
		LabResults:     datatypes.JSON(labResults),
		TreatmentPlan:  p.TreatmentPlan,
		Medications:    datatypes.JSON(medications),
		DoctorNotes:    p.DoctorNotes,
		FollowUp:       p.FollowUp,
		Email:          p.Email,
		DateAdmitted:   p.DateAdmitted,
		DateDischarged: p.DateDischarged,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *PatientMapper) ToEntities(patients []*model.Patient) []*entity.Patient {
	entities := make([]*entity.Patient, len(patients))
	for i, p := range patients {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
