package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"aftercare-ai-be/internal/dto"
	"aftercare-ai-be/internal/entity"
	"aftercare-ai-be/internal/pkg/mailer"
	"aftercare-ai-be/internal/repository/specification"
	"aftercare-ai-be/internal/repository/unitofwork"
	"aftercare-ai-be/pkg/conversation"

	"github.com/google/uuid"
)

type IPatientService interface {
	Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.CreatePatientResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	List(ctx context.Context) ([]*dto.PatientSummaryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SendFollowUpReminder(ctx context.Context, id uuid.UUID) error
}

type patientService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
}

func NewPatientService(uowFactory unitofwork.RepositoryFactory, emailService mailer.IEmailService) IPatientService {
	return &patientService{
		uowFactory:   uowFactory,
		emailService: emailService,
	}
}

func (s *patientService) Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.CreatePatientResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	code := strings.ToUpper(strings.TrimSpace(req.PatientCode))
	existing, err := uow.PatientRepository().FindOne(ctx, specification.ByPatientCode{Code: code})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("patient code already registered")
	}

	patient := &entity.Patient{
		Id:             uuid.New(),
		PatientCode:    code,
		Name:           strings.TrimSpace(req.Name),
		Age:            req.Age,
		Gender:         req.Gender,
		Diagnosis:      req.Diagnosis,
		Symptoms:       req.Symptoms,
		LabResults:     req.LabResults,
		Medications:    req.Medications,
		TreatmentPlan:  req.TreatmentPlan,
		DoctorNotes:    req.DoctorNotes,
		FollowUp:       req.FollowUp,
		Email:          req.Email,
		DateAdmitted:   req.DateAdmitted,
		DateDischarged: req.DateDischarged,
		CreatedAt:      time.Now(),
	}

	if err := uow.PatientRepository().Create(ctx, patient); err != nil {
		return nil, err
	}

	return &dto.CreatePatientResponse{Id: patient.Id, PatientCode: patient.PatientCode}, nil
}

func (s *patientService) Show(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	patient, err := uow.PatientRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, errors.New("patient not found")
	}

	return &dto.PatientResponse{
		Id:             patient.Id,
		PatientCode:    patient.PatientCode,
		Name:           patient.Name,
		Age:            patient.Age,
		Gender:         patient.Gender,
		Email:          patient.Email,
		Diagnosis:      patient.Diagnosis,
		Symptoms:       patient.Symptoms,
		LabResults:     patient.LabResults,
		Medications:    patient.Medications,
		TreatmentPlan:  patient.TreatmentPlan,
		DoctorNotes:    patient.DoctorNotes,
		FollowUp:       patient.FollowUp,
		DateAdmitted:   patient.DateAdmitted,
		DateDischarged: patient.DateDischarged,
		CreatedAt:      patient.CreatedAt,
	}, nil
}

func (s *patientService) List(ctx context.Context) ([]*dto.PatientSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	patients, err := uow.PatientRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.PatientSummaryResponse, len(patients))
	for i, patient := range patients {
		responses[i] = &dto.PatientSummaryResponse{
			Id:             patient.Id,
			PatientCode:    patient.PatientCode,
			Name:           patient.Name,
			Diagnosis:      patient.Diagnosis,
			DateDischarged: patient.DateDischarged,
		}
	}
	return responses, nil
}

func (s *patientService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.PatientRepository().Delete(ctx, id)
}

func (s *patientService) SendFollowUpReminder(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	patient, err := uow.PatientRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if patient == nil {
		return errors.New("patient not found")
	}
	if patient.Email == "" {
		return errors.New("patient has no email on record")
	}
	if patient.FollowUp == "" {
		return errors.New("patient has no follow-up instructions")
	}

	return s.emailService.SendFollowUpReminder(
		patient.Email,
		patient.Name,
		patient.FollowUp,
		patient.DateDischarged.Format("January 2, 2006"),
	)
}

// patientDirectory exposes the patient table as the conversation
// layer's lookup interface.
type patientDirectory struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewPatientDirectory(uowFactory unitofwork.RepositoryFactory) conversation.PatientDirectory {
	return &patientDirectory{uowFactory: uowFactory}
}

func (d *patientDirectory) Lookup(ctx context.Context, nameOrID string) ([]conversation.PatientRecord, error) {
	uow := d.uowFactory.NewUnitOfWork(ctx)

	patients, err := uow.PatientRepository().FindByCodeOrName(ctx, nameOrID, 5)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", conversation.ErrDirectoryUnavailable, err)
	}

	records := make([]conversation.PatientRecord, len(patients))
	for i, patient := range patients {
		records[i] = conversation.PatientRecord{
			ID:            patient.PatientCode,
			Name:          patient.Name,
			DischargeDate: patient.DateDischarged.Format("January 2, 2006"),
			Diagnosis:     patient.Diagnosis,
			Summary:       buildRecordSummary(patient),
		}
	}
	return records, nil
}

// buildRecordSummary flattens a discharge record into the text block
// injected as the patient-context evidence item.
func buildRecordSummary(patient *entity.Patient) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Patient: %s (%s)\n", patient.Name, patient.PatientCode)
	fmt.Fprintf(&b, "Diagnosis: %s\n", patient.Diagnosis)
	if len(patient.Symptoms) > 0 {
		fmt.Fprintf(&b, "Symptoms at admission: %s\n", strings.Join(patient.Symptoms, ", "))
	}
	if len(patient.LabResults) > 0 {
		b.WriteString("Lab Results:\n")
		for name, value := range patient.LabResults {
			fmt.Fprintf(&b, "  - %s: %s\n", name, value)
		}
	}
	if len(patient.Medications) > 0 {
		fmt.Fprintf(&b, "Medications: %s\n", strings.Join(patient.Medications, ", "))
	}
	if patient.TreatmentPlan != "" {
		fmt.Fprintf(&b, "Treatment Plan: %s\n", patient.TreatmentPlan)
	}
	if patient.DoctorNotes != "" {
		fmt.Fprintf(&b, "Doctor Notes: %s\n", patient.DoctorNotes)
	}
	if patient.FollowUp != "" {
		fmt.Fprintf(&b, "Follow-up: %s\n", patient.FollowUp)
	}
	fmt.Fprintf(&b, "Discharged: %s", patient.DateDischarged.Format("January 2, 2006"))

	return b.String()
}
