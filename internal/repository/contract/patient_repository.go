package contract

import (
	"context"

	"aftercare-ai-be/internal/entity"
	"aftercare-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	Update(ctx context.Context, patient *entity.Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Patient, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Patient, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// FindByCodeOrName matches an exact patient code first, then falls
	// back to case-insensitive partial name matching.
	FindByCodeOrName(ctx context.Context, query string, limit int) ([]*entity.Patient, error)
}
