package specification

import (
	"gorm.io/gorm"
)

type ByPatientCode struct {
	Code string
}

func (s ByPatientCode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("patient_code = ?", s.Code)
}

// ByNameLike matches partial names case-insensitively.
type ByNameLike struct {
	Name string
}

func (s ByNameLike) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name ILIKE ?", "%"+s.Name+"%")
}
