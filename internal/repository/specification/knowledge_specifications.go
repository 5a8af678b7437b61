package specification

import (
	"gorm.io/gorm"
)

type ByDocumentTitle struct {
	Title string
}

func (s ByDocumentTitle) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_title = ?", s.Title)
}
