package entity

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeChunk is one embedded slice of a reference document.
type KnowledgeChunk struct {
	Id             uuid.UUID
	DocumentTitle  string
	Section        string
	Content        string
	EmbeddingValue []float32
	ChunkIndex     int
	CreatedAt      time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
