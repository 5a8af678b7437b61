package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadKnowledgeRequest struct {
	DocumentTitle string `json:"document_title" validate:"required,max=255"`
	Section       string `json:"section"`
	Content       string `json:"content" validate:"required"`
}

type UploadKnowledgeResponse struct {
	DocumentTitle string `json:"document_title"`
	ChunksQueued  int    `json:"chunks_queued"`
}

type KnowledgeChunkResponse struct {
	Id            uuid.UUID `json:"id"`
	DocumentTitle string    `json:"document_title"`
	Section       string    `json:"section,omitempty"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
}

type DeleteKnowledgeRequest struct {
	DocumentTitle string `json:"document_title" validate:"required"`
}

// PublishEmbedKnowledgeMessage is the ingestion-bus payload carrying a
// document to be chunked and embedded by the consumer.
type PublishEmbedKnowledgeMessage struct {
	DocumentTitle string `json:"document_title"`
	Section       string `json:"section"`
	Content       string `json:"content"`
}
