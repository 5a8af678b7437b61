package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	SessionId string `json:"session_id" validate:"required,max=64"`
	Message   string `json:"message" validate:"required,max=4000"`
}

type SourceDTO struct {
	Origin  string `json:"origin"` // "KNOWLEDGE_BASE" | "WEB_SEARCH"
	Title   string `json:"title"`
	Section string `json:"section,omitempty"`
}

type SendMessageResponse struct {
	SessionId string      `json:"session_id"`
	Reply     string      `json:"reply"`
	State     string      `json:"state"`
	Route     string      `json:"route,omitempty"`
	Degraded  bool        `json:"degraded,omitempty"`
	Sources   []SourceDTO `json:"sources,omitempty"`
}

type ChatHistoryItemResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Chat      string    `json:"chat"`
	Route     string    `json:"route,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionStateResponse struct {
	SessionId   string `json:"session_id"`
	State       string `json:"state"`
	PatientName string `json:"patient_name,omitempty"`
	Anonymous   bool   `json:"anonymous"`
}
