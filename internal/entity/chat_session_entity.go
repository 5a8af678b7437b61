package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession is the persisted record of one patient conversation. The
// live state machine runs in memory; this row keeps the durable trail.
type ChatSession struct {
	Id          uuid.UUID
	ExternalId  string
	PatientCode string
	AgentState  string
	Anonymous   bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
