package conversation

import (
	"context"
	"errors"

	"aftercare-ai-be/pkg/llm"
)

// AgentState is the stage a conversation is in. Transitions only move
// forward: a session never returns to an earlier stage.
type AgentState string

const (
	// StateAwaitingIdentity is the receptionist stage: the session has
	// no verified patient yet and every message is read as an identity
	// claim.
	StateAwaitingIdentity AgentState = "AWAITING_IDENTITY"

	// StateIdentified means the patient record was found. Small talk is
	// handled with scripted replies; clinical vocabulary hands off to
	// the clinical stage.
	StateIdentified AgentState = "IDENTIFIED"

	// StateClinicalActive means the clinical agent owns the session and
	// every message is answered from gathered evidence.
	StateClinicalActive AgentState = "CLINICAL_ACTIVE"
)

// Session is the in-memory conversation state for one patient chat.
type Session struct {
	ID    string
	State AgentState

	// Identity, populated on a successful directory match. Anonymous is
	// set instead when the directory was unreachable and the session
	// entered the clinical stage without a verified record.
	PatientID     string
	PatientName   string
	DischargeDate string
	Diagnosis     string
	RecordSummary string
	Anonymous     bool

	// GeneralReplyIndex rotates the scripted small-talk replies.
	GeneralReplyIndex int

	// History holds the most recent clinical turns, fed back into
	// generation so follow-up questions keep their context.
	History []llm.Message
}

// maxHistoryMessages bounds the turns carried into generation, three
// question/answer pairs.
const maxHistoryMessages = 6

// RememberExchange records one clinical question/answer pair, dropping
// the oldest turns past the cap.
func (s *Session) RememberExchange(question, answer string) {
	s.History = append(s.History,
		llm.Message{Role: "user", Content: question},
		llm.Message{Role: "assistant", Content: answer},
	)
	if len(s.History) > maxHistoryMessages {
		s.History = s.History[len(s.History)-maxHistoryMessages:]
	}
}

// HasPatient reports whether the session carries a verified record.
func (s *Session) HasPatient() bool {
	return s.PatientID != ""
}

// Store persists sessions between messages. Implementations must be
// safe for concurrent use across sessions; the caller serializes
// messages within one session.
type Store interface {
	Get(id string) (*Session, bool)
	Save(session *Session)
}

// PatientRecord is a directory entry, shaped for greeting the patient
// and for building the single patient-context evidence item.
type PatientRecord struct {
	ID            string
	Name          string
	DischargeDate string
	Diagnosis     string

	// Summary is the flattened discharge report text (diagnosis,
	// medications, treatment plan) injected as patient context.
	Summary string
}

// ErrDirectoryUnavailable signals that the patient record store could
// not be reached. The router degrades instead of failing the message.
var ErrDirectoryUnavailable = errors.New("patient directory unavailable")

// PatientDirectory looks up patients by name or ID. Partial name
// matches may return several records.
type PatientDirectory interface {
	Lookup(ctx context.Context, nameOrID string) ([]PatientRecord, error)
}
