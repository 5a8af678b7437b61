package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"aftercare-ai-be/pkg/audit"
	"aftercare-ai-be/pkg/compose"
	"aftercare-ai-be/pkg/evidence"
	"aftercare-ai-be/pkg/llm"
	"aftercare-ai-be/pkg/triage"
)

// EvidenceGatherer executes the retrieval plan for a routed question.
type EvidenceGatherer interface {
	Gather(ctx context.Context, route triage.Route, query string, patientItem *evidence.Item) ([]evidence.Item, error)
}

// AnswerComposer turns gathered evidence into a patient-facing answer.
type AnswerComposer interface {
	Compose(ctx context.Context, question string, items []evidence.Item, history []llm.Message) compose.Result
}

// Reply is what the router hands back for one patient message. Route is
// empty unless the message went through the clinical pipeline.
type Reply struct {
	Text     string
	State    AgentState
	Route    triage.Route
	Degraded bool
	Sources  []evidence.Item
}

// Router drives the conversation state machine. It owns state
// transitions and scripted replies; classification, retrieval and
// composition are delegated. Messages within one session must be
// serialized by the caller.
type Router struct {
	sessions   Store
	directory  PatientDirectory
	classifier *triage.Classifier
	gatherer   EvidenceGatherer
	composer   AnswerComposer
	audit      audit.Emitter
	logger     *log.Logger
}

// NewRouter creates a conversation router.
func NewRouter(
	sessions Store,
	directory PatientDirectory,
	classifier *triage.Classifier,
	gatherer EvidenceGatherer,
	composer AnswerComposer,
	auditEmitter audit.Emitter,
	logger *log.Logger,
) *Router {
	return &Router{
		sessions:   sessions,
		directory:  directory,
		classifier: classifier,
		gatherer:   gatherer,
		composer:   composer,
		audit:      auditEmitter,
		logger:     logger,
	}
}

// HandleMessage processes one patient message and returns the reply
// plus the session state after processing. Downstream failures degrade
// the reply; they never fail the message.
func (r *Router) HandleMessage(ctx context.Context, sessionID, text string) (Reply, error) {
	if sessionID == "" {
		return Reply{}, fmt.Errorf("session id is required")
	}

	session, ok := r.sessions.Get(sessionID)
	if !ok {
		session = &Session{ID: sessionID, State: StateAwaitingIdentity}
		r.logger.Printf("[SESSION] Created session %s", sessionID)
	}

	var reply Reply
	switch session.State {
	case StateAwaitingIdentity:
		reply = r.handleIdentity(ctx, session, text)
	case StateIdentified:
		reply = r.handleIdentified(ctx, session, text)
	case StateClinicalActive:
		reply = r.answerClinical(ctx, session, text)
	default:
		// Unknown state means corrupted session data; restart the flow
		// rather than guessing.
		session.State = StateAwaitingIdentity
		reply = Reply{Text: welcomeMessage, State: session.State}
	}

	r.sessions.Save(session)
	reply.State = session.State
	return reply, nil
}

// handleIdentity reads the message as an identity claim and resolves it
// against the patient directory.
func (r *Router) handleIdentity(ctx context.Context, s *Session, text string) Reply {
	claim := strings.TrimSpace(text)
	if claim == "" {
		return Reply{Text: welcomeMessage}
	}

	records, err := r.directory.Lookup(ctx, claim)
	if err != nil {
		r.audit.ProviderError(ctx, s.ID, "patient_directory", err.Error())
		r.logger.Printf("[ERROR] Directory lookup failed for session %s: %v", s.ID, err)

		// A clinical concern should not be blocked by a records outage:
		// continue anonymously without personalization.
		if _, clinical := r.classifier.MatchClinical(claim); clinical {
			s.Anonymous = true
			r.transition(ctx, s, StateClinicalActive, "directory unavailable, clinical concern")
			reply := r.answerClinical(ctx, s, text)
			reply.Text = anonymousClinicalNotice + "\n\n" + reply.Text
			return reply
		}
		return Reply{Text: directoryDownMessage}
	}

	r.audit.IdentityLookup(ctx, s.ID, len(records))

	switch {
	case len(records) == 0:
		return Reply{Text: notFoundMessage}

	case len(records) == 1:
		record := records[0]
		s.PatientID = record.ID
		s.PatientName = record.Name
		s.DischargeDate = record.DischargeDate
		s.Diagnosis = record.Diagnosis
		s.RecordSummary = record.Summary
		r.transition(ctx, s, StateIdentified, "patient record matched")
		return Reply{Text: greetingMessage(record)}

	default:
		return Reply{Text: disambiguationMessage(records)}
	}
}

// handleIdentified answers small talk with scripted replies and hands
// clinical vocabulary off to the clinical stage.
func (r *Router) handleIdentified(ctx context.Context, s *Session, text string) Reply {
	if pattern, ok := r.classifier.MatchClinical(text); ok {
		r.transition(ctx, s, StateClinicalActive, "clinical keyword: "+pattern)
		reply := r.answerClinical(ctx, s, text)
		reply.Text = HandoffNotice + "\n\n" + reply.Text
		return reply
	}

	msg := generalReplies[s.GeneralReplyIndex%len(generalReplies)]
	s.GeneralReplyIndex++
	return Reply{Text: msg}
}

// answerClinical runs the classify → gather → compose pipeline.
func (r *Router) answerClinical(ctx context.Context, s *Session, text string) Reply {
	if pattern, ok := r.classifier.MatchClinical(text); ok {
		r.audit.KeywordMatch(ctx, s.ID, string(triage.CategoryClinical), pattern)
	}
	if pattern, ok := r.classifier.MatchTemporal(text); ok {
		r.audit.KeywordMatch(ctx, s.ID, string(triage.CategoryTemporal), pattern)
	}

	route := r.classifier.Classify(text, s.HasPatient())
	r.audit.RouteChosen(ctx, s.ID, string(route))

	var patientItem *evidence.Item
	if s.HasPatient() && s.RecordSummary != "" {
		patientItem = &evidence.Item{
			Origin:         evidence.OriginKnowledgeBase,
			SourceTitle:    "Discharge Report: " + s.PatientName,
			Content:        s.RecordSummary,
			PatientContext: true,
		}
	}

	items, err := r.gatherer.Gather(ctx, route, text, patientItem)
	if err != nil && !errors.Is(err, evidence.ErrInsufficientEvidence) {
		r.audit.ProviderError(ctx, s.ID, "retrieval", err.Error())
		items = nil
	}

	kbCount, webCount := 0, 0
	for _, it := range items {
		if it.PatientContext {
			continue
		}
		switch it.Origin {
		case evidence.OriginKnowledgeBase:
			kbCount++
		case evidence.OriginWebSearch:
			webCount++
		}
	}
	r.audit.EvidenceGathered(ctx, s.ID, string(route), kbCount, webCount)

	result := r.composer.Compose(ctx, text, items, s.History)
	s.RememberExchange(text, result.Answer)
	return Reply{Text: result.Answer, Route: route, Degraded: result.Degraded, Sources: result.Sources}
}

func (r *Router) transition(ctx context.Context, s *Session, to AgentState, reason string) {
	from := s.State
	s.State = to
	r.audit.StateTransition(ctx, s.ID, string(from), string(to), reason)
	r.logger.Printf("[STATE] Session %s: %s -> %s (%s)", s.ID, from, to, reason)
}
