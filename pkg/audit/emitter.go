package audit

import (
	"context"
	"time"

	"aftercare-ai-be/internal/pkg/logger"
	pkgEvents "aftercare-ai-be/pkg/events"
	pkgNats "aftercare-ai-be/pkg/nats"
)

// Event type codes. Every routing decision and state change in the
// conversation flow emits exactly one of these, so the event stream is
// a complete account of why a patient got the answer they got.
const (
	EventStateTransition  = "STATE_TRANSITION"
	EventKeywordMatch     = "KEYWORD_MATCH"
	EventRouteChosen      = "ROUTE_CHOSEN"
	EventEvidenceGathered = "EVIDENCE_GATHERED"
	EventProviderError    = "PROVIDER_ERROR"
	EventIdentityLookup   = "IDENTITY_LOOKUP"
)

// Emitter records conversation audit events. Implementations must be
// fire-and-forget: emitting never blocks or fails the request path.
type Emitter interface {
	StateTransition(ctx context.Context, sessionID, from, to, reason string)
	KeywordMatch(ctx context.Context, sessionID, category, pattern string)
	RouteChosen(ctx context.Context, sessionID, route string)
	EvidenceGathered(ctx context.Context, sessionID, route string, kbCount, webCount int)
	ProviderError(ctx context.Context, sessionID, provider, message string)
	IdentityLookup(ctx context.Context, sessionID string, matches int)
}

// NatsEmitter publishes audit events to JetStream and mirrors them into
// the structured log so the trail survives a broker outage.
type NatsEmitter struct {
	publisher *pkgNats.Publisher
	logger    logger.ILogger
}

// NewNatsEmitter creates a NATS-backed audit emitter. publisher may be
// nil (broker disabled); events then only reach the log.
func NewNatsEmitter(publisher *pkgNats.Publisher, logger logger.ILogger) *NatsEmitter {
	return &NatsEmitter{
		publisher: publisher,
		logger:    logger,
	}
}

func (e *NatsEmitter) StateTransition(ctx context.Context, sessionID, from, to, reason string) {
	e.emit(ctx, EventStateTransition, map[string]interface{}{
		"session_id": sessionID,
		"from":       from,
		"to":         to,
		"reason":     reason,
	})
}

func (e *NatsEmitter) KeywordMatch(ctx context.Context, sessionID, category, pattern string) {
	e.emit(ctx, EventKeywordMatch, map[string]interface{}{
		"session_id": sessionID,
		"category":   category,
		"pattern":    pattern,
	})
}

func (e *NatsEmitter) RouteChosen(ctx context.Context, sessionID, route string) {
	e.emit(ctx, EventRouteChosen, map[string]interface{}{
		"session_id": sessionID,
		"route":      route,
	})
}

func (e *NatsEmitter) EvidenceGathered(ctx context.Context, sessionID, route string, kbCount, webCount int) {
	e.emit(ctx, EventEvidenceGathered, map[string]interface{}{
		"session_id": sessionID,
		"route":      route,
		"kb_count":   kbCount,
		"web_count":  webCount,
	})
}

func (e *NatsEmitter) ProviderError(ctx context.Context, sessionID, provider, message string) {
	e.emit(ctx, EventProviderError, map[string]interface{}{
		"session_id": sessionID,
		"provider":   provider,
		"message":    message,
	})
}

func (e *NatsEmitter) IdentityLookup(ctx context.Context, sessionID string, matches int) {
	e.emit(ctx, EventIdentityLookup, map[string]interface{}{
		"session_id": sessionID,
		"matches":    matches,
	})
}

func (e *NatsEmitter) emit(ctx context.Context, eventType string, data map[string]interface{}) {
	e.logger.Info("AUDIT", eventType, data)

	if e.publisher == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := e.publisher.Publish(ctx, evt); err != nil {
		e.logger.Error("AUDIT", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}

// NopEmitter discards every event. Used in tests and tooling.
type NopEmitter struct{}

func (NopEmitter) StateTransition(ctx context.Context, sessionID, from, to, reason string)    {}
func (NopEmitter) KeywordMatch(ctx context.Context, sessionID, category, pattern string)      {}
func (NopEmitter) RouteChosen(ctx context.Context, sessionID, route string)                   {}
func (NopEmitter) EvidenceGathered(ctx context.Context, sessionID, route string, kb, web int) {}
func (NopEmitter) ProviderError(ctx context.Context, sessionID, provider, message string)     {}
func (NopEmitter) IdentityLookup(ctx context.Context, sessionID string, matches int)          {}
