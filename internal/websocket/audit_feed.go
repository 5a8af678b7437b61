package websocket

import (
	"context"

	"aftercare-ai-be/pkg/audit"
)

// AuditFeed tees audit events into the hub so staff consoles see the
// conversation flow live, then forwards to the wrapped emitter.
type AuditFeed struct {
	next audit.Emitter
	hub  *Hub
}

func NewAuditFeed(next audit.Emitter, hub *Hub) *AuditFeed {
	return &AuditFeed{next: next, hub: hub}
}

var _ audit.Emitter = &AuditFeed{}

func (f *AuditFeed) StateTransition(ctx context.Context, sessionID, from, to, reason string) {
	f.hub.BroadcastEvent(sessionID, audit.EventStateTransition, map[string]interface{}{
		"from":   from,
		"to":     to,
		"reason": reason,
	})
	f.next.StateTransition(ctx, sessionID, from, to, reason)
}

func (f *AuditFeed) KeywordMatch(ctx context.Context, sessionID, category, pattern string) {
	f.hub.BroadcastEvent(sessionID, audit.EventKeywordMatch, map[string]interface{}{
		"category": category,
		"pattern":  pattern,
	})
	f.next.KeywordMatch(ctx, sessionID, category, pattern)
}

func (f *AuditFeed) RouteChosen(ctx context.Context, sessionID, route string) {
	f.hub.BroadcastEvent(sessionID, audit.EventRouteChosen, map[string]interface{}{
		"route": route,
	})
	f.next.RouteChosen(ctx, sessionID, route)
}

func (f *AuditFeed) EvidenceGathered(ctx context.Context, sessionID, route string, kbCount, webCount int) {
	f.hub.BroadcastEvent(sessionID, audit.EventEvidenceGathered, map[string]interface{}{
		"route":     route,
		"kb_count":  kbCount,
		"web_count": webCount,
	})
	f.next.EvidenceGathered(ctx, sessionID, route, kbCount, webCount)
}

func (f *AuditFeed) ProviderError(ctx context.Context, sessionID, provider, message string) {
	f.hub.BroadcastEvent(sessionID, audit.EventProviderError, map[string]interface{}{
		"provider": provider,
		"message":  message,
	})
	f.next.ProviderError(ctx, sessionID, provider, message)
}

func (f *AuditFeed) IdentityLookup(ctx context.Context, sessionID string, matches int) {
	f.hub.BroadcastEvent(sessionID, audit.EventIdentityLookup, map[string]interface{}{
		"matches": matches,
	})
	f.next.IdentityLookup(ctx, sessionID, matches)
}
