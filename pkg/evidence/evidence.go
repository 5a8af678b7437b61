package evidence

import "errors"

// Origin tags where a piece of evidence came from. Attribution in the
// final answer relies on this never being empty or mislabeled.
type Origin string

const (
	OriginKnowledgeBase Origin = "KNOWLEDGE_BASE"
	OriginWebSearch     Origin = "WEB_SEARCH"
)

// Item is one retrieved text unit with provenance metadata. Items are
// produced per question and discarded after the answer is composed.
type Item struct {
	Origin      Origin
	SourceTitle string
	Section     string
	Content     string
	Score       float32

	// PatientContext marks the single synthesized item carrying the
	// patient's own discharge data, so the composer can phrase it as
	// personalized guidance rather than general literature.
	PatientContext bool
}

// ErrInsufficientEvidence signals that every source in the retrieval
// plan, fallbacks included, came back empty. The caller must answer
// with generic non-fabricated guidance instead of generating freely.
var ErrInsufficientEvidence = errors.New("insufficient evidence to answer confidently")
