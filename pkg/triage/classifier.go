package triage

import "strings"

// Route is the evidence-sourcing strategy chosen for a single question.
type Route string

const (
	RouteKnowledgeBase Route = "KNOWLEDGE_BASE"
	RouteWebSearch     Route = "WEB_SEARCH"
	RouteHybrid        Route = "HYBRID"
)

// Category groups patterns by what they signal about a question.
type Category string

const (
	// CategoryTemporal marks questions about recency, history or published
	// research, which the curated knowledge base cannot answer.
	CategoryTemporal Category = "TEMPORAL"

	// CategoryClinical marks symptom/treatment vocabulary. Clinical
	// questions are never answered from live web search alone.
	CategoryClinical Category = "CLINICAL"
)

// Pattern pairs a category with a lowercase substring to look for.
type Pattern struct {
	Category Category
	Text     string
}

// DefaultPatterns returns the ordered pattern table used for routing.
// Keeping this a plain table (instead of ad-hoc string checks scattered
// through the router) makes precedence explicit and testable.
func DefaultPatterns() []Pattern {
	return []Pattern{
		// Temporal / historical markers
		{CategoryTemporal, "latest"},
		{CategoryTemporal, "most recent"},
		{CategoryTemporal, "recent"},
		{CategoryTemporal, "recently"},
		{CategoryTemporal, "current research"},
		{CategoryTemporal, "updated"},
		{CategoryTemporal, "when was"},
		{CategoryTemporal, "when did"},
		{CategoryTemporal, "history of"},
		{CategoryTemporal, "first recorded"},
		{CategoryTemporal, "first case"},
		{CategoryTemporal, "who first"},
		{CategoryTemporal, "who discovered"},
		{CategoryTemporal, "who invented"},
		{CategoryTemporal, "earliest"},
		{CategoryTemporal, "published"},
		{CategoryTemporal, "study"},
		{CategoryTemporal, "studies"},
		{CategoryTemporal, "research"},
		{CategoryTemporal, "clinical trial"},
		{CategoryTemporal, "findings"},
		{CategoryTemporal, "breakthrough"},
		{CategoryTemporal, "guidelines"},
		{CategoryTemporal, "recommendation"},
		{CategoryTemporal, "fda"},
		{CategoryTemporal, "approval"},
		{CategoryTemporal, "this year"},
		{CategoryTemporal, "last year"},
		{CategoryTemporal, "2024"},
		{CategoryTemporal, "2025"},

		// Clinical urgency markers (symptoms and treatment vocabulary)
		{CategoryClinical, "pain"},
		{CategoryClinical, "swelling"},
		{CategoryClinical, "swollen"},
		{CategoryClinical, "worried"},
		{CategoryClinical, "concerned"},
		{CategoryClinical, "hurt"},
		{CategoryClinical, "ache"},
		{CategoryClinical, "symptom"},
		{CategoryClinical, "sick"},
		{CategoryClinical, "nausea"},
		{CategoryClinical, "vomit"},
		{CategoryClinical, "itching"},
		{CategoryClinical, "itch"},
		{CategoryClinical, "cramp"},
		{CategoryClinical, "headache"},
		{CategoryClinical, "dizzy"},
		{CategoryClinical, "tired"},
		{CategoryClinical, "fatigue"},
		{CategoryClinical, "blood"},
		{CategoryClinical, "urine"},
		{CategoryClinical, "breathing"},
		{CategoryClinical, "shortness of breath"},
		{CategoryClinical, "fever"},
		{CategoryClinical, "medication"},
		{CategoryClinical, "dose"},
		{CategoryClinical, "dosage"},
		{CategoryClinical, "side effect"},
		{CategoryClinical, "treatment"},
	}
}

// Classifier decides where a medical question should be answered from.
// It is a pure function of the question text plus one context flag; the
// same inputs always yield the same route.
type Classifier struct {
	patterns []Pattern
}

// NewClassifier creates a classifier over the given pattern table.
// Pass DefaultPatterns() unless a deployment overrides the vocabulary.
func NewClassifier(patterns []Pattern) *Classifier {
	return &Classifier{patterns: patterns}
}

// Classify assigns a route for the question.
//
// Policy: temporal-only questions go to web search. Any clinical
// vocabulary escalates at least to Hybrid, never to web search alone,
// so safety-relevant answers are always anchored to vetted reference
// material. Questions matching neither category ride on patient context:
// with an identified patient they get Hybrid (the answer may be
// personal), otherwise the knowledge base is the default.
func (c *Classifier) Classify(question string, hasIdentifiedPatient bool) Route {
	temporal := c.matchesCategory(question, CategoryTemporal)
	clinical := c.matchesCategory(question, CategoryClinical)

	switch {
	case temporal && !clinical:
		return RouteWebSearch
	case temporal && clinical:
		return RouteHybrid
	case !temporal && !clinical && hasIdentifiedPatient:
		return RouteHybrid
	default:
		return RouteKnowledgeBase
	}
}

// MatchClinical reports whether the text contains clinical vocabulary,
// returning the first matching pattern for audit traceability.
func (c *Classifier) MatchClinical(text string) (string, bool) {
	return c.match(text, CategoryClinical)
}

// MatchTemporal reports whether the text contains temporal/historical
// vocabulary, returning the first matching pattern.
func (c *Classifier) MatchTemporal(text string) (string, bool) {
	return c.match(text, CategoryTemporal)
}

func (c *Classifier) match(text string, category Category) (string, bool) {
	lowered := strings.ToLower(text)
	for _, p := range c.patterns {
		if p.Category != category {
			continue
		}
		if strings.Contains(lowered, p.Text) {
			return p.Text, true
		}
	}
	return "", false
}

func (c *Classifier) matchesCategory(text string, category Category) bool {
	_, ok := c.match(text, category)
	return ok
}
