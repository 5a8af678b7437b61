package triage

import (
	"testing"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultPatterns())

	tests := []struct {
		name       string
		question   string
		hasPatient bool
		want       Route
	}{
		{
			name:     "temporal only routes to web search",
			question: "What is the latest research on dialysis outcomes?",
			want:     RouteWebSearch,
		},
		{
			name:     "historical phrasing routes to web search",
			question: "When was the first case of cardiac arrest recorded?",
			want:     RouteWebSearch,
		},
		{
			name:     "pure clinical routes to knowledge base",
			question: "I have swelling in my legs and some itching",
			want:     RouteKnowledgeBase,
		},
		{
			name:       "clinical with patient still knowledge base",
			question:   "I have swelling in my legs",
			hasPatient: true,
			want:       RouteKnowledgeBase,
		},
		{
			name:     "temporal plus clinical escalates to hybrid",
			question: "What do recent studies say about managing swelling?",
			want:     RouteHybrid,
		},
		{
			name:       "neither category with patient context is hybrid",
			question:   "Can I go back to work next week?",
			hasPatient: true,
			want:       RouteHybrid,
		},
		{
			name:     "neither category without patient defaults to knowledge base",
			question: "Can I go back to work next week?",
			want:     RouteKnowledgeBase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.question, tt.hasPatient)
			if got != tt.want {
				t.Errorf("Classify(%q, %v) = %v, want %v", tt.question, tt.hasPatient, got, tt.want)
			}
		})
	}
}

func TestClassifyNeverWebOnlyForClinical(t *testing.T) {
	c := NewClassifier(DefaultPatterns())

	clinicalQuestions := []string{
		"The pain is getting worse",
		"What is the latest guidance on my medication dose?",
		"Recent swelling in both ankles",
		"Is blood in my urine an emergency?",
	}

	for _, q := range clinicalQuestions {
		for _, hasPatient := range []bool{false, true} {
			if got := c.Classify(q, hasPatient); got == RouteWebSearch {
				t.Errorf("Classify(%q, %v) routed clinical question to web search only", q, hasPatient)
			}
		}
	}
}

func TestClassifyIdempotent(t *testing.T) {
	c := NewClassifier(DefaultPatterns())

	questions := []string{
		"What is the latest research on dialysis?",
		"I have cramps after dialysis",
		"Hello there",
	}

	for _, q := range questions {
		first := c.Classify(q, true)
		second := c.Classify(q, true)
		if first != second {
			t.Errorf("Classify(%q) not idempotent: %v then %v", q, first, second)
		}
	}
}

func TestMatchClinical(t *testing.T) {
	c := NewClassifier(DefaultPatterns())

	pattern, ok := c.MatchClinical("I have itching all over my body")
	if !ok {
		t.Fatal("expected clinical match for itching")
	}
	if pattern != "itching" {
		t.Errorf("matched pattern = %q, want %q", pattern, "itching")
	}

	if _, ok := c.MatchClinical("thank you, goodbye"); ok {
		t.Error("small talk should not match clinical vocabulary")
	}
}
