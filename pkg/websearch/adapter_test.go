package websearch

import (
	"context"
	"errors"
	"testing"

	"aftercare-ai-be/pkg/evidence"
)

type stubProvider struct {
	results []Result
	err     error
}

func (s *stubProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	return s.results, s.err
}

func TestEvidenceAdapterMapsResults(t *testing.T) {
	provider := &stubProvider{
		results: []Result{
			{Title: "CKD diet guidance", URL: "https://example.org/ckd-diet", Snippet: "Limit sodium intake.", Score: 0.91},
			{Title: "Dialysis research 2026", URL: "https://example.org/dialysis", Snippet: "New trial results.", Score: 0.74},
		},
	}

	adapter := NewEvidenceAdapter(provider)
	items, err := adapter.Search(context.Background(), "renal diet", 4)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.Origin != evidence.OriginWebSearch {
		t.Errorf("expected origin %s, got %s", evidence.OriginWebSearch, first.Origin)
	}
	if first.SourceTitle != "CKD diet guidance" {
		t.Errorf("unexpected title: %s", first.SourceTitle)
	}
	if first.Section != "https://example.org/ckd-diet" {
		t.Errorf("expected URL in section, got %s", first.Section)
	}
	if first.Score != 0.91 {
		t.Errorf("expected score 0.91, got %v", first.Score)
	}
}

func TestEvidenceAdapterPropagatesError(t *testing.T) {
	provider := &stubProvider{err: errors.New("quota exceeded")}

	adapter := NewEvidenceAdapter(provider)
	items, err := adapter.Search(context.Background(), "renal diet", 4)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if items != nil {
		t.Errorf("expected nil items on error, got %d", len(items))
	}
}
