package evidence

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"aftercare-ai-be/pkg/triage"
)

type fakeSearcher struct {
	items []Item
	err   error
	calls int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, k int) ([]Item, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func kbItem(title string, score float32) Item {
	return Item{SourceTitle: title, Content: "chunk " + title, Score: score}
}

func TestGatherKnowledgeRoute(t *testing.T) {
	kb := &fakeSearcher{items: []Item{kbItem("ch1", 0.82), kbItem("ch2", 0.51)}}
	web := &fakeSearcher{items: []Item{{SourceTitle: "web", Content: "snippet", Score: 0.9}}}
	c := NewCoordinator(kb, web, DefaultConfig(), testLogger())

	items, err := c.Gather(context.Background(), triage.RouteKnowledgeBase, "fluid restriction", nil)
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	for _, it := range items {
		if it.Origin != OriginKnowledgeBase {
			t.Errorf("item %q origin = %v, want %v", it.SourceTitle, it.Origin, OriginKnowledgeBase)
		}
	}
	if web.calls != 0 {
		t.Errorf("web search called %d times on a satisfied knowledge route", web.calls)
	}
}

func TestGatherKnowledgeFallsBackToWeb(t *testing.T) {
	// All knowledge hits below threshold should trigger the web fallback.
	kb := &fakeSearcher{items: []Item{kbItem("weak", 0.12)}}
	web := &fakeSearcher{items: []Item{{SourceTitle: "web", Content: "snippet", Score: 0.9}}}
	c := NewCoordinator(kb, web, DefaultConfig(), testLogger())

	items, err := c.Gather(context.Background(), triage.RouteKnowledgeBase, "q", nil)
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}
	if len(items) != 1 || items[0].Origin != OriginWebSearch {
		t.Fatalf("expected single web item after fallback, got %+v", items)
	}
}

func TestGatherHybridOrdersKnowledgeFirst(t *testing.T) {
	kb := &fakeSearcher{items: []Item{kbItem("ch1", 0.7)}}
	web := &fakeSearcher{items: []Item{{SourceTitle: "web", Content: "snippet", Score: 0.9}}}
	c := NewCoordinator(kb, web, DefaultConfig(), testLogger())

	items, err := c.Gather(context.Background(), triage.RouteHybrid, "q", nil)
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Origin != OriginKnowledgeBase || items[1].Origin != OriginWebSearch {
		t.Errorf("hybrid ordering wrong: %v then %v", items[0].Origin, items[1].Origin)
	}
}

func TestGatherHybridSurvivesOneFailingSource(t *testing.T) {
	kb := &fakeSearcher{err: errors.New("db down")}
	web := &fakeSearcher{items: []Item{{SourceTitle: "web", Content: "snippet", Score: 0.9}}}
	c := NewCoordinator(kb, web, DefaultConfig(), testLogger())

	items, err := c.Gather(context.Background(), triage.RouteHybrid, "q", nil)
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}
	if len(items) != 1 || items[0].Origin != OriginWebSearch {
		t.Fatalf("expected the surviving web item, got %+v", items)
	}
}

func TestGatherInsufficientEvidence(t *testing.T) {
	kb := &fakeSearcher{err: errors.New("db down")}
	web := &fakeSearcher{err: errors.New("api down")}
	c := NewCoordinator(kb, web, DefaultConfig(), testLogger())

	patient := &Item{SourceTitle: "Discharge Report", Content: "diagnosis: CKD stage 3"}
	items, err := c.Gather(context.Background(), triage.RouteHybrid, "q", patient)
	if !errors.Is(err, ErrInsufficientEvidence) {
		t.Fatalf("err = %v, want ErrInsufficientEvidence", err)
	}
	if items != nil {
		t.Errorf("expected no items with insufficient evidence, got %d", len(items))
	}
}

func TestGatherPatientContextFirstAndSingle(t *testing.T) {
	kb := &fakeSearcher{items: []Item{kbItem("ch1", 0.7), kbItem("ch2", 0.6)}}
	web := &fakeSearcher{}
	c := NewCoordinator(kb, web, DefaultConfig(), testLogger())

	patient := &Item{SourceTitle: "Discharge Report", Content: "diagnosis: CKD stage 3"}
	items, err := c.Gather(context.Background(), triage.RouteKnowledgeBase, "q", patient)
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}
	if !items[0].PatientContext {
		t.Error("first item should carry the patient context flag")
	}
	count := 0
	for _, it := range items {
		if it.PatientContext {
			count++
		}
	}
	if count != 1 {
		t.Errorf("patient context items = %d, want 1", count)
	}
}

func TestGatherCapsCombinedItems(t *testing.T) {
	kb := &fakeSearcher{items: []Item{
		kbItem("ch1", 0.9), kbItem("ch2", 0.8), kbItem("ch3", 0.7), kbItem("ch4", 0.6),
	}}
	web := &fakeSearcher{items: []Item{
		{SourceTitle: "w1", Content: "s", Score: 0.9},
		{SourceTitle: "w2", Content: "s", Score: 0.8},
		{SourceTitle: "w3", Content: "s", Score: 0.7},
	}}
	cfg := DefaultConfig()
	c := NewCoordinator(kb, web, cfg, testLogger())

	patient := &Item{SourceTitle: "Discharge Report", Content: "record"}
	items, err := c.Gather(context.Background(), triage.RouteHybrid, "q", patient)
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}
	if len(items) != cfg.MaxItems {
		t.Fatalf("expected cap at %d items, got %d", cfg.MaxItems, len(items))
	}
	if !items[0].PatientContext {
		t.Error("patient context item must survive the cap")
	}
}
