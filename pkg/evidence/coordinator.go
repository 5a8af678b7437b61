package evidence

import (
	"context"
	"log"
	"sync"
	"time"

	"aftercare-ai-be/pkg/triage"
)

// KnowledgeSearcher retrieves evidence from the curated knowledge base.
type KnowledgeSearcher interface {
	Search(ctx context.Context, query string, k int) ([]Item, error)
}

// WebSearcher retrieves evidence from live web search.
type WebSearcher interface {
	Search(ctx context.Context, query string, k int) ([]Item, error)
}

// Config encapsulates retrieval parameters
type Config struct {
	// MinRelevance filters knowledge-base hits; web results are already
	// ranked by the provider and pass through unfiltered.
	MinRelevance float32

	// TopK is requested per source.
	TopK int

	// MaxItems caps the combined evidence set handed to the composer.
	MaxItems int

	// ProviderTimeout bounds each source call individually so one slow
	// provider cannot exhaust the whole request deadline.
	ProviderTimeout time.Duration
}

// DefaultConfig returns default retrieval configuration
func DefaultConfig() Config {
	return Config{
		MinRelevance:    0.35,
		TopK:            4,
		MaxItems:        6,
		ProviderTimeout: 15 * time.Second,
	}
}

// Coordinator executes the retrieval plan for a routed question. The
// route decides which sources run and in what order; the coordinator
// owns timeouts, fallback and the combined ordering of results.
//
// Provider failures are never fatal: a failing source contributes zero
// evidence and the plan continues with whatever the others returned.
type Coordinator struct {
	knowledge KnowledgeSearcher
	web       WebSearcher
	config    Config
	logger    *log.Logger
}

// NewCoordinator creates a retrieval coordinator over the given sources.
func NewCoordinator(knowledge KnowledgeSearcher, web WebSearcher, config Config, logger *log.Logger) *Coordinator {
	return &Coordinator{
		knowledge: knowledge,
		web:       web,
		config:    config,
		logger:    logger,
	}
}

// Gather runs the plan for route and returns the combined evidence,
// knowledge-base items first. patientItem, when non-nil, is prepended
// as the single PatientContext item and never counts toward
// sufficiency: a question with only the patient's own record and no
// retrieved evidence still yields ErrInsufficientEvidence.
func (c *Coordinator) Gather(ctx context.Context, route triage.Route, query string, patientItem *Item) ([]Item, error) {
	var retrieved []Item

	switch route {
	case triage.RouteWebSearch:
		retrieved = c.searchWeb(ctx, query)

	case triage.RouteHybrid:
		retrieved = c.searchBoth(ctx, query)

	default:
		// Knowledge base first; fall back to web search only when the
		// filtered knowledge results are empty.
		retrieved = c.searchKnowledge(ctx, query)
		if len(retrieved) == 0 {
			c.logger.Printf("[DEBUG] Knowledge base empty for route %s, falling back to web search", route)
			retrieved = c.searchWeb(ctx, query)
		}
	}

	if len(retrieved) == 0 {
		c.logger.Printf("[WARN] No evidence gathered for route %s", route)
		return nil, ErrInsufficientEvidence
	}

	combined := make([]Item, 0, len(retrieved)+1)
	if patientItem != nil {
		item := *patientItem
		item.PatientContext = true
		combined = append(combined, item)
	}
	combined = append(combined, retrieved...)

	if len(combined) > c.config.MaxItems {
		combined = combined[:c.config.MaxItems]
	}

	c.logger.Printf("[DEBUG] Gathered %d evidence items for route %s", len(combined), route)
	return combined, nil
}

// searchBoth runs knowledge base and web search concurrently and joins
// the results knowledge-first, so curated reference material always
// outranks web snippets at the same position.
func (c *Coordinator) searchBoth(ctx context.Context, query string) []Item {
	var (
		wg       sync.WaitGroup
		kbItems  []Item
		webItems []Item
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		kbItems = c.searchKnowledge(ctx, query)
	}()
	go func() {
		defer wg.Done()
		webItems = c.searchWeb(ctx, query)
	}()
	wg.Wait()

	return append(kbItems, webItems...)
}

func (c *Coordinator) searchKnowledge(ctx context.Context, query string) []Item {
	ctx, cancel := context.WithTimeout(ctx, c.config.ProviderTimeout)
	defer cancel()

	results, err := c.knowledge.Search(ctx, query, c.config.TopK)
	if err != nil {
		c.logger.Printf("[ERROR] Knowledge search failed: %v", err)
		return nil
	}

	var kept []Item
	for i, item := range results {
		if item.Score < c.config.MinRelevance {
			c.logger.Printf("[DEBUG] Knowledge candidate %d: Score=%.4f [FILTERED]", i+1, item.Score)
			continue
		}
		item.Origin = OriginKnowledgeBase
		kept = append(kept, item)
		c.logger.Printf("[DEBUG] Knowledge candidate %d: Score=%.4f [KEEP]", i+1, item.Score)
	}
	return kept
}

func (c *Coordinator) searchWeb(ctx context.Context, query string) []Item {
	ctx, cancel := context.WithTimeout(ctx, c.config.ProviderTimeout)
	defer cancel()

	results, err := c.web.Search(ctx, query, c.config.TopK)
	if err != nil {
		c.logger.Printf("[ERROR] Web search failed: %v", err)
		return nil
	}

	for i := range results {
		results[i].Origin = OriginWebSearch
	}
	return results
}
