package websearch

import (
	"context"

	"aftercare-ai-be/pkg/evidence"
)

// EvidenceAdapter exposes a web search provider through the evidence
// gathering interface.
type EvidenceAdapter struct {
	provider Provider
}

func NewEvidenceAdapter(provider Provider) *EvidenceAdapter {
	return &EvidenceAdapter{provider: provider}
}

var _ evidence.WebSearcher = &EvidenceAdapter{}

func (a *EvidenceAdapter) Search(ctx context.Context, query string, k int) ([]evidence.Item, error) {
	results, err := a.provider.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}

	items := make([]evidence.Item, 0, len(results))
	for _, res := range results {
		items = append(items, evidence.Item{
			Origin:      evidence.OriginWebSearch,
			SourceTitle: res.Title,
			Section:     res.URL,
			Content:     res.Snippet,
			Score:       res.Score,
		})
	}
	return items, nil
}
