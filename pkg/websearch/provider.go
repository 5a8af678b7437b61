package websearch

import "context"

// Result is one web search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
	Score   float32
}

// Provider defines the contract for any web search backend
type Provider interface {
	// Search returns up to maxResults ranked hits for the query.
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}
