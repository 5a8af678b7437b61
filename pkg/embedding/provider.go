package embedding

// Task types understood by the Gemini embedding API. Guideline chunks
// are embedded as documents at ingestion time; patient questions are
// embedded as queries at retrieval time.
const (
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
	TaskTypeQuery    = "RETRIEVAL_QUERY"
)

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}
