package service

import (
	"context"
	"encoding/json"
	"fmt"

	"aftercare-ai-be/internal/dto"
	"aftercare-ai-be/internal/repository/specification"
	"aftercare-ai-be/internal/repository/unitofwork"
	"aftercare-ai-be/pkg/embedding"
	"aftercare-ai-be/pkg/evidence"
	"aftercare-ai-be/pkg/utils"
)

type IKnowledgeService interface {
	Upload(ctx context.Context, req *dto.UploadKnowledgeRequest) (*dto.UploadKnowledgeResponse, error)
	ListByDocument(ctx context.Context, documentTitle string) ([]*dto.KnowledgeChunkResponse, error)
	DeleteDocument(ctx context.Context, req *dto.DeleteKnowledgeRequest) error
}

type knowledgeService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
}

func NewKnowledgeService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService) IKnowledgeService {
	return &knowledgeService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
	}
}

func (s *knowledgeService) Upload(ctx context.Context, req *dto.UploadKnowledgeRequest) (*dto.UploadKnowledgeResponse, error) {
	payload := dto.PublishEmbedKnowledgeMessage{
		DocumentTitle: req.DocumentTitle,
		Section:       req.Section,
		Content:       req.Content,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	if err := s.publisherService.Publish(ctx, payloadJson); err != nil {
		return nil, fmt.Errorf("failed to queue document for embedding: %w", err)
	}

	// Chunk count mirrors what the consumer will produce.
	chunks := utils.SplitText(req.Content, 1500, 200)

	return &dto.UploadKnowledgeResponse{
		DocumentTitle: req.DocumentTitle,
		ChunksQueued:  len(chunks),
	}, nil
}

func (s *knowledgeService) ListByDocument(ctx context.Context, documentTitle string) ([]*dto.KnowledgeChunkResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chunks, err := uow.KnowledgeChunkRepository().FindAll(ctx,
		specification.ByDocumentTitle{Title: documentTitle},
		specification.OrderBy{Field: "chunk_index", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.KnowledgeChunkResponse, len(chunks))
	for i, chunk := range chunks {
		responses[i] = &dto.KnowledgeChunkResponse{
			Id:            chunk.Id,
			DocumentTitle: chunk.DocumentTitle,
			Section:       chunk.Section,
			Content:       chunk.Content,
			CreatedAt:     chunk.CreatedAt,
		}
	}
	return responses, nil
}

func (s *knowledgeService) DeleteDocument(ctx context.Context, req *dto.DeleteKnowledgeRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.KnowledgeChunkRepository().DeleteByDocumentTitle(ctx, req.DocumentTitle)
}

// knowledgeSearcher adapts the pgvector-backed chunk store to the
// evidence gathering interface. The query is embedded with the
// RETRIEVAL_QUERY task type so it lands in the same vector space as the
// stored RETRIEVAL_DOCUMENT chunks.
type knowledgeSearcher struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewKnowledgeSearcher(uowFactory unitofwork.RepositoryFactory, embeddingProvider embedding.EmbeddingProvider) evidence.KnowledgeSearcher {
	return &knowledgeSearcher{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (s *knowledgeSearcher) Search(ctx context.Context, query string, k int) ([]evidence.Item, error) {
	res, err := s.embeddingProvider.Generate(query, embedding.TaskTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Relevance filtering happens upstream, so no threshold here.
	scored, err := uow.KnowledgeChunkRepository().SearchSimilarWithScore(ctx, res.Embedding.Values, k, 0.0)
	if err != nil {
		return nil, err
	}

	items := make([]evidence.Item, 0, len(scored))
	for _, sc := range scored {
		items = append(items, evidence.Item{
			Origin:      evidence.OriginKnowledgeBase,
			SourceTitle: sc.Chunk.DocumentTitle,
			Section:     sc.Chunk.Section,
			Content:     sc.Chunk.Content,
			Score:       float32(sc.Similarity),
		})
	}
	return items, nil
}
