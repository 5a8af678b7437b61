package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"aftercare-ai-be/internal/dto"
	"aftercare-ai-be/internal/entity"
	"aftercare-ai-be/internal/repository/unitofwork"
	"aftercare-ai-be/pkg/embedding"
	"aftercare-ai-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedKnowledgeMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing knowledge document: %s (content length: %d)", payload.DocumentTitle, len(payload.Content))

	// 1. Split Text
	// ChunkSize: 1500 chars (approx 375 tokens) - Ultra safe for context limits
	// Overlap: 200 chars
	chunks := utils.SplitText(payload.Content, 1500, 200)
	log.Printf("[INFO] Content split into %d chunks", len(chunks))

	var newChunks []*entity.KnowledgeChunk

	// 2. Embed each chunk
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, embedding.TaskTypeDocument)
		if err != nil {
			log.Printf("[ERROR] Failed to generate embedding for chunk %d of %q: %v", i, payload.DocumentTitle, err)
			msg.Nack()
			return
		}

		newChunks = append(newChunks, &entity.KnowledgeChunk{
			Id:             uuid.New(),
			DocumentTitle:  payload.DocumentTitle,
			Section:        payload.Section,
			Content:        chunk,
			EmbeddingValue: res.Embedding.Values,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	// Re-uploading a document replaces its previous chunks
	log.Printf("[INFO] Deleting old chunks for document %q", payload.DocumentTitle)
	if err := uow.KnowledgeChunkRepository().DeleteByDocumentTitle(ctx, payload.DocumentTitle); err != nil {
		log.Printf("[ERROR] Failed to delete old chunks: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Creating %d new chunks for document %q", len(newChunks), payload.DocumentTitle)
	if len(newChunks) > 0 {
		if err := uow.KnowledgeChunkRepository().CreateBulk(ctx, newChunks); err != nil {
			log.Printf("[ERROR] Failed to create bulk chunks: %v", err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Document processed: %d chunks for %q", len(newChunks), payload.DocumentTitle)
	msg.Ack()
}
