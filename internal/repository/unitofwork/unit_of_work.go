package unitofwork

import (
	"context"

	"aftercare-ai-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	PatientRepository() contract.PatientRepository
	KnowledgeChunkRepository() contract.KnowledgeChunkRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
}
