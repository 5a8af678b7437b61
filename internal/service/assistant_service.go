package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"aftercare-ai-be/internal/constant"
	"aftercare-ai-be/internal/dto"
	"aftercare-ai-be/internal/entity"
	"aftercare-ai-be/internal/repository/memory"
	"aftercare-ai-be/internal/repository/specification"
	"aftercare-ai-be/internal/repository/unitofwork"
	"aftercare-ai-be/pkg/conversation"

	"github.com/google/uuid"
)

type IAssistantService interface {
	SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetHistory(ctx context.Context, sessionId string) ([]*dto.ChatHistoryItemResponse, error)
	GetState(ctx context.Context, sessionId string) (*dto.SessionStateResponse, error)
}

type assistantService struct {
	router     *conversation.Router
	sessions   *memory.SessionRepository
	uowFactory unitofwork.RepositoryFactory
	logger     *log.Logger

	// Messages within one session are processed strictly in order.
	mu          sync.Mutex
	sessionLock map[string]*sync.Mutex
}

func NewAssistantService(
	router *conversation.Router,
	sessions *memory.SessionRepository,
	uowFactory unitofwork.RepositoryFactory,
	logger *log.Logger,
) IAssistantService {
	return &assistantService{
		router:      router,
		sessions:    sessions,
		uowFactory:  uowFactory,
		logger:      logger,
		sessionLock: make(map[string]*sync.Mutex),
	}
}

func (s *assistantService) lockSession(sessionId string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.sessionLock[sessionId]
	if !ok {
		lock = &sync.Mutex{}
		s.sessionLock[sessionId] = lock
	}
	return lock
}

func (s *assistantService) SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	lock := s.lockSession(req.SessionId)
	lock.Lock()
	defer lock.Unlock()

	reply, err := s.router.HandleMessage(ctx, req.SessionId, req.Message)
	if err != nil {
		return nil, err
	}

	// Persistence is best effort; a storage failure never eats the reply.
	if err := s.persistExchange(ctx, req, reply); err != nil {
		s.logger.Printf("[ERROR] Failed to persist exchange for session %s: %v", req.SessionId, err)
	}

	sources := make([]dto.SourceDTO, 0, len(reply.Sources))
	for _, item := range reply.Sources {
		if item.PatientContext {
			continue
		}
		sources = append(sources, dto.SourceDTO{
			Origin:  string(item.Origin),
			Title:   item.SourceTitle,
			Section: item.Section,
		})
	}

	return &dto.SendMessageResponse{
		SessionId: req.SessionId,
		Reply:     reply.Text,
		State:     string(reply.State),
		Route:     string(reply.Route),
		Degraded:  reply.Degraded,
		Sources:   sources,
	}, nil
}

// persistExchange writes the user message and the reply to the durable
// trail, creating the session row on first contact.
func (s *assistantService) persistExchange(ctx context.Context, req *dto.SendMessageRequest, reply conversation.Reply) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByExternalID{ExternalID: req.SessionId})
	if err != nil {
		return err
	}

	live, _ := s.sessions.Get(req.SessionId)

	if session == nil {
		session = &entity.ChatSession{
			Id:         uuid.New(),
			ExternalId: req.SessionId,
			AgentState: string(reply.State),
			CreatedAt:  time.Now(),
		}
		if live != nil {
			session.PatientCode = live.PatientID
			session.Anonymous = live.Anonymous
		}
		if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
			return err
		}
	} else {
		session.AgentState = string(reply.State)
		if live != nil {
			session.PatientCode = live.PatientID
			session.Anonymous = live.Anonymous
		}
		if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
			return err
		}
	}

	userMsg := &entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          req.Message,
		Role:          constant.ChatMessageRoleUser,
		ChatSessionId: session.Id,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMsg); err != nil {
		return err
	}

	replyMsg := &entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          reply.Text,
		Role:          constant.ChatMessageRoleModel,
		Route:         string(reply.Route),
		ChatSessionId: session.Id,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, replyMsg); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *assistantService) GetHistory(ctx context.Context, sessionId string) ([]*dto.ChatHistoryItemResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByExternalID{ExternalID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.New("chat session not found")
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ChatHistoryItemResponse, len(messages))
	for i, msg := range messages {
		responses[i] = &dto.ChatHistoryItemResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Chat:      msg.Chat,
			Route:     msg.Route,
			CreatedAt: msg.CreatedAt,
		}
	}
	return responses, nil
}

func (s *assistantService) GetState(ctx context.Context, sessionId string) (*dto.SessionStateResponse, error) {
	// The router mutates the live session while SendMessage holds the
	// session lock, so the snapshot here must hold it too.
	lock := s.lockSession(sessionId)
	lock.Lock()
	live, ok := s.sessions.Get(sessionId)
	if ok {
		resp := &dto.SessionStateResponse{
			SessionId:   sessionId,
			State:       string(live.State),
			PatientName: live.PatientName,
			Anonymous:   live.Anonymous,
		}
		lock.Unlock()
		return resp, nil
	}
	lock.Unlock()

	// Fall back to the durable trail when the in-memory session expired.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByExternalID{ExternalID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.New("chat session not found")
	}

	return &dto.SessionStateResponse{
		SessionId: sessionId,
		State:     session.AgentState,
		Anonymous: session.Anonymous,
	}, nil
}
