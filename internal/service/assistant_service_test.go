package service

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"

	"aftercare-ai-be/internal/dto"
	"aftercare-ai-be/internal/repository/contract"
	"aftercare-ai-be/internal/repository/memory"
	"aftercare-ai-be/internal/repository/unitofwork"
	"aftercare-ai-be/pkg/audit"
	"aftercare-ai-be/pkg/compose"
	"aftercare-ai-be/pkg/conversation"
	"aftercare-ai-be/pkg/evidence"
	"aftercare-ai-be/pkg/llm"
	"aftercare-ai-be/pkg/triage"
)

type stubDirectory struct {
	records []conversation.PatientRecord
}

func (d *stubDirectory) Lookup(ctx context.Context, nameOrID string) ([]conversation.PatientRecord, error) {
	return d.records, nil
}

type stubGatherer struct {
	items []evidence.Item
}

func (g *stubGatherer) Gather(ctx context.Context, route triage.Route, query string, patientItem *evidence.Item) ([]evidence.Item, error) {
	return g.items, nil
}

type stubComposer struct{}

func (c *stubComposer) Compose(ctx context.Context, question string, items []evidence.Item, history []llm.Message) compose.Result {
	return compose.Result{Answer: "stub answer", Sources: items}
}

// stubUowFactory hands out units of work whose Begin always fails, so
// the durable trail is skipped and the service runs purely in memory.
type stubUowFactory struct{}

func (stubUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return stubUow{}
}

type stubUow struct{}

func (stubUow) Begin(ctx context.Context) error {
	return errors.New("storage disabled")
}

func (stubUow) Commit() error   { return nil }
func (stubUow) Rollback() error { return nil }

func (stubUow) UserRepository() contract.UserRepository { return nil }

func (stubUow) PatientRepository() contract.PatientRepository { return nil }

func (stubUow) KnowledgeChunkRepository() contract.KnowledgeChunkRepository { return nil }

func (stubUow) ChatSessionRepository() contract.ChatSessionRepository { return nil }

func (stubUow) ChatMessageRepository() contract.ChatMessageRepository { return nil }

func newTestService() IAssistantService {
	discard := log.New(io.Discard, "", 0)
	sessions := memory.NewSessionRepository()
	router := conversation.NewRouter(
		sessions,
		&stubDirectory{records: []conversation.PatientRecord{{
			ID:            "PT-1001",
			Name:          "Maria Santos",
			DischargeDate: "2026-07-14",
			Diagnosis:     "chronic kidney disease stage 3",
			Summary:       "Discharged with medication plan.",
		}}},
		triage.NewClassifier(triage.DefaultPatterns()),
		&stubGatherer{items: []evidence.Item{
			{Origin: evidence.OriginKnowledgeBase, SourceTitle: "ch1", Content: "chunk", Score: 0.7},
		}},
		&stubComposer{},
		audit.NopEmitter{},
		discard,
	)
	return NewAssistantService(router, sessions, stubUowFactory{}, discard)
}

// Run with -race: GetState snapshots the live session that SendMessage
// is mutating, so both must go through the session lock.
func TestGetStateConcurrentWithSendMessage(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.SendMessage(ctx, &dto.SendMessageRequest{
		SessionId: "race-session",
		Message:   "Maria Santos",
	}); err != nil {
		t.Fatalf("identify message failed: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if _, err := svc.SendMessage(ctx, &dto.SendMessageRequest{
				SessionId: "race-session",
				Message:   "I have swelling in my legs",
			}); err != nil {
				t.Errorf("send message failed: %v", err)
				return
			}
		}
	}()

	valid := map[string]bool{
		string(conversation.StateAwaitingIdentity): true,
		string(conversation.StateIdentified):       true,
		string(conversation.StateClinicalActive):   true,
	}
	for i := 0; i < 200; i++ {
		state, err := svc.GetState(ctx, "race-session")
		if err != nil {
			t.Fatalf("get state failed: %v", err)
		}
		if !valid[state.State] {
			t.Fatalf("unexpected state %q", state.State)
		}
		if state.PatientName != "Maria Santos" {
			t.Fatalf("unexpected patient name %q", state.PatientName)
		}
	}
	wg.Wait()
}
