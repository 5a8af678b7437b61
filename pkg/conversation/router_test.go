package conversation

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"aftercare-ai-be/pkg/audit"
	"aftercare-ai-be/pkg/compose"
	"aftercare-ai-be/pkg/evidence"
	"aftercare-ai-be/pkg/llm"
	"aftercare-ai-be/pkg/triage"
)

type mapStore struct {
	sessions map[string]*Session
}

func newMapStore() *mapStore {
	return &mapStore{sessions: make(map[string]*Session)}
}

func (s *mapStore) Get(id string) (*Session, bool) {
	session, ok := s.sessions[id]
	return session, ok
}

func (s *mapStore) Save(session *Session) {
	s.sessions[session.ID] = session
}

type fakeDirectory struct {
	records []PatientRecord
	err     error
}

func (d *fakeDirectory) Lookup(ctx context.Context, nameOrID string) ([]PatientRecord, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.records, nil
}

type fakeGatherer struct {
	items       []evidence.Item
	err         error
	lastRoute   triage.Route
	lastPatient *evidence.Item
	calls       int
}

func (g *fakeGatherer) Gather(ctx context.Context, route triage.Route, query string, patientItem *evidence.Item) ([]evidence.Item, error) {
	g.calls++
	g.lastRoute = route
	g.lastPatient = patientItem
	return g.items, g.err
}

type fakeComposer struct {
	lastItems   []evidence.Item
	lastHistory []llm.Message
}

func (c *fakeComposer) Compose(ctx context.Context, question string, items []evidence.Item, history []llm.Message) compose.Result {
	c.lastItems = items
	c.lastHistory = history
	if len(items) == 0 {
		return compose.Result{Answer: compose.InsufficientEvidenceMessage, Degraded: true}
	}
	return compose.Result{Answer: "composed answer", Sources: items}
}

var samplePatient = PatientRecord{
	ID:            "PT-1001",
	Name:          "Maria Santos",
	DischargeDate: "2026-07-14",
	Diagnosis:     "chronic kidney disease stage 3",
	Summary:       "diagnosis: CKD stage 3; medications: lisinopril 10mg",
}

func newTestRouter(dir *fakeDirectory, gatherer *fakeGatherer, composer *fakeComposer) (*Router, *mapStore) {
	store := newMapStore()
	router := NewRouter(
		store,
		dir,
		triage.NewClassifier(triage.DefaultPatterns()),
		gatherer,
		composer,
		audit.NopEmitter{},
		log.New(io.Discard, "", 0),
	)
	return router, store
}

func TestIdentityMatchGreetsPatient(t *testing.T) {
	router, store := newTestRouter(
		&fakeDirectory{records: []PatientRecord{samplePatient}},
		&fakeGatherer{}, &fakeComposer{},
	)

	reply, err := router.HandleMessage(context.Background(), "s1", "Maria Santos")
	if err != nil {
		t.Fatalf("HandleMessage error: %v", err)
	}
	if reply.State != StateIdentified {
		t.Errorf("state = %v, want %v", reply.State, StateIdentified)
	}
	for _, want := range []string{"Maria Santos", "2026-07-14", "chronic kidney disease stage 3"} {
		if !strings.Contains(reply.Text, want) {
			t.Errorf("greeting missing %q: %s", want, reply.Text)
		}
	}

	saved, _ := store.Get("s1")
	if saved.PatientID != "PT-1001" {
		t.Errorf("session patient id = %q, want PT-1001", saved.PatientID)
	}
}

func TestIdentityNotFoundStaysAwaiting(t *testing.T) {
	router, _ := newTestRouter(&fakeDirectory{}, &fakeGatherer{}, &fakeComposer{})

	reply, err := router.HandleMessage(context.Background(), "s1", "Nobody Here")
	if err != nil {
		t.Fatalf("HandleMessage error: %v", err)
	}
	if reply.State != StateAwaitingIdentity {
		t.Errorf("state = %v, want %v", reply.State, StateAwaitingIdentity)
	}
	if !strings.Contains(reply.Text, "couldn't find") {
		t.Errorf("unexpected reply: %s", reply.Text)
	}
}

func TestIdentityDisambiguationListsAtMostThree(t *testing.T) {
	records := []PatientRecord{
		{ID: "PT-1", Name: "John Smith"},
		{ID: "PT-2", Name: "John Smithers"},
		{ID: "PT-3", Name: "Johnny Smith"},
		{ID: "PT-4", Name: "Jon Smith"},
	}
	router, _ := newTestRouter(&fakeDirectory{records: records}, &fakeGatherer{}, &fakeComposer{})

	reply, _ := router.HandleMessage(context.Background(), "s1", "John")
	if reply.State != StateAwaitingIdentity {
		t.Errorf("state = %v, want %v", reply.State, StateAwaitingIdentity)
	}
	if !strings.Contains(reply.Text, "PT-1") || !strings.Contains(reply.Text, "PT-3") {
		t.Errorf("candidate IDs missing: %s", reply.Text)
	}
	if strings.Contains(reply.Text, "PT-4") {
		t.Errorf("more than three candidates listed: %s", reply.Text)
	}
}

func TestIdentifiedSmallTalkRotates(t *testing.T) {
	router, _ := newTestRouter(
		&fakeDirectory{records: []PatientRecord{samplePatient}},
		&fakeGatherer{}, &fakeComposer{},
	)
	ctx := context.Background()

	router.HandleMessage(ctx, "s1", "Maria Santos")
	first, _ := router.HandleMessage(ctx, "s1", "I'm feeling fine today, thanks")
	second, _ := router.HandleMessage(ctx, "s1", "Just checking in again")

	if first.State != StateIdentified || second.State != StateIdentified {
		t.Errorf("small talk must not leave the identified stage")
	}
	if first.Text == second.Text {
		t.Error("scripted small-talk replies should rotate")
	}
}

func TestClinicalKeywordHandsOff(t *testing.T) {
	gatherer := &fakeGatherer{items: []evidence.Item{
		{Origin: evidence.OriginKnowledgeBase, SourceTitle: "ch1", Content: "chunk", Score: 0.7},
	}}
	router, _ := newTestRouter(
		&fakeDirectory{records: []PatientRecord{samplePatient}},
		gatherer, &fakeComposer{},
	)
	ctx := context.Background()

	router.HandleMessage(ctx, "s1", "Maria Santos")
	reply, _ := router.HandleMessage(ctx, "s1", "I have swelling in my legs")

	if reply.State != StateClinicalActive {
		t.Errorf("state = %v, want %v", reply.State, StateClinicalActive)
	}
	if !strings.HasPrefix(reply.Text, HandoffNotice) {
		t.Errorf("first clinical answer missing handoff notice: %s", reply.Text)
	}
	if gatherer.lastPatient == nil || !gatherer.lastPatient.PatientContext {
		t.Error("identified session should pass a patient-context item to retrieval")
	}
}

func TestClinicalStagePersists(t *testing.T) {
	gatherer := &fakeGatherer{items: []evidence.Item{
		{Origin: evidence.OriginKnowledgeBase, SourceTitle: "ch1", Content: "chunk", Score: 0.7},
	}}
	router, _ := newTestRouter(
		&fakeDirectory{records: []PatientRecord{samplePatient}},
		gatherer, &fakeComposer{},
	)
	ctx := context.Background()

	router.HandleMessage(ctx, "s1", "Maria Santos")
	router.HandleMessage(ctx, "s1", "I have swelling in my legs")
	reply, _ := router.HandleMessage(ctx, "s1", "Maria Santos")

	// Once clinical, even an identity-looking message is a question.
	if reply.State != StateClinicalActive {
		t.Errorf("state regressed to %v", reply.State)
	}
	if strings.HasPrefix(reply.Text, HandoffNotice) {
		t.Error("handoff notice must only prefix the first clinical answer")
	}
}

func TestClinicalHistoryCarriesBetweenTurns(t *testing.T) {
	gatherer := &fakeGatherer{items: []evidence.Item{
		{Origin: evidence.OriginKnowledgeBase, SourceTitle: "ch1", Content: "chunk", Score: 0.7},
	}}
	composer := &fakeComposer{}
	router, _ := newTestRouter(
		&fakeDirectory{records: []PatientRecord{samplePatient}},
		gatherer, composer,
	)
	ctx := context.Background()

	router.HandleMessage(ctx, "s1", "Maria Santos")
	router.HandleMessage(ctx, "s1", "I have swelling in my legs")
	if len(composer.lastHistory) != 0 {
		t.Errorf("first clinical turn should compose with empty history, got %d messages", len(composer.lastHistory))
	}

	router.HandleMessage(ctx, "s1", "Should I keep taking my medication?")
	if len(composer.lastHistory) != 2 {
		t.Fatalf("second clinical turn should see 2 history messages, got %d", len(composer.lastHistory))
	}
	if composer.lastHistory[0].Role != "user" || composer.lastHistory[0].Content != "I have swelling in my legs" {
		t.Errorf("unexpected first history message: %+v", composer.lastHistory[0])
	}
	if composer.lastHistory[1].Role != "assistant" || composer.lastHistory[1].Content != "composed answer" {
		t.Errorf("unexpected second history message: %+v", composer.lastHistory[1])
	}
}

func TestRememberExchangeKeepsRecentTurns(t *testing.T) {
	s := &Session{}
	for i := 0; i < 5; i++ {
		s.RememberExchange("question", "answer")
	}

	if len(s.History) != maxHistoryMessages {
		t.Fatalf("history length = %d, want %d", len(s.History), maxHistoryMessages)
	}
	if s.History[0].Role != "user" || s.History[len(s.History)-1].Role != "assistant" {
		t.Error("history must stay in user/assistant pairs after trimming")
	}
}

func TestDirectoryDownNonClinicalAsksToRetry(t *testing.T) {
	router, _ := newTestRouter(
		&fakeDirectory{err: ErrDirectoryUnavailable},
		&fakeGatherer{}, &fakeComposer{},
	)

	reply, _ := router.HandleMessage(context.Background(), "s1", "Maria Santos")
	if reply.State != StateAwaitingIdentity {
		t.Errorf("state = %v, want %v", reply.State, StateAwaitingIdentity)
	}
	if !strings.Contains(reply.Text, "records system") {
		t.Errorf("unexpected reply: %s", reply.Text)
	}
}

func TestDirectoryDownClinicalGoesAnonymous(t *testing.T) {
	gatherer := &fakeGatherer{items: []evidence.Item{
		{Origin: evidence.OriginKnowledgeBase, SourceTitle: "ch1", Content: "chunk", Score: 0.7},
	}}
	router, store := newTestRouter(
		&fakeDirectory{err: ErrDirectoryUnavailable},
		gatherer, &fakeComposer{},
	)

	reply, _ := router.HandleMessage(context.Background(), "s1", "I have severe pain in my side")
	if reply.State != StateClinicalActive {
		t.Errorf("state = %v, want %v", reply.State, StateClinicalActive)
	}
	if !strings.Contains(reply.Text, "can't reach our records system") {
		t.Errorf("anonymous notice missing: %s", reply.Text)
	}

	saved, _ := store.Get("s1")
	if !saved.Anonymous || saved.HasPatient() {
		t.Error("session should be anonymous without a patient record")
	}
	if gatherer.lastPatient != nil {
		t.Error("anonymous session must not pass patient context to retrieval")
	}
}

func TestInsufficientEvidenceGivesScriptedAnswer(t *testing.T) {
	gatherer := &fakeGatherer{err: evidence.ErrInsufficientEvidence}
	composer := &fakeComposer{}
	router, _ := newTestRouter(
		&fakeDirectory{records: []PatientRecord{samplePatient}},
		gatherer, composer,
	)
	ctx := context.Background()

	router.HandleMessage(ctx, "s1", "Maria Santos")
	reply, _ := router.HandleMessage(ctx, "s1", "I have swelling in my legs")

	if !strings.Contains(reply.Text, "don't want to guess") {
		t.Errorf("expected scripted insufficient-evidence answer, got: %s", reply.Text)
	}
	if len(composer.lastItems) != 0 {
		t.Error("composer should receive no items when evidence is insufficient")
	}
}

func TestHandleMessageRequiresSessionID(t *testing.T) {
	router, _ := newTestRouter(&fakeDirectory{}, &fakeGatherer{}, &fakeComposer{})
	if _, err := router.HandleMessage(context.Background(), "", "hello"); err == nil {
		t.Error("expected error for missing session id")
	}
}
