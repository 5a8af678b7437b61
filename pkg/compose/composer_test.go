package compose

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"aftercare-ai-be/pkg/evidence"
	"aftercare-ai-be/pkg/llm"
)

type fakeLLM struct {
	responses []string
	errs      []error
	calls     int
	lastMsg   string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	idx := f.calls
	f.calls++
	if len(history) > 0 {
		f.lastMsg = history[len(history)-1].Content
	}
	var err error
	if idx < len(f.errs) {
		err = f.errs[idx]
	}
	var resp string
	if idx < len(f.responses) {
		resp = f.responses[idx]
	}
	return resp, err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func sampleEvidence() []evidence.Item {
	return []evidence.Item{
		{
			Origin:      evidence.OriginKnowledgeBase,
			SourceTitle: "Comprehensive Clinical Nephrology",
			Section:     "Fluid Management",
			Content:     "Patients on dialysis should limit daily fluid intake.",
			Score:       0.81,
		},
		{
			Origin:      evidence.OriginWebSearch,
			SourceTitle: "2025 KDIGO guideline update",
			Content:     "Updated guidance on fluid restriction thresholds.",
			Score:       0.9,
		},
	}
}

func TestComposeAppendsAttribution(t *testing.T) {
	provider := &fakeLLM{responses: []string{
		"Limiting fluids between dialysis sessions helps control swelling and blood pressure. Your care team can set an exact daily target for you.",
	}}
	c := NewComposer(provider, DefaultConfig(), testLogger())

	res := c.Compose(context.Background(), "How much can I drink?", sampleEvidence(), nil)
	if res.Degraded {
		t.Fatal("unexpected degraded result")
	}
	if !strings.Contains(res.Answer, "REFERENCE MATERIALS") {
		t.Error("answer missing knowledge base attribution section")
	}
	if !strings.Contains(res.Answer, "RECENT MEDICAL LITERATURE") {
		t.Error("answer missing web search attribution section")
	}
	if !strings.Contains(res.Answer, "educational purposes") {
		t.Error("answer missing disclaimer footer")
	}
}

func TestComposeRetriesThenSucceeds(t *testing.T) {
	provider := &fakeLLM{
		errs: []error{errors.New("timeout"), nil},
		responses: []string{
			"",
			"Swelling after dialysis is common when fluid builds up between sessions, and elevating your legs can help in the meantime.",
		},
	}
	c := NewComposer(provider, DefaultConfig(), testLogger())

	res := c.Compose(context.Background(), "Why are my legs swollen?", sampleEvidence(), nil)
	if res.Degraded {
		t.Fatalf("expected retry to recover, got degraded answer: %q", res.Answer)
	}
	if provider.calls != 2 {
		t.Errorf("provider calls = %d, want 2", provider.calls)
	}
}

func TestComposeDegradesAfterExhaustedRetries(t *testing.T) {
	provider := &fakeLLM{
		errs: []error{errors.New("down"), errors.New("down"), errors.New("down")},
	}
	c := NewComposer(provider, DefaultConfig(), testLogger())

	res := c.Compose(context.Background(), "q", sampleEvidence(), nil)
	if !res.Degraded {
		t.Fatal("expected degraded result")
	}
	if !strings.Contains(res.Answer, "REFERENCE MATERIALS") {
		t.Error("degraded answer must still carry attribution")
	}
	if provider.calls != 3 {
		t.Errorf("provider calls = %d, want 3 (1 + MaxRetries)", provider.calls)
	}
}

func TestComposeRejectsTooShortAnswer(t *testing.T) {
	provider := &fakeLLM{responses: []string{"ok", "ok", "ok"}}
	c := NewComposer(provider, DefaultConfig(), testLogger())

	res := c.Compose(context.Background(), "q", sampleEvidence(), nil)
	if !res.Degraded {
		t.Fatal("short model output should degrade")
	}
}

func TestComposeNoEvidenceUsesScriptedMessage(t *testing.T) {
	provider := &fakeLLM{}
	c := NewComposer(provider, DefaultConfig(), testLogger())

	res := c.Compose(context.Background(), "q", nil, nil)
	if res.Answer != InsufficientEvidenceMessage {
		t.Errorf("answer = %q, want scripted insufficient-evidence message", res.Answer)
	}
	if provider.calls != 0 {
		t.Error("no evidence must not reach the model")
	}
}

func TestComposePromptCarriesPatientRecord(t *testing.T) {
	provider := &fakeLLM{responses: []string{
		"Based on your discharge report, continue the treatment plan your doctor set and watch your fluid intake as advised.",
	}}
	c := NewComposer(provider, DefaultConfig(), testLogger())

	items := append([]evidence.Item{{
		Origin:         evidence.OriginKnowledgeBase,
		SourceTitle:    "Discharge Report",
		Content:        "diagnosis: CKD stage 3; medications: lisinopril",
		PatientContext: true,
	}}, sampleEvidence()...)

	c.Compose(context.Background(), "How am I doing?", items, nil)
	if !strings.Contains(provider.lastMsg, "PATIENT DISCHARGE RECORD") {
		t.Error("prompt missing patient discharge record section")
	}
	if !strings.Contains(provider.lastMsg, "lisinopril") {
		t.Error("prompt missing patient record content")
	}
}

func TestComposeBudgetDropsWholeItems(t *testing.T) {
	provider := &fakeLLM{responses: []string{
		"The most relevant reference material suggests limiting fluid intake between dialysis sessions as directed by your care team.",
	}}
	cfg := DefaultConfig()
	cfg.PromptBudget = 60
	c := NewComposer(provider, cfg, testLogger())

	items := []evidence.Item{
		{Origin: evidence.OriginKnowledgeBase, SourceTitle: "ch1", Content: strings.Repeat("a", 50)},
		{Origin: evidence.OriginKnowledgeBase, SourceTitle: "ch2", Content: strings.Repeat("b", 50)},
	}
	res := c.Compose(context.Background(), "q", items, nil)
	if len(res.Sources) != 1 {
		t.Fatalf("budgeted sources = %d, want 1", len(res.Sources))
	}
	if strings.Contains(provider.lastMsg, "bbbb") {
		t.Error("over-budget item leaked into the prompt")
	}
}

func TestFormatAttributionSkipsPatientContext(t *testing.T) {
	items := []evidence.Item{
		{Origin: evidence.OriginKnowledgeBase, SourceTitle: "Discharge Report", PatientContext: true},
		{Origin: evidence.OriginKnowledgeBase, SourceTitle: "Comprehensive Clinical Nephrology", Section: "Anemia"},
	}
	block := FormatAttribution(items)
	if strings.Contains(block, "Discharge Report") {
		t.Error("patient record must not appear as a citable source")
	}
	if !strings.Contains(block, "Anemia") {
		t.Error("knowledge base section missing from attribution")
	}
}
