package compose

import (
	"context"
	"fmt"
	"log"
	"strings"

	"aftercare-ai-be/pkg/evidence"
	"aftercare-ai-be/pkg/llm"
)

// Config encapsulates generation parameters
type Config struct {
	// PromptBudget bounds the evidence text injected into the prompt,
	// in characters. Items past the budget are dropped whole, never
	// split mid-chunk.
	PromptBudget int

	// MinAnswerLen is the sanity floor: shorter model output is treated
	// as a failed generation.
	MinAnswerLen int

	// MaxRetries is how many times generation is re-attempted before
	// the scripted degraded answer is used.
	MaxRetries int

	Temperature float64
}

// DefaultConfig returns default generation configuration
func DefaultConfig() Config {
	return Config{
		PromptBudget: 6000,
		MinAnswerLen: 40,
		MaxRetries:   2,
		Temperature:  0.3,
	}
}

// Result is a composed answer plus the sources it cites, in the order
// they appeared in the evidence set.
type Result struct {
	Answer   string
	Degraded bool
	Sources  []evidence.Item
}

// Composer turns gathered evidence into a patient-facing answer. It is
// the only component that talks to the LLM for clinical questions, and
// it never fails the request: generation problems degrade to a scripted
// answer that still carries the attribution block.
type Composer struct {
	llmProvider llm.LLMProvider
	config      Config
	logger      *log.Logger
}

// NewComposer creates a new response composer
func NewComposer(llmProvider llm.LLMProvider, config Config, logger *log.Logger) *Composer {
	return &Composer{
		llmProvider: llmProvider,
		config:      config,
		logger:      logger,
	}
}

// Compose generates the answer for question from the evidence set.
// Every returned answer ends with the attribution block; callers never
// need to append sourcing themselves.
func (c *Composer) Compose(ctx context.Context, question string, items []evidence.Item, history []llm.Message) Result {
	if len(items) == 0 {
		return Result{Answer: InsufficientEvidenceMessage, Degraded: true}
	}

	budgeted := c.applyBudget(items)
	promptText := c.buildGroundedPrompt(question, budgeted)
	fullHistory := append(history, llm.Message{Role: "user", Content: promptText})

	var answer string
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		response, err := c.llmProvider.Chat(ctx, fullHistory, llm.WithTemperature(c.config.Temperature))
		if err != nil {
			c.logger.Printf("[ERROR] Generation attempt %d failed: %v", attempt+1, err)
			continue
		}
		if c.looksUsable(response) {
			answer = strings.TrimSpace(response)
			break
		}
		c.logger.Printf("[WARN] Generation attempt %d rejected by sanity check (%d chars)", attempt+1, len(response))
	}

	if answer == "" {
		c.logger.Printf("[WARN] All generation attempts exhausted, using degraded answer")
		return Result{Answer: degradedAnswer(budgeted), Degraded: true, Sources: budgeted}
	}

	return Result{
		Answer:  answer + FormatAttribution(budgeted),
		Sources: budgeted,
	}
}

// applyBudget keeps items in order until the character budget is spent.
// The patient-context item is always first in the set, so personal data
// survives budgeting whenever present.
func (c *Composer) applyBudget(items []evidence.Item) []evidence.Item {
	var kept []evidence.Item
	used := 0
	for _, it := range items {
		if used+len(it.Content) > c.config.PromptBudget && len(kept) > 0 {
			c.logger.Printf("[DEBUG] Prompt budget reached, dropping %d of %d items", len(items)-len(kept), len(items))
			break
		}
		kept = append(kept, it)
		used += len(it.Content)
	}
	return kept
}

func (c *Composer) buildGroundedPrompt(question string, items []evidence.Item) string {
	var prompt strings.Builder

	prompt.WriteString("<reference_material>\n")
	prompt.WriteString("CRITICAL: This is the ONLY data source. Do NOT use outside knowledge.\n")
	prompt.WriteString("Each source is separated by headers. Treat them as distinct sources.\n\n")

	for _, it := range items {
		label := it.SourceTitle
		if it.PatientContext {
			label = "PATIENT DISCHARGE RECORD (" + it.SourceTitle + ")"
		}
		prompt.WriteString(fmt.Sprintf("\n--- CONTENT OF: %s ---\n", label))
		prompt.WriteString(it.Content)
		prompt.WriteString(fmt.Sprintf("\n--- END OF: %s ---\n", label))
	}
	prompt.WriteString("</reference_material>\n\n")

	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a post-discharge care assistant answering a patient's medical question.\n")
	prompt.WriteString("Base your answer strictly on the reference material above.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Answer ONLY using the text in <reference_material>.\n")
	prompt.WriteString("2. If a PATIENT DISCHARGE RECORD section is present, personalize the answer to that patient's diagnosis, medications and treatment plan.\n")
	prompt.WriteString("3. Use plain, reassuring language a patient can follow. Avoid jargon unless you explain it.\n")
	prompt.WriteString("4. If the material doesn't contain what's being asked, say so honestly.\n")
	prompt.WriteString("5. Never give dosage changes or diagnoses. For anything urgent, tell the patient to contact their care team.\n")
	prompt.WriteString("6. DO NOT list your sources. Citations are handled separately by the system.\n")
	prompt.WriteString("</guidelines>\n\n")

	prompt.WriteString("<patient_question>\n")
	prompt.WriteString(question)
	prompt.WriteString("\n</patient_question>\n\n")

	prompt.WriteString("Answer:")

	return prompt.String()
}

// looksUsable rejects obviously broken generations: empty output, output
// below the length floor, and refusal boilerplate.
func (c *Composer) looksUsable(response string) bool {
	trimmed := strings.TrimSpace(response)
	if len(trimmed) < c.config.MinAnswerLen {
		return false
	}

	lowered := strings.ToLower(trimmed)
	refusals := []string{
		"i cannot answer",
		"i can't answer",
		"i'm unable to",
		"as an ai",
	}
	for _, r := range refusals {
		if strings.HasPrefix(lowered, r) {
			return false
		}
	}
	return true
}
