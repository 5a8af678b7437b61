package compose

import (
	"fmt"
	"strings"

	"aftercare-ai-be/pkg/evidence"
)

// Disclaimer is appended to every clinical answer, including degraded ones.
const Disclaimer = "*This information is for educational purposes and does not replace professional medical advice. Please consult your healthcare provider for personal medical decisions.*"

// InsufficientEvidenceMessage is the scripted reply when retrieval came
// back empty everywhere. It must never speculate.
const InsufficientEvidenceMessage = "I wasn't able to find reliable reference material for that question, so I don't want to guess. " +
	"Please reach out to your care team directly, or try rephrasing your question.\n\n" + Disclaimer

// FormatAttribution renders the mandatory source block, separating
// curated reference material from live web results. Items are grouped
// by origin; the patient-context item is not a citable source and is
// skipped.
func FormatAttribution(items []evidence.Item) string {
	var kb, web []evidence.Item
	for _, it := range items {
		if it.PatientContext {
			continue
		}
		switch it.Origin {
		case evidence.OriginKnowledgeBase:
			kb = append(kb, it)
		case evidence.OriginWebSearch:
			web = append(web, it)
		}
	}

	if len(kb) == 0 && len(web) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n---\n")

	if len(kb) > 0 {
		b.WriteString("\n📚 **REFERENCE MATERIALS** (Comprehensive Clinical Nephrology)\n")
		for _, it := range kb {
			if it.Section != "" {
				b.WriteString(fmt.Sprintf("   • %s (%s)\n", it.SourceTitle, it.Section))
			} else {
				b.WriteString(fmt.Sprintf("   • %s\n", it.SourceTitle))
			}
		}
	}

	if len(web) > 0 {
		b.WriteString("\n🌐 **RECENT MEDICAL LITERATURE** (Web Search)\n")
		for _, it := range web {
			b.WriteString(fmt.Sprintf("   • %s\n", it.SourceTitle))
		}
	}

	b.WriteString("\n" + Disclaimer)
	return b.String()
}

// degradedAnswer is returned when generation fails or the model output
// does not pass the sanity check. It points at the gathered sources
// without inventing content.
func degradedAnswer(items []evidence.Item) string {
	var b strings.Builder
	b.WriteString("I found relevant reference material but couldn't compose a full answer right now. ")
	b.WriteString("The sources below may help, and your care team can walk you through them.")
	b.WriteString(FormatAttribution(items))
	return b.String()
}
