package conversation

import (
	"fmt"
	"strings"
)

// HandoffNotice prefixes the first clinical answer after the
// receptionist stage detects a medical concern.
const HandoffNotice = "This sounds like a medical concern. Let me connect you with our Clinical AI Agent."

const welcomeMessage = "Hello! I'm your post-discharge care assistant. " +
	"Could you share your full name or patient ID so I can pull up your discharge report?"

const notFoundMessage = "I couldn't find a discharge report under that name or ID. " +
	"Could you double-check the spelling, or share your patient ID instead?"

const directoryDownMessage = "I'm having trouble reaching our records system right now. " +
	"Please try again in a moment, or let me know if you have a medical question I can help with in the meantime."

const anonymousClinicalNotice = "I can't reach our records system right now, so I can't personalize this yet, " +
	"but your question sounds important. Here's what I can tell you:"

// generalReplies rotate for small talk in the identified stage.
var generalReplies = []string{
	"That's good to hear! Remember to follow your treatment plan and take your medications as prescribed. Is there anything about your recovery you'd like to ask?",
	"Thanks for checking in! Keeping up with your follow-up appointments makes a real difference. Let me know if any symptoms come up.",
	"Glad you reached out! I'm here if you have questions about your medications, diet, or anything from your discharge report.",
}

func greetingMessage(record PatientRecord) string {
	return fmt.Sprintf(
		"Hi %s! I found your discharge report from %s for %s. How are you feeling today? Any questions about your recovery?",
		record.Name, record.DischargeDate, record.Diagnosis,
	)
}

// maxDisambiguationCandidates bounds the list shown when a partial name
// matches several records.
const maxDisambiguationCandidates = 3

func disambiguationMessage(records []PatientRecord) string {
	if len(records) > maxDisambiguationCandidates {
		records = records[:maxDisambiguationCandidates]
	}

	var b strings.Builder
	b.WriteString("I found a few records matching that name. Which one is you?\n")
	for i, r := range records {
		b.WriteString(fmt.Sprintf("%d. %s (ID: %s)\n", i+1, r.Name, r.ID))
	}
	b.WriteString("\nPlease reply with your patient ID.")
	return b.String()
}
