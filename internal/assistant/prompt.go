package assistant

import (
	"strings"

	"github.com/jeanpaul/krishisakhi/internal/farm"
	"github.com/jeanpaul/krishisakhi/internal/session"
)

// buildPrompt composes the single user prompt: profile record, windowed chat
// history, and the translated question, with a fixed closing instruction.
func buildPrompt(p farm.Profile, history []session.Turn, question string) string {
	var sb strings.Builder

	sb.WriteString("Farmer profile:\n")
	writeField(&sb, "Name", p.Name)
	writeField(&sb, "Location", p.Location)
	writeField(&sb, "Main crop", p.Crop)
	writeField(&sb, "Soil type", p.Soil)
	writeField(&sb, "Land size (acres)", p.Land)

	if len(history) > 0 {
		sb.WriteString("\nConversation so far:\n")
		for _, turn := range history {
			sb.WriteString("Farmer: ")
			sb.WriteString(turn.Question)
			sb.WriteString("\nAssistant: ")
			sb.WriteString(turn.Answer)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\nFarmer asked: ")
	sb.WriteString(question)
	sb.WriteString("\nAnswer simply, in the farmer's language.")
	return sb.String()
}

func writeField(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	sb.WriteString("- ")
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(value)
	sb.WriteString("\n")
}
