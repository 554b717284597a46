package assistant

import (
	"fmt"

	"pkt.systems/codexpad/schema"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// SystemInstruction primes the chat session.
const SystemInstruction = "You are a helpful assistant for a document editor. Your name is Codex. Be concise, helpful, and friendly. You can help with writing, brainstorming, and answering questions. Format your answers with markdown when appropriate."

var actionInstructions = map[schema.Action]string{
	schema.ActionImprove:   "Improve the following text for clarity, tone, and style. Only return the improved text, without any introductory phrases:",
	schema.ActionSummarize: "Summarize the following text concisely. Only return the summary, without any introductory phrases:",
	schema.ActionFix:       "Fix any spelling and grammar mistakes in the following text. Only return the corrected text, without any introductory phrases:",
	schema.ActionTranslate: "Translate the following text to English. Only return the translated text, without any introductory phrases:",
}

// ActionPrompt builds the single-shot prompt for an edit action.
func ActionPrompt(action schema.Action, text string) (string, error) {
	instruction, ok := actionInstructions[action]
	if !ok {
		return "", fmt.Errorf("%w: %q", schema.ErrInvalidAction, action)
	}
	return instruction + "\n\n\"" + text + "\"", nil
}
