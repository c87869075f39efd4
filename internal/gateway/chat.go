package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/review-analyzer/internal/prompts"
	"github.com/jonathan/review-analyzer/internal/types"
)

// ChatContext builds the system instruction grounding the assistant in one
// analysis: the structured result without its source text, followed by the
// source text verbatim.
func ChatContext(result *types.EvaluationResult) (string, error) {
	if result == nil {
		return "", fmt.Errorf("chat context: no analysis")
	}

	structured, err := json.MarshalIndent(result.WithoutRawText(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("chat context: %w", err)
	}

	rawText := result.RawText
	if rawText == "" {
		rawText, err = prompts.Get(prompts.ChatFile, "missing-raw-text")
		if err != nil {
			return "", err
		}
	}

	return prompts.Render(prompts.ChatFile, "system-instruction", map[string]string{
		"Analysis": string(structured),
		"RawText":  rawText,
	})
}

// Greeting is the assistant's opening message for a collaborator.
func Greeting(name string) string {
	out, err := prompts.Render(prompts.ChatFile, "greeting", map[string]string{"Name": name})
	if err != nil {
		return "Hola, soy tu asistente de IA."
	}
	return out
}
