package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/raphaelgruber/aura-go/internal/intent"
	"github.com/raphaelgruber/aura-go/internal/models"
)

const systemPreamble = `You are Aura, the concierge assistant for IE electric vehicles.
Answer the customer's message concisely in Markdown.`

// historyWindow caps how many prior turns are included in the prompt.
const historyWindow = 10

// Responder generates response text with an LLM while keeping tool selection
// on the deterministic classifier, so the tool contract (known names, three
// follow-ups) holds regardless of model output.
type Responder struct {
	model *Model
}

// NewResponder creates an LLM-backed responder.
func NewResponder(model *Model) *Responder {
	return &Responder{model: model}
}

// Respond classifies the prompt for its tool directive, then replaces the
// canned text with a model completion. Generation failures fall through to
// the caller and become turn-level errors.
func (r *Responder) Respond(ctx context.Context, prompt string, history []models.Turn, att *models.Attachment) (intent.Result, error) {
	result := intent.Classify(prompt, history)

	var sb strings.Builder
	sb.WriteString(systemPreamble)
	sb.WriteString("\n\n")

	start := len(history) - historyWindow
	if start < 0 {
		start = 0
	}
	for _, t := range history[start:] {
		if t.Text == "" {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", t.Sender, t.Text)
	}
	if att != nil {
		fmt.Fprintf(&sb, "(the customer attached a %s file)\n", att.MimeType)
	}
	fmt.Fprintf(&sb, "user: %s\nagent:", prompt)

	text, err := r.model.Generate(ctx, sb.String())
	if err != nil {
		return intent.Result{}, err
	}
	if strings.TrimSpace(text) != "" {
		result.Text = text
	}
	return result, nil
}
