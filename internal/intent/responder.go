package intent

import (
	"context"

	"github.com/raphaelgruber/aura-go/internal/models"
)

// Responder adapts the pure classifier to the conversation manager's
// responder contract. It never returns an error; classification is total.
type Responder struct{}

// NewResponder creates the default rule-based responder.
func NewResponder() *Responder {
	return &Responder{}
}

// Respond classifies the prompt against the conversation history. The
// attachment is accepted for contract parity but does not influence branch
// selection.
func (r *Responder) Respond(ctx context.Context, prompt string, history []models.Turn, att *models.Attachment) (Result, error) {
	_ = ctx
	_ = att
	return Classify(prompt, history), nil
}
