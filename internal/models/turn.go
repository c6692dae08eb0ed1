package models

import "time"

// Sender identifies which side of the conversation authored a turn.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

// ToolCall is a structured directive attached to an agent turn. The name
// selects which widget the rendering layer shows; the payload shape depends
// on the name.
type ToolCall struct {
	Name    string         `json:"name"`
	Payload map[string]any `json:"payload,omitempty"`
}

// SuggestedFollowUps returns the quick-reply prompts carried in the payload,
// or nil if the payload has none.
func (t *ToolCall) SuggestedFollowUps() []string {
	if t == nil || t.Payload == nil {
		return nil
	}
	switch v := t.Payload["suggestedFollowUps"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, s := range v {
			if str, ok := s.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// Turn represents a single message in the conversation history.
// An agent turn starts out as an empty placeholder and is later patched in
// place with the response, an error, or a cancellation notice.
type Turn struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Tool      *ToolCall `json:"tool,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Pending reports whether an agent turn is still the empty placeholder
// awaiting its response.
func (t *Turn) Pending() bool {
	return t.Sender == SenderAgent && t.Text == "" && t.Tool == nil && t.Error == ""
}

// Attachment is a base64-encoded file included with a user prompt.
type Attachment struct {
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
}
