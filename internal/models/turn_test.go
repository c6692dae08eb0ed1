package models

import "testing"

func TestPending(t *testing.T) {
	tests := []struct {
		name string
		turn Turn
		want bool
	}{
		{"empty agent turn", Turn{Sender: SenderAgent}, true},
		{"agent turn with text", Turn{Sender: SenderAgent, Text: "hi"}, false},
		{"agent turn with tool", Turn{Sender: SenderAgent, Tool: &ToolCall{Name: "view_fleet"}}, false},
		{"agent turn with error", Turn{Sender: SenderAgent, Error: "Request cancelled."}, false},
		{"user turn", Turn{Sender: SenderUser}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.turn.Pending(); got != tt.want {
				t.Errorf("Pending() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSuggestedFollowUps(t *testing.T) {
	tests := []struct {
		name string
		tool *ToolCall
		want int
	}{
		{"nil tool", nil, 0},
		{"nil payload", &ToolCall{Name: "view_fleet"}, 0},
		{
			"string slice",
			&ToolCall{Payload: map[string]any{"suggestedFollowUps": []string{"a", "b", "c"}}},
			3,
		},
		{
			// JSON decoding produces []any, not []string.
			"any slice",
			&ToolCall{Payload: map[string]any{"suggestedFollowUps": []any{"a", "b", "c"}}},
			3,
		},
		{
			"any slice with non-strings skipped",
			&ToolCall{Payload: map[string]any{"suggestedFollowUps": []any{"a", 42, "b"}}},
			2,
		},
		{
			"wrong type",
			&ToolCall{Payload: map[string]any{"suggestedFollowUps": "not a list"}},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tool.SuggestedFollowUps()
			if len(got) != tt.want {
				t.Errorf("got %d follow-ups, want %d", len(got), tt.want)
			}
		})
	}
}
