package cli

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/raphaelgruber/aura-go/internal/conversation"
	"github.com/raphaelgruber/aura-go/internal/fleet"
	"github.com/raphaelgruber/aura-go/internal/intent"
	"github.com/raphaelgruber/aura-go/internal/models"
)

func widgetModel(t *testing.T) chatModel {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	store := conversation.NewStore()
	manager := conversation.NewManager(store, intent.NewResponder(), logger, conversation.ManagerConfig{})
	m := newChatModel(manager, fleet.NewService(nil, logger))
	t.Cleanup(m.unsub)
	return m
}

func TestRenderWidgetCoversToolVocabulary(t *testing.T) {
	m := widgetModel(t)

	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{intent.ToolViewFleet, map[string]any{}, "IE-Sedan"},
		{intent.ToolAddVehicle, map[string]any{"model": "IE-Sedan", "vin": intent.DemoVIN}, intent.DemoVIN},
		{intent.ToolBookService, map[string]any{"vin": intent.DemoVIN, "urgency": "urgent"}, "urgent"},
		{intent.ToolBookTestDrive, map[string]any{"model": "IE-Apex"}, "IE-Apex"},
		{intent.ToolRequestCall, map[string]any{"topic": "General inquiry"}, "General inquiry"},
		{intent.ToolViewVehicleDetails, map[string]any{"vin": "JN8AZ13E35T000123"}, "IE-Sedan"},
		{intent.ToolViewServiceHistory, map[string]any{"vin": "JN8AZ13E35T000123"}, "Tire Rotation"},
		{intent.ToolShowGenericInfo, map[string]any{"title": "How Can I Help You Today?"}, "How Can I Help You Today?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := m.renderWidget(&models.ToolCall{Name: tt.name, Payload: tt.payload})
			if strings.Contains(out, "unknown tool") {
				t.Fatalf("%s rendered as unknown tool: %q", tt.name, out)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("%s output %q missing %q", tt.name, out, tt.want)
			}
		})
	}
}

func TestRenderWidgetFlagsUnknownTool(t *testing.T) {
	m := widgetModel(t)

	out := m.renderWidget(&models.ToolCall{Name: "open_sunroof", Payload: map[string]any{}})
	if !strings.Contains(out, "unknown tool") {
		t.Errorf("out = %q, want unknown tool marker", out)
	}
}
