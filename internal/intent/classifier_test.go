package intent

import (
	"strings"
	"testing"

	"github.com/raphaelgruber/aura-go/internal/models"
)

func TestClassifyBranchSelection(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		tool   string
	}{
		{"fleet keyword", "show my fleet", ToolViewFleet},
		{"vehicles keyword", "what vehicles do I have", ToolViewFleet},
		{"cars keyword", "list my cars please", ToolViewFleet},
		{"substring false positive", "my scarfleet is great", ToolViewFleet},
		{"add vehicle", "add a vehicle", ToolAddVehicle},
		{"add car", "I want to add a car", ToolAddVehicle},
		{"service", "book a service", ToolBookService},
		{"maintenance", "schedule maintenance soon", ToolBookService},
		{"repair", "I need a repair", ToolBookService},
		{"test drive", "book a test drive", ToolBookTestDrive},
		{"testdrive one word", "testdrive the apex", ToolBookTestDrive},
		{"call", "please call me", ToolRequestCall},
		{"contact", "how do I contact support", ToolRequestCall},
		{"speak", "I want to speak with someone", ToolRequestCall},
		{"details", "show me the details", ToolViewVehicleDetails},
		{"specs", "what are the specs", ToolViewVehicleDetails},
		{"history", "show my history", ToolViewServiceHistory},
		{"help", "help", ToolShowGenericInfo},
		{"about", "tell me about this app", ToolShowGenericInfo},
		{"unmatched", "what a lovely day", ToolShowGenericInfo},
		{"empty prompt", "", ToolShowGenericInfo},
		{"uppercase", "SHOW MY FLEET", ToolViewFleet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.prompt, nil)
			if result.Tool == nil {
				t.Fatal("Classify returned nil tool")
			}
			if result.Tool.Name != tt.tool {
				t.Errorf("Classify(%q) = %q, want %q", tt.prompt, result.Tool.Name, tt.tool)
			}
		})
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// When multiple keyword sets match, the earlier branch wins.
	tests := []struct {
		prompt string
		tool   string
	}{
		{"show my fleet and book a service", ToolViewFleet},
		{"add a vehicle to my fleet", ToolViewFleet},
		{"service history", ToolBookService},
		{"call about a test drive", ToolBookTestDrive},
		{"details about my history", ToolViewVehicleDetails},
	}

	for _, tt := range tests {
		result := Classify(tt.prompt, nil)
		if result.Tool.Name != tt.tool {
			t.Errorf("Classify(%q) = %q, want %q", tt.prompt, result.Tool.Name, tt.tool)
		}
	}
}

func TestClassifyIsTotal(t *testing.T) {
	// Any string yields a non-empty text and a known tool.
	prompts := []string{
		"",
		" ",
		"!!!",
		strings.Repeat("x", 10000),
		"héllo wörld",
		"\n\t",
	}

	for _, p := range prompts {
		result := Classify(p, nil)
		if result.Text == "" {
			t.Errorf("Classify(%q) returned empty text", p)
		}
		if result.Tool == nil || !KnownTool(result.Tool.Name) {
			t.Errorf("Classify(%q) returned unknown tool", p)
		}
	}
}

func TestClassifyFollowUpCount(t *testing.T) {
	// Every branch carries exactly three suggested follow-ups.
	prompts := []string{
		"fleet", "add a car", "service", "test drive", "call me",
		"details", "history", "help", "unmatched gibberish",
	}

	for _, p := range prompts {
		result := Classify(p, nil)
		followUps := result.Tool.SuggestedFollowUps()
		if len(followUps) != FollowUpCount {
			t.Errorf("Classify(%q): got %d follow-ups, want %d", p, len(followUps), FollowUpCount)
		}
		for _, f := range followUps {
			if f == "" {
				t.Errorf("Classify(%q): empty follow-up", p)
			}
		}
	}
}

func TestContextShapesWordingNotBranch(t *testing.T) {
	addHistory := []models.Turn{
		{ID: "t-1", Sender: models.SenderUser, Text: "add a vehicle"},
		{ID: "t-2", Sender: models.SenderAgent, Text: "done"},
	}

	// Same branch with and without context.
	plain := Classify("show my fleet", nil)
	shaped := Classify("show my fleet", addHistory)
	if plain.Tool.Name != shaped.Tool.Name {
		t.Errorf("context changed branch: %q vs %q", plain.Tool.Name, shaped.Tool.Name)
	}

	// Wording differs: recent "add" bumps the displayed count.
	if !strings.Contains(plain.Text, "2 vehicles") {
		t.Errorf("expected 2 vehicles without add context, got: %s", plain.Text)
	}
	if !strings.Contains(shaped.Text, "3 vehicles") {
		t.Errorf("expected 3 vehicles with add context, got: %s", shaped.Text)
	}
	if !strings.Contains(shaped.Text, "IE-Apex") {
		t.Error("expected IE-Apex line with add context")
	}
}

func TestContextWindowIsLastThreeTurns(t *testing.T) {
	// "add" only in the fourth-from-last turn: outside the window.
	history := []models.Turn{
		{ID: "t-1", Sender: models.SenderUser, Text: "add a vehicle"},
		{ID: "t-2", Sender: models.SenderAgent, Text: "done"},
		{ID: "t-3", Sender: models.SenderUser, Text: "thanks"},
		{ID: "t-4", Sender: models.SenderAgent, Text: "welcome"},
	}

	result := Classify("show my fleet", history)
	if !strings.Contains(result.Text, "2 vehicles") {
		t.Errorf("add outside window should not bump count, got: %s", result.Text)
	}
}

func TestServiceUrgency(t *testing.T) {
	routine := Classify("book a service", nil)
	if routine.Tool.Payload["urgency"] != "routine" {
		t.Errorf("expected routine urgency, got %v", routine.Tool.Payload["urgency"])
	}

	urgent := Classify("urgent repair needed", nil)
	if urgent.Tool.Payload["urgency"] != "urgent" {
		t.Errorf("expected urgent urgency, got %v", urgent.Tool.Payload["urgency"])
	}

	emergency := Classify("emergency maintenance", nil)
	if emergency.Tool.Payload["urgency"] != "urgent" {
		t.Errorf("expected urgent urgency for emergency, got %v", emergency.Tool.Payload["urgency"])
	}
}

func TestServiceVehicleWording(t *testing.T) {
	sedanHistory := []models.Turn{
		{ID: "t-1", Sender: models.SenderUser, Text: "tell me about my sedan"},
	}
	result := Classify("book a service", sedanHistory)
	if !strings.Contains(result.Text, "IE-Sedan") {
		t.Errorf("expected IE-Sedan wording, got: %s", result.Text)
	}

	result = Classify("book a service", nil)
	if !strings.Contains(result.Text, "your vehicle") {
		t.Errorf("expected generic wording, got: %s", result.Text)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		a := Classify("book a test drive", nil)
		b := Classify("book a test drive", nil)
		if a.Text != b.Text || a.Tool.Name != b.Tool.Name {
			t.Fatal("Classify is not deterministic")
		}
	}
}

func TestAddVehiclePayload(t *testing.T) {
	result := Classify("add a new car", nil)
	if result.Tool.Payload["vin"] != DemoVIN {
		t.Errorf("expected demo VIN, got %v", result.Tool.Payload["vin"])
	}
	if result.Tool.Payload["model"] == "" {
		t.Error("expected a model in the payload")
	}
}

func TestGenericInfoPayload(t *testing.T) {
	result := Classify("help", nil)
	title, _ := result.Tool.Payload["title"].(string)
	content, _ := result.Tool.Payload["content"].(string)
	if title == "" || content == "" {
		t.Error("show_generic_info payload needs title and content")
	}

	// The welcome catch-all uses a different title.
	welcome := Classify("zzz", nil)
	welcomeTitle, _ := welcome.Tool.Payload["title"].(string)
	if welcomeTitle == title {
		t.Error("welcome and help should carry distinct titles")
	}
}
