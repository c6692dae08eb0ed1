package intent

import (
	"strings"

	"github.com/raphaelgruber/aura-go/internal/models"
)

// Result is a classified response: display text plus an optional tool
// directive for the rendering layer.
type Result struct {
	Text string
	Tool *models.ToolCall
}

// promptContext carries the light conversational context used to shape
// response wording. It never influences which branch is selected.
type promptContext struct {
	// recent is the lower-cased text of the last three turns joined with
	// spaces. Pending placeholders contribute empty strings.
	recent string
}

// Classify maps a prompt to a tool directive and response text. It is total
// over all strings: unmatched input falls through to the welcome response.
//
// Matching is lower-cased substring containment against keyword sets in a
// fixed priority order; the first matching rule wins. This intentionally
// reproduces the reference behavior, false positives included ("scarfleet"
// matches the fleet branch).
func Classify(prompt string, history []models.Turn) Result {
	p := strings.ToLower(prompt)
	pc := contextFrom(history)

	switch {
	case containsAny(p, "fleet", "vehicles", "cars"):
		return fleetResult(pc)
	case strings.Contains(p, "add") && containsAny(p, "vehicle", "car"):
		return addVehicleResult()
	case containsAny(p, "service", "maintenance", "repair"):
		return serviceResult(p, pc)
	case containsAny(p, "test drive", "testdrive"):
		return testDriveResult()
	case containsAny(p, "call", "contact", "speak"):
		return callResult()
	case containsAny(p, "details", "specifications", "specs"):
		return detailsResult()
	case strings.Contains(p, "history"):
		return historyResult()
	case containsAny(p, "help", "information", "about"):
		return genericInfoResult()
	default:
		return welcomeResult()
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func contextFrom(history []models.Turn) promptContext {
	start := len(history) - 3
	if start < 0 {
		start = 0
	}
	parts := make([]string, 0, 3)
	for _, t := range history[start:] {
		parts = append(parts, strings.ToLower(t.Text))
	}
	return promptContext{recent: strings.Join(parts, " ")}
}
