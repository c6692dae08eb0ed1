// Package intent implements the rule-based concierge: a deterministic
// classifier that maps a free-form prompt to one of a closed set of tool
// directives, plus the response copy and follow-up suggestions each tool
// carries.
package intent

// Tool names recognized by the rendering layer. The set is closed; a
// resolved turn never references a name outside it.
const (
	ToolViewFleet          = "view_fleet"
	ToolAddVehicle         = "add_vehicle"
	ToolBookService        = "book_service"
	ToolBookTestDrive      = "book_test_drive"
	ToolRequestCall        = "request_call"
	ToolViewVehicleDetails = "view_vehicle_details"
	ToolViewServiceHistory = "view_service_history"
	ToolShowGenericInfo    = "show_generic_info"
)

// KnownTool reports whether name is part of the tool vocabulary.
func KnownTool(name string) bool {
	switch name {
	case ToolViewFleet, ToolAddVehicle, ToolBookService, ToolBookTestDrive,
		ToolRequestCall, ToolViewVehicleDetails, ToolViewServiceHistory,
		ToolShowGenericInfo:
		return true
	}
	return false
}

// FollowUpCount is the contractual number of suggested follow-ups every
// tool payload carries.
const FollowUpCount = 3

// DemoVIN is the placeholder VIN used in canned tool payloads.
const DemoVIN = "1HGBH41JXMN109186"
