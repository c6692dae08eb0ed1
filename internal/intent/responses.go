package intent

import (
	"fmt"
	"strings"

	"github.com/raphaelgruber/aura-go/internal/models"
)

// toolCall builds a ToolCall whose payload always carries the three
// suggested follow-ups plus any extra fields.
func toolCall(name string, followUps [FollowUpCount]string, extra map[string]any) *models.ToolCall {
	payload := map[string]any{
		"suggestedFollowUps": followUps[:],
	}
	for k, v := range extra {
		payload[k] = v
	}
	return &models.ToolCall{Name: name, Payload: payload}
}

func fleetResult(pc promptContext) Result {
	// An earlier add_vehicle interaction bumps the displayed count.
	count := 2
	apexLine := ""
	if strings.Contains(pc.recent, "add") {
		count = 3
		apexLine = "\n- **IE-Apex** - High-performance sports model"
	}

	text := fmt.Sprintf(`## Your Vehicle Fleet

I'll show you your current vehicle fleet. You currently have **%d vehicles** registered:

- **IE-Sedan** - Premium electric sedan with 320-mile range
- **IE-SUV** - Versatile electric SUV with towing capability%s

Each vehicle is equipped with our latest technology and is ready for your next adventure!`, count, apexLine)

	return Result{
		Text: text,
		Tool: toolCall(ToolViewFleet, [FollowUpCount]string{
			"Show me details for my IE-Sedan",
			"Book a service appointment for my SUV",
			"Add another vehicle to my fleet",
		}, nil),
	}
}

func addVehicleResult() Result {
	text := `## Add New Vehicle

I'll help you add a new vehicle to your fleet!

**To get started, I'll need:**
- Vehicle model (e.g., IE-Sedan, IE-SUV, IE-Apex)
- 17-digit VIN number

**Available Models**
- **IE-Sedan** - Premium electric sedan with 320-mile range
- **IE-SUV** - Versatile electric SUV with towing capability
- **IE-Apex** - High-performance sports model with track mode

Once added, you'll be able to manage service appointments, view specifications, track maintenance history, and access warranty information.

**Ready to add your vehicle?**`

	return Result{
		Text: text,
		Tool: toolCall(ToolAddVehicle, [FollowUpCount]string{
			"View my updated fleet",
			"Set up service for this new vehicle",
			"Schedule a test drive for another model",
		}, map[string]any{
			"model": "IE-Sedan",
			"vin":   DemoVIN,
		}),
	}
}

func serviceResult(prompt string, pc promptContext) Result {
	urgency := "routine"
	if containsAny(prompt, "urgent", "emergency") {
		urgency = "urgent"
	}
	vehicle := "your vehicle"
	switch {
	case strings.Contains(pc.recent, "sedan"):
		vehicle = "IE-Sedan"
	case strings.Contains(pc.recent, "suv"):
		vehicle = "IE-SUV"
	}

	text := fmt.Sprintf("I'll help you book a **%s** service appointment for %s. Let me set up the booking form for you.", urgency, vehicle)

	return Result{
		Text: text,
		Tool: toolCall(ToolBookService, [FollowUpCount]string{
			"Check my service history",
			"View my vehicle details",
			"Request a callback from service team",
		}, map[string]any{
			"vin":     DemoVIN,
			"urgency": urgency,
		}),
	}
}

func testDriveResult() Result {
	text := `## Test Drive Booking

I'll help you book a test drive for one of our vehicles!

**Available Models for Test Drive**
- **IE-Sedan** - Premium electric sedan with 320-mile range
- **IE-SUV** - Versatile electric SUV with towing capability
- **IE-Apex** - High-performance sports model with 0-60 in 3.2s

**Test Drive Experience**
- **Duration:** 30-45 minutes
- **Location:** Your choice of dealership
- **Instructor:** Certified IE specialist

**Which model interests you most?**`

	return Result{
		Text: text,
		Tool: toolCall(ToolBookTestDrive, [FollowUpCount]string{
			"Compare different models",
			"Learn about financing options",
			"Schedule a virtual consultation",
		}, map[string]any{
			"model": "IE-Sedan",
		}),
	}
}

func callResult() Result {
	text := `## Request a Callback

I'll help you request a callback from our expert team!

**Our Specialists Can Help With:**
- **Sales Questions** - Model comparisons, pricing, financing
- **Service Support** - Maintenance, repairs, warranty
- **Technical Assistance** - Software updates, troubleshooting

**Callback Details:**
- **Response Time:** Within 2 hours during business hours
- **Duration:** 15-30 minutes based on your needs

**What would you like to discuss?**`

	return Result{
		Text: text,
		Tool: toolCall(ToolRequestCall, [FollowUpCount]string{
			"Book a service appointment",
			"Schedule a test drive",
			"Learn about vehicle features",
		}, map[string]any{
			"topic": "General inquiry",
		}),
	}
}

func detailsResult() Result {
	text := `## Vehicle Details

I'll show you the detailed information for your vehicle!

**Your IE-Sedan Specifications:**
- **Model:** IE-Sedan Premium
- **VIN:** ` + DemoVIN + `
- **Software Version:** 2024.12.5 (Latest)

**Performance & Range:**
- **Range:** 320 miles (estimated)
- **Battery Health:** 98% (Excellent)
- **Battery Capacity:** 82 kWh

**Warranty:** Full Vehicle, expires October 20, 2028

Your vehicle is in excellent condition and running the latest software!`

	return Result{
		Text: text,
		Tool: toolCall(ToolViewVehicleDetails, [FollowUpCount]string{
			"Check my service history",
			"Book a maintenance appointment",
			"Learn about software updates",
		}, map[string]any{
			"vin": DemoVIN,
		}),
	}
}

func historyResult() Result {
	text := `## Service History

I'll show you the complete service history for your vehicle!

**Your IE-Sedan Service Record:**
- **Total Services:** 3 completed
- **Last Service:** October 22, 2023
- **Next Recommended:** April 2024

**Recent Service History:**
- **Oct 22, 2023** - Tire Rotation & Balance ($150)
- **Apr 15, 2023** - Cabin Air Filter Replacement ($85)
- **Oct 20, 2022** - Initial Delivery Inspection ($0)

Your vehicle has been well-maintained with regular service intervals!`

	return Result{
		Text: text,
		Tool: toolCall(ToolViewServiceHistory, [FollowUpCount]string{
			"Schedule my next service",
			"View vehicle details",
			"Get maintenance reminders",
		}, map[string]any{
			"vin": DemoVIN,
		}),
	}
}

func genericInfoResult() Result {
	text := `## Welcome to IE Vehicle Concierge

I'm **Aura**, your AI assistant for IE electric vehicles!`

	content := `## IE Vehicle Concierge Services

Here's what I can help you with:

**Fleet Management** - View your fleet, add vehicles, manage vehicle information.

**Service & Maintenance** - Book appointments, view service history, schedule routine maintenance.

**Test Drives & Sales** - Schedule test drives, compare models, connect with sales specialists.

**Vehicle Information** - Specifications, software versions, battery health, warranty.

**Support & Assistance** - Request callbacks, technical support, general inquiries.

**What would you like to do today?**`

	return Result{
		Text: text,
		Tool: toolCall(ToolShowGenericInfo, [FollowUpCount]string{
			"Show me my vehicle fleet",
			"Book a service appointment",
			"Schedule a test drive",
		}, map[string]any{
			"title":   "How Can I Help You Today?",
			"content": content,
		}),
	}
}

// welcomeResult is the unconditional catch-all for unmatched input,
// including the empty string.
func welcomeResult() Result {
	text := `## Hello! I'm Aura

Your **IE Vehicle Concierge** AI assistant!`

	content := `## How Can I Help You Today?

**Quick Actions**
- **View Fleet** - See your current vehicles
- **Book Service** - Schedule maintenance appointments
- **Test Drive** - Try out new IE models
- **Get Support** - Connect with our team

**What would you like to do first?**`

	return Result{
		Text: text,
		Tool: toolCall(ToolShowGenericInfo, [FollowUpCount]string{
			"View my vehicle fleet",
			"Book a service appointment",
			"Schedule a test drive",
		}, map[string]any{
			"title":   "Welcome to IE Vehicle Concierge",
			"content": content,
		}),
	}
}
