package fleet

import "github.com/raphaelgruber/aura-go/internal/models"

// Demo dataset shown when no persistent backend is configured (and seeded
// into a fresh database when one is).

var demoVehicles = []models.Vehicle{
	{
		ID:       "1",
		VIN:      "JN8AZ13E35T000123",
		Model:    "IE-Sedan",
		ImageURL: "https://images.unsplash.com/photo-1555215695-3004980ad54e?w=400&h=300&fit=crop&crop=center",
	},
	{
		ID:       "2",
		VIN:      "JN8AZ13E35T000456",
		Model:    "IE-SUV",
		ImageURL: "https://images.unsplash.com/photo-1549317336-206569e8475c?w=400&h=300&fit=crop&crop=center",
	},
	{
		ID:       "3",
		VIN:      "JN8AZ13E35T000789",
		Model:    "IE-Apex",
		ImageURL: "https://images.unsplash.com/photo-1503376780353-7e6692767b70?w=400&h=300&fit=crop&crop=center",
	},
}

var demoDetails = map[string]models.VehicleDetails{
	"JN8AZ13E35T000123": {
		Vehicle:         demoVehicles[0],
		SoftwareVersion: "2024.12.5",
		Range:           models.Range{Estimate: 320, Unit: "miles"},
		Battery:         models.Battery{Health: 98, Capacity: 82, Unit: "kWh"},
		Warranty:        models.Warranty{Expires: "2028-10-20", Type: "Full Vehicle"},
	},
	"JN8AZ13E35T000456": {
		Vehicle:         demoVehicles[1],
		SoftwareVersion: "2024.12.2",
		Range:           models.Range{Estimate: 295, Unit: "miles"},
		Battery:         models.Battery{Health: 99, Capacity: 95, Unit: "kWh"},
		Warranty:        models.Warranty{Expires: "2029-01-15", Type: "Full Vehicle"},
	},
	"JN8AZ13E35T000789": {
		Vehicle:         demoVehicles[2],
		SoftwareVersion: "2024.12.8",
		Range:           models.Range{Estimate: 280, Unit: "miles"},
		Battery:         models.Battery{Health: 100, Capacity: 100, Unit: "kWh"},
		Warranty:        models.Warranty{Expires: "2029-03-10", Type: "Full Vehicle"},
	},
}

var demoHistory = map[string][]models.ServiceRecord{
	"JN8AZ13E35T000123": {
		{
			ID: "1", VIN: "JN8AZ13E35T000123", Date: "2023-10-22",
			Service: "Tire Rotation & Balance", Cost: 150,
			Notes: "Checked tire pressure and tread depth. All normal. Recommended next rotation in 6 months.",
		},
		{
			ID: "2", VIN: "JN8AZ13E35T000123", Date: "2023-04-15",
			Service: "Cabin Air Filter Replacement", Cost: 85,
			Notes: "Replaced standard cabin air filter. System functioning optimally.",
		},
		{
			ID: "3", VIN: "JN8AZ13E35T000123", Date: "2022-10-20",
			Service: "Initial Delivery Inspection", Cost: 0,
			Notes: "Vehicle delivered and inspected. All systems checked and functioning properly.",
		},
	},
	"JN8AZ13E35T000456": {
		{
			ID: "1", VIN: "JN8AZ13E35T000456", Date: "2024-01-05",
			Service: "Brake Fluid Check & Top-up", Cost: 120,
			Notes: "Fluid level optimal, no leaks detected. Brake pads at 85% remaining.",
		},
		{
			ID: "2", VIN: "JN8AZ13E35T000456", Date: "2023-07-11",
			Service: "Software Update & Diagnostics", Cost: 0,
			Notes: "Updated to latest software release. Full system diagnostics passed.",
		},
	},
}

var demoDealers = []models.Dealer{
	{
		ID:       "downtown",
		Name:     "IE Downtown",
		Location: "City Center",
		Distance: "2.1 miles",
		Rating:   4.8,
		Services: []string{"maintenance", "software", "battery", "repair"},
	},
	{
		ID:       "westside",
		Name:     "IE Westside",
		Location: "West End",
		Distance: "5.4 miles",
		Rating:   4.6,
		Services: []string{"maintenance", "inspection", "repair"},
	},
	{
		ID:       "airport",
		Name:     "IE Airport",
		Location: "Airport District",
		Distance: "8.9 miles",
		Rating:   4.5,
		Services: []string{"maintenance", "software", "battery"},
	},
}

// Image URLs assigned to newly added vehicles by model class.
const (
	suvImageURL   = "https://images.unsplash.com/photo-1549317336-206569e8475c?w=400&h=300&fit=crop&crop=center"
	sedanImageURL = "https://images.unsplash.com/photo-1555215695-3004980ad54e?w=400&h=300&fit=crop&crop=center"
)
