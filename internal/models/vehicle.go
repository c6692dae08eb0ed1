package models

// Vehicle is one registered vehicle in the user's fleet.
type Vehicle struct {
	ID       string `json:"id"`
	VIN      string `json:"vin"`
	Model    string `json:"model"`
	ImageURL string `json:"image_url"`
}

// Range describes the estimated driving range of a vehicle.
type Range struct {
	Estimate int    `json:"estimate"`
	Unit     string `json:"unit"` // "miles" or "km"
}

// Battery describes battery health and capacity.
type Battery struct {
	Health   int    `json:"health"` // percent
	Capacity int    `json:"capacity"`
	Unit     string `json:"unit"` // "kWh"
}

// Warranty describes warranty coverage for a vehicle.
type Warranty struct {
	Expires string `json:"expires"` // ISO date
	Type    string `json:"type"`
}

// VehicleDetails extends Vehicle with the full specification sheet shown by
// the view_vehicle_details widget.
type VehicleDetails struct {
	Vehicle
	SoftwareVersion string   `json:"software_version"`
	Range           Range    `json:"range"`
	Battery         Battery  `json:"battery"`
	Warranty        Warranty `json:"warranty"`
}

// Dealer is a service center / dealership location.
type Dealer struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Location string   `json:"location"`
	Distance string   `json:"distance"`
	Rating   float64  `json:"rating,omitempty"`
	Services []string `json:"services,omitempty"`
}

// ServiceRecord is one completed service entry in a vehicle's history.
type ServiceRecord struct {
	ID      string  `json:"id"`
	VIN     string  `json:"vin"`
	Date    string  `json:"date"` // ISO date
	Service string  `json:"service"`
	Cost    float64 `json:"cost"`
	Notes   string  `json:"notes"`
}

// CostRange is an estimated cost band for a service type.
type CostRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ServiceType describes one bookable category of service work.
type ServiceType struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Duration      int       `json:"duration"` // minutes
	EstimatedCost CostRange `json:"estimated_cost"`
	Recommended   bool      `json:"recommended"`
	NextDue       string    `json:"next_due,omitempty"`
	Available     bool      `json:"available"`
	Category      string    `json:"category"` // maintenance, software, battery, repair, inspection
}

// TimeSlot is one bookable appointment slot at a dealer.
type TimeSlot struct {
	ID        string `json:"id"`
	Time      string `json:"time"` // "HH:MM"
	Available bool   `json:"available"`
	Duration  int    `json:"duration"` // minutes
	Date      string `json:"date"`
	DealerID  string `json:"dealer_id"`
}

// ServiceRecommendation pairs a service type with the reason it is being
// suggested for a specific vehicle.
type ServiceRecommendation struct {
	ServiceType ServiceType `json:"service_type"`
	Reason      string      `json:"reason"`
	Urgency     string      `json:"urgency"` // low, medium, high, critical
	NextDue     string      `json:"next_due,omitempty"`
}
