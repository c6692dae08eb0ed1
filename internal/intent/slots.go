package intent

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/raphaelgruber/aura-go/internal/models"
)

// SlotGenerator produces bookable appointment slots with simulated
// availability. All pseudo-randomness in the package lives here; the
// classifier itself is deterministic.
type SlotGenerator struct {
	mu   sync.Mutex
	rand *rand.Rand
}

// NewSlotGenerator creates a generator seeded from the wall clock.
func NewSlotGenerator() *SlotGenerator {
	return NewSeededSlotGenerator(time.Now().UnixNano())
}

// NewSeededSlotGenerator creates a generator with a fixed seed, for
// reproducible slot availability in tests.
func NewSeededSlotGenerator(seed int64) *SlotGenerator {
	return &SlotGenerator{rand: rand.New(rand.NewSource(seed))}
}

const (
	slotStartHour   = 9
	slotEndHour     = 17
	slotDurationMin = 30

	// Fraction of slots marked unavailable.
	slotUnavailableRate = 0.3
)

// TimeSlots generates the 30-minute slots between 09:00 and 17:00 for one
// dealer and date. Roughly 70% of slots come back available.
func (g *SlotGenerator) TimeSlots(dealerID, date string) []models.TimeSlot {
	g.mu.Lock()
	defer g.mu.Unlock()

	var slots []models.TimeSlot
	for hour := slotStartHour; hour < slotEndHour; hour++ {
		for minute := 0; minute < 60; minute += slotDurationMin {
			t := fmt.Sprintf("%02d:%02d", hour, minute)
			slots = append(slots, models.TimeSlot{
				ID:        fmt.Sprintf("%s-%s-%s", dealerID, date, t),
				Time:      t,
				Available: g.rand.Float64() > slotUnavailableRate,
				Duration:  slotDurationMin,
				Date:      date,
				DealerID:  dealerID,
			})
		}
	}
	return slots
}

// ServiceRecommendations returns the curated recommendations for a vehicle.
func ServiceRecommendations(vin string) []models.ServiceRecommendation {
	_ = vin // recommendations are canned in the demo dataset
	return []models.ServiceRecommendation{
		{
			ServiceType: ServiceTypes()[0],
			Reason:      "Based on your mileage and last service date",
			Urgency:     "medium",
			NextDue:     "2024-02-15",
		},
		{
			ServiceType: ServiceTypes()[2],
			Reason:      "Battery health is at 85% - recommended for optimal performance",
			Urgency:     "low",
			NextDue:     "2024-01-20",
		},
	}
}

// ServiceTypes returns the bookable service categories.
func ServiceTypes() []models.ServiceType {
	return []models.ServiceType{
		{
			ID:            "routine-maintenance",
			Name:          "Routine Maintenance",
			Description:   "Oil changes, tire rotation, inspections",
			Duration:      120,
			EstimatedCost: models.CostRange{Min: 150, Max: 300},
			Recommended:   true,
			NextDue:       "2024-02-15",
			Available:     true,
			Category:      "maintenance",
		},
		{
			ID:            "software-update",
			Name:          "Software Update",
			Description:   "Latest system improvements and features",
			Duration:      60,
			EstimatedCost: models.CostRange{},
			Available:     true,
			Category:      "software",
		},
		{
			ID:            "battery-service",
			Name:          "Battery Health Check",
			Description:   "Health checks and optimization",
			Duration:      90,
			EstimatedCost: models.CostRange{Min: 100, Max: 200},
			Recommended:   true,
			NextDue:       "2024-01-20",
			Available:     true,
			Category:      "battery",
		},
		{
			ID:            "repair-service",
			Name:          "Repair Services",
			Description:   "Diagnostic and repair work",
			Duration:      180,
			EstimatedCost: models.CostRange{Min: 200, Max: 800},
			Available:     true,
			Category:      "repair",
		},
		{
			ID:            "safety-inspection",
			Name:          "Safety Inspection",
			Description:   "Comprehensive safety and compliance check",
			Duration:      60,
			EstimatedCost: models.CostRange{Min: 80, Max: 150},
			Available:     true,
			Category:      "inspection",
		},
	}
}
