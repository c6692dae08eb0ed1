package db

import (
	"context"
	"fmt"
	"time"

	"github.com/raphaelgruber/aura-go/internal/metrics"
	"github.com/raphaelgruber/aura-go/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// vehicleRow is the vehicle table shape.
type vehicleRow struct {
	VIN      string `json:"vin"`
	Model    string `json:"model"`
	ImageURL string `json:"image_url,omitempty"`
}

// detailsRow is the vehicle_details table shape (flattened spec sheet).
type detailsRow struct {
	VIN             string `json:"vin"`
	Model           string `json:"model"`
	ImageURL        string `json:"image_url,omitempty"`
	SoftwareVersion string `json:"software_version"`
	RangeEstimate   int    `json:"range_estimate"`
	RangeUnit       string `json:"range_unit"`
	BatteryHealth   int    `json:"battery_health"`
	BatteryCapacity int    `json:"battery_capacity"`
	WarrantyExpires string `json:"warranty_expires"`
	WarrantyType    string `json:"warranty_type"`
}

// ConversationSummary is one archived transcript header.
type ConversationSummary struct {
	ID        surrealmodels.RecordID `json:"id"`
	Title     string                 `json:"title"`
	TurnCount int                    `json:"turn_count"`
	Created   time.Time              `json:"created"`
}

// UpsertVehicle writes a vehicle keyed by VIN.
func (c *Client) UpsertVehicle(ctx context.Context, v models.Vehicle) error {
	defer c.recordTiming(metrics.OpDBWrite, time.Now())

	_, err := surrealdb.Query[any](ctx, c.db, `
		UPSERT type::thing("vehicle", $vin) SET
			vin = $vin,
			model = $model,
			image_url = $image_url
	`, map[string]any{
		"vin":       v.VIN,
		"model":     v.Model,
		"image_url": v.ImageURL,
	})
	if err != nil {
		return fmt.Errorf("upsert vehicle: %w", err)
	}
	return nil
}

// ListVehicles returns the fleet ordered by creation time.
func (c *Client) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	defer c.recordTiming(metrics.OpDBQuery, time.Now())

	results, err := surrealdb.Query[[]vehicleRow](ctx, c.db, `
		SELECT vin, model, image_url FROM vehicle ORDER BY created ASC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return []models.Vehicle{}, nil
	}

	rows := (*results)[0].Result
	out := make([]models.Vehicle, 0, len(rows))
	for i, r := range rows {
		out = append(out, models.Vehicle{
			ID:       fmt.Sprintf("%d", i+1),
			VIN:      r.VIN,
			Model:    r.Model,
			ImageURL: r.ImageURL,
		})
	}
	return out, nil
}

// CountVehicles returns the number of registered vehicles.
func (c *Client) CountVehicles(ctx context.Context) (int, error) {
	defer c.recordTiming(metrics.OpDBQuery, time.Now())

	results, err := surrealdb.Query[[]struct {
		Count int `json:"count"`
	}](ctx, c.db, `SELECT count() AS count FROM vehicle GROUP ALL`, nil)
	if err != nil {
		return 0, fmt.Errorf("count vehicles: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0].Count, nil
}

// UpsertVehicleDetails writes the spec sheet for a VIN.
func (c *Client) UpsertVehicleDetails(ctx context.Context, d models.VehicleDetails) error {
	defer c.recordTiming(metrics.OpDBWrite, time.Now())

	_, err := surrealdb.Query[any](ctx, c.db, `
		UPSERT type::thing("vehicle_details", $vin) SET
			vin = $vin,
			model = $model,
			image_url = $image_url,
			software_version = $software_version,
			range_estimate = $range_estimate,
			range_unit = $range_unit,
			battery_health = $battery_health,
			battery_capacity = $battery_capacity,
			warranty_expires = $warranty_expires,
			warranty_type = $warranty_type
	`, map[string]any{
		"vin":              d.VIN,
		"model":            d.Model,
		"image_url":        d.ImageURL,
		"software_version": d.SoftwareVersion,
		"range_estimate":   d.Range.Estimate,
		"range_unit":       d.Range.Unit,
		"battery_health":   d.Battery.Health,
		"battery_capacity": d.Battery.Capacity,
		"warranty_expires": d.Warranty.Expires,
		"warranty_type":    d.Warranty.Type,
	})
	if err != nil {
		return fmt.Errorf("upsert vehicle details: %w", err)
	}
	return nil
}

// GetVehicleDetails returns the spec sheet for a VIN, or nil if absent.
func (c *Client) GetVehicleDetails(ctx context.Context, vin string) (*models.VehicleDetails, error) {
	defer c.recordTiming(metrics.OpDBQuery, time.Now())

	results, err := surrealdb.Query[[]detailsRow](ctx, c.db, `
		SELECT * FROM type::thing("vehicle_details", $vin)
	`, map[string]any{"vin": vin})
	if err != nil {
		return nil, fmt.Errorf("get vehicle details: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}

	r := (*results)[0].Result[0]
	return &models.VehicleDetails{
		Vehicle: models.Vehicle{
			VIN:      r.VIN,
			Model:    r.Model,
			ImageURL: r.ImageURL,
		},
		SoftwareVersion: r.SoftwareVersion,
		Range:           models.Range{Estimate: r.RangeEstimate, Unit: r.RangeUnit},
		Battery:         models.Battery{Health: r.BatteryHealth, Capacity: r.BatteryCapacity, Unit: "kWh"},
		Warranty:        models.Warranty{Expires: r.WarrantyExpires, Type: r.WarrantyType},
	}, nil
}

// UpsertDealer writes a dealer keyed by its id.
func (c *Client) UpsertDealer(ctx context.Context, d models.Dealer) error {
	defer c.recordTiming(metrics.OpDBWrite, time.Now())

	_, err := surrealdb.Query[any](ctx, c.db, `
		UPSERT type::thing("dealer", $id) SET
			name = $name,
			location = $location,
			distance = $distance,
			rating = $rating,
			services = $services
	`, map[string]any{
		"id":       d.ID,
		"name":     d.Name,
		"location": d.Location,
		"distance": d.Distance,
		"rating":   d.Rating,
		"services": d.Services,
	})
	if err != nil {
		return fmt.Errorf("upsert dealer: %w", err)
	}
	return nil
}

// ListDealers returns all service centers.
func (c *Client) ListDealers(ctx context.Context) ([]models.Dealer, error) {
	defer c.recordTiming(metrics.OpDBQuery, time.Now())

	results, err := surrealdb.Query[[]models.Dealer](ctx, c.db, `
		SELECT meta::id(id) AS id, name, location, distance, rating, services
		FROM dealer ORDER BY name ASC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list dealers: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return []models.Dealer{}, nil
	}
	return (*results)[0].Result, nil
}

// AddServiceRecord appends one service history entry.
func (c *Client) AddServiceRecord(ctx context.Context, r models.ServiceRecord) error {
	defer c.recordTiming(metrics.OpDBWrite, time.Now())

	_, err := surrealdb.Query[any](ctx, c.db, `
		CREATE service_record SET
			vin = $vin,
			date = $date,
			service = $service,
			cost = $cost,
			notes = $notes
	`, map[string]any{
		"vin":     r.VIN,
		"date":    r.Date,
		"service": r.Service,
		"cost":    r.Cost,
		"notes":   r.Notes,
	})
	if err != nil {
		return fmt.Errorf("add service record: %w", err)
	}
	return nil
}

// ListServiceRecords returns a vehicle's history, newest first.
func (c *Client) ListServiceRecords(ctx context.Context, vin string) ([]models.ServiceRecord, error) {
	defer c.recordTiming(metrics.OpDBQuery, time.Now())

	results, err := surrealdb.Query[[]models.ServiceRecord](ctx, c.db, `
		SELECT meta::id(id) AS id, vin, date, service, cost, notes
		FROM service_record WHERE vin = $vin ORDER BY date DESC
	`, map[string]any{"vin": vin})
	if err != nil {
		return nil, fmt.Errorf("list service records: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return []models.ServiceRecord{}, nil
	}
	return (*results)[0].Result, nil
}

// SaveTranscript archives a finished conversation with all of its turns.
func (c *Client) SaveTranscript(ctx context.Context, title string, turns []models.Turn) error {
	defer c.recordTiming(metrics.OpDBWrite, time.Now())

	results, err := surrealdb.Query[[]ConversationSummary](ctx, c.db, `
		CREATE conversation SET title = $title, turn_count = $turn_count
	`, map[string]any{
		"title":      title,
		"turn_count": len(turns),
	})
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return fmt.Errorf("create conversation: empty result")
	}
	convID := (*results)[0].Result[0].ID

	for i, t := range turns {
		vars := map[string]any{
			"conversation": convID,
			"seq":          i,
			"sender":       string(t.Sender),
			"text":         t.Text,
			"tool_name":    nil,
			"tool_payload": nil,
			"error":        nil,
		}
		if t.Tool != nil {
			vars["tool_name"] = t.Tool.Name
			vars["tool_payload"] = t.Tool.Payload
		}
		if t.Error != "" {
			vars["error"] = t.Error
		}
		_, err := surrealdb.Query[any](ctx, c.db, `
			CREATE turn SET
				conversation = $conversation,
				seq = $seq,
				sender = $sender,
				text = $text,
				tool_name = $tool_name,
				tool_payload = $tool_payload,
				error = $error
		`, vars)
		if err != nil {
			return fmt.Errorf("create turn %d: %w", i, err)
		}
	}
	return nil
}

// ListConversations returns archived transcript headers, newest first.
func (c *Client) ListConversations(ctx context.Context) ([]ConversationSummary, error) {
	defer c.recordTiming(metrics.OpDBQuery, time.Now())

	results, err := surrealdb.Query[[]ConversationSummary](ctx, c.db, `
		SELECT * FROM conversation ORDER BY created DESC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return []ConversationSummary{}, nil
	}
	return (*results)[0].Result, nil
}
