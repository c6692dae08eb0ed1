// Package fleet supplies the vehicle fleet, dealers, spec sheets and
// service history the rendering layer resolves tool payloads against. The
// conversation core never reads this data; it only hands out VINs and
// dealer ids for the widgets to look up afterwards.
package fleet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/raphaelgruber/aura-go/internal/db"
	"github.com/raphaelgruber/aura-go/internal/models"
)

// Service provides fleet data, in memory by default and backed by SurrealDB
// when a client is supplied.
type Service struct {
	db     *db.Client
	logger *slog.Logger

	mu       sync.RWMutex
	vehicles []models.Vehicle
	details  map[string]models.VehicleDetails
	history  map[string][]models.ServiceRecord
	dealers  []models.Dealer
}

// NewService creates a fleet service seeded with the demo dataset. The
// database client may be nil for a purely in-memory service.
func NewService(dbClient *db.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		db:      dbClient,
		logger:  logger,
		details: make(map[string]models.VehicleDetails),
		history: make(map[string][]models.ServiceRecord),
	}
	s.seed()
	return s
}

// seed loads the demo dataset into memory.
func (s *Service) seed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles = append([]models.Vehicle(nil), demoVehicles...)
	for vin, d := range demoDetails {
		s.details[vin] = d
	}
	for vin, h := range demoHistory {
		s.history[vin] = append([]models.ServiceRecord(nil), h...)
	}
	s.dealers = append([]models.Dealer(nil), demoDealers...)
}

// SyncToDB pushes the seed dataset into the database if the vehicle table is
// empty, then reloads the fleet from it. No-op without a database client.
func (s *Service) SyncToDB(ctx context.Context) error {
	if s.db == nil {
		return nil
	}

	count, err := s.db.CountVehicles(ctx)
	if err != nil {
		return fmt.Errorf("count vehicles: %w", err)
	}

	if count == 0 {
		s.logger.Info("seeding fleet database")
		s.mu.RLock()
		vehicles := append([]models.Vehicle(nil), s.vehicles...)
		details := make([]models.VehicleDetails, 0, len(s.details))
		for _, d := range s.details {
			details = append(details, d)
		}
		var records []models.ServiceRecord
		for _, h := range s.history {
			records = append(records, h...)
		}
		dealers := append([]models.Dealer(nil), s.dealers...)
		s.mu.RUnlock()

		for _, v := range vehicles {
			if err := s.db.UpsertVehicle(ctx, v); err != nil {
				return err
			}
		}
		for _, d := range details {
			if err := s.db.UpsertVehicleDetails(ctx, d); err != nil {
				return err
			}
		}
		for _, r := range records {
			if err := s.db.AddServiceRecord(ctx, r); err != nil {
				return err
			}
		}
		for _, d := range dealers {
			if err := s.db.UpsertDealer(ctx, d); err != nil {
				return err
			}
		}
	}

	vehicles, err := s.db.ListVehicles(ctx)
	if err != nil {
		return fmt.Errorf("reload fleet: %w", err)
	}
	s.mu.Lock()
	s.vehicles = vehicles
	s.mu.Unlock()

	return nil
}

// Vehicles returns the current fleet.
func (s *Service) Vehicles(ctx context.Context) []models.Vehicle {
	if s.db != nil {
		if vehicles, err := s.db.ListVehicles(ctx); err == nil {
			return vehicles
		} else {
			s.logger.Warn("fleet query failed, serving cached data", "error", err)
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Vehicle(nil), s.vehicles...)
}

// AddVehicle registers a new vehicle. The image is chosen by model class.
func (s *Service) AddVehicle(ctx context.Context, model, vin string) (models.Vehicle, error) {
	image := sedanImageURL
	if strings.Contains(strings.ToLower(model), "suv") {
		image = suvImageURL
	}

	s.mu.Lock()
	v := models.Vehicle{
		ID:       fmt.Sprintf("%d", len(s.vehicles)+1),
		VIN:      vin,
		Model:    model,
		ImageURL: image,
	}
	s.vehicles = append(s.vehicles, v)
	s.mu.Unlock()

	if s.db != nil {
		if err := s.db.UpsertVehicle(ctx, v); err != nil {
			return v, fmt.Errorf("persist vehicle: %w", err)
		}
	}

	s.logger.Info("vehicle added", "model", model, "vin", vin)
	return v, nil
}

// Details returns the spec sheet for a VIN, or nil if unknown.
func (s *Service) Details(ctx context.Context, vin string) *models.VehicleDetails {
	if s.db != nil {
		if d, err := s.db.GetVehicleDetails(ctx, vin); err == nil && d != nil {
			return d
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.details[vin]; ok {
		return &d
	}
	return nil
}

// History returns the service records for a VIN, newest first.
func (s *Service) History(ctx context.Context, vin string) []models.ServiceRecord {
	if s.db != nil {
		if records, err := s.db.ListServiceRecords(ctx, vin); err == nil && len(records) > 0 {
			return records
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ServiceRecord(nil), s.history[vin]...)
}

// Dealers returns the service center list.
func (s *Service) Dealers(ctx context.Context) []models.Dealer {
	if s.db != nil {
		if dealers, err := s.db.ListDealers(ctx); err == nil && len(dealers) > 0 {
			return dealers
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Dealer(nil), s.dealers...)
}
