package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sproutyapp/server/domain/entities"
	"github.com/sproutyapp/server/domain/repositories"
)

// TelemetryService turns one accepted sensor reading into a persisted
// health state plus its side effects. Each reading is an independent unit
// of work; no state is held across calls.
type TelemetryService struct {
	plants   repositories.PlantRepository
	species  repositories.SpeciesRepository
	history  repositories.HistoryRepository
	notifier *Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewTelemetryService creates a new telemetry service. now may be nil for
// the wall clock.
func NewTelemetryService(
	plants repositories.PlantRepository,
	species repositories.SpeciesRepository,
	history repositories.HistoryRepository,
	notifier *Notifier,
	logger *zap.Logger,
	now func() time.Time,
) *TelemetryService {
	if now == nil {
		now = time.Now
	}
	return &TelemetryService{
		plants:   plants,
		species:  species,
		history:  history,
		notifier: notifier,
		logger:   logger,
		now:      now,
	}
}

// ProcessReading resolves the reading to its plant, reclassifies health,
// persists the result and fires the notification side effects.
//
// entities.ErrSensorNotLinked is returned when no plant owns the sensor;
// in that case nothing is mutated and no history is written. Downstream
// push or history failures are contained, never surfaced to the caller.
func (s *TelemetryService) ProcessReading(ctx context.Context, sensorID string, reading entities.Reading) error {
	matches, err := s.plants.FindBySensorID(ctx, sensorID)
	if err != nil {
		return fmt.Errorf("failed to resolve sensor %s: %w", sensorID, err)
	}
	if len(matches) == 0 {
		s.logger.Warn("Received data for unlinked sensor", zap.String("sensor_id", sensorID))
		return entities.ErrSensorNotLinked
	}
	if len(matches) > 1 {
		// Integrity fault: the sensor-uniqueness invariant is broken.
		// Matches are id-sorted, so the tie-break is deterministic.
		s.logger.Error("Sensor bound to multiple plants, picking lowest id",
			zap.String("sensor_id", sensorID),
			zap.Int("match_count", len(matches)),
			zap.String("picked_plant_id", matches[0].ID))
	}
	plant := matches[0]

	species := s.resolveSpecies(ctx, plant)

	now := s.now()
	facts := plant.CareFacts()
	// The reading being processed counts as the latest contact.
	facts.LastSeenAt = &now

	status := entities.ClassifyHealth(facts, &reading, species, now)

	if err := s.plants.ApplyReading(ctx, plant.ID, reading, status, now); err != nil {
		return fmt.Errorf("failed to persist reading for plant %s: %w", plant.ID, err)
	}

	// Any live client UI re-pulls state after an accepted reading,
	// regardless of whether health changed.
	s.notifier.SilentRefresh(ctx, plant.OwnerID)

	if species != nil && plant.NotificationsEnabled &&
		status != entities.HealthHealthy && status != plant.HealthStatus {
		s.notifier.HealthAlert(ctx, plant, status)
	}

	entry := &entities.HistoryEntry{
		PlantID:         plant.ID,
		TemperatureC:    reading.TemperatureC,
		AirHumidityPct:  reading.AirHumidityPct,
		SoilMoisturePct: reading.SoilMoisturePct,
		RecordedAt:      now,
	}
	if err := s.history.Append(ctx, entry); err != nil {
		s.logger.Warn("History append failed",
			zap.String("plant_id", plant.ID),
			zap.Error(err))
	}

	return nil
}

// resolveSpecies degrades to nil on any failure so classification falls
// back to the Unknown label instead of rejecting the reading.
func (s *TelemetryService) resolveSpecies(ctx context.Context, plant *entities.Plant) *entities.SpeciesProfile {
	if plant.SpeciesID == "" {
		return nil
	}
	species, err := s.species.GetByID(ctx, plant.SpeciesID)
	if err != nil {
		if !errors.Is(err, entities.ErrSpeciesNotFound) {
			s.logger.Warn("Species lookup failed",
				zap.String("species_id", plant.SpeciesID),
				zap.Error(err))
		}
		return nil
	}
	return species
}
