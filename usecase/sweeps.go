package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sproutyapp/server/domain/entities"
	"github.com/sproutyapp/server/domain/repositories"
)

// Run-lock document names, one per periodic job.
const (
	WateringLockName     = "watering_monitor_lock"
	ConnectivityLockName = "sensor_monitor_lock"
)

// SweepService runs the two fleet-wide periodic jobs. Every instance of a
// scaled deployment fires both sweeps on its own timer; the distributed
// run lock reduces that to one execution per period. The lock transaction
// covers only the check-and-set itself — the sweep body runs unprotected
// and tolerates at-least-once execution because health is recomputed from
// current data every time.
type SweepService struct {
	plants   repositories.PlantRepository
	species  repositories.SpeciesRepository
	locks    repositories.RunLockRepository
	notifier *Notifier
	logger   *zap.Logger
	now      func() time.Time

	wateringGuard     time.Duration
	connectivityGuard time.Duration
}

// NewSweepService creates a new sweep service. The guards are the minimum
// elapsed time since the job's last recorded run before it may run again;
// the connectivity guard is typically shorter than its period to tolerate
// timer jitter. now may be nil for the wall clock.
func NewSweepService(
	plants repositories.PlantRepository,
	species repositories.SpeciesRepository,
	locks repositories.RunLockRepository,
	notifier *Notifier,
	logger *zap.Logger,
	wateringGuard, connectivityGuard time.Duration,
	now func() time.Time,
) *SweepService {
	if now == nil {
		now = time.Now
	}
	return &SweepService{
		plants:            plants,
		species:           species,
		locks:             locks,
		notifier:          notifier,
		logger:            logger,
		now:               now,
		wateringGuard:     wateringGuard,
		connectivityGuard: connectivityGuard,
	}
}

// RunWateringSweep reclassifies every notifiable plant against the
// watering calendar. Fresh sensor evidence of moist soil clears an
// overdue plant back to Healthy silently; otherwise the plant is marked
// Thirsty and its owner alerted once.
func (s *SweepService) RunWateringSweep(ctx context.Context) error {
	now := s.now()
	acquired, err := s.locks.Acquire(ctx, WateringLockName, now, s.wateringGuard)
	if err != nil {
		return fmt.Errorf("watering sweep lock check failed: %w", err)
	}
	if !acquired {
		s.logger.Debug("Watering sweep skipped, another instance ran this period")
		return nil
	}
	s.logger.Info("Watering sweep lock acquired, processing plants")

	minimums := s.loadSoilMinimums(ctx)

	plants, err := s.plants.ListNotifiable(ctx)
	if err != nil {
		return fmt.Errorf("watering sweep plant scan failed: %w", err)
	}

	for _, plant := range plants {
		if err := s.sweepPlantWatering(ctx, plant, minimums, now); err != nil {
			// One bad record must not halt the fleet scan.
			s.logger.Warn("Watering sweep skipped plant",
				zap.String("plant_id", plant.ID),
				zap.Error(err))
		}
	}
	return nil
}

func (s *SweepService) sweepPlantWatering(ctx context.Context, plant *entities.Plant, minimums map[string]float64, now time.Time) error {
	facts := plant.CareFacts()
	if !facts.CalendarOverdue(now) {
		return nil
	}

	dryThreshold, ok := minimums[plant.SpeciesID]
	if !ok {
		dryThreshold = entities.DefaultSoilMinimumPct
	}

	trusted := facts.CanTrustSensor(now)
	soil := plant.CurrentSoilMoisturePct

	if trusted && soil != nil && *soil >= dryThreshold {
		// Recovery, not an alert: the sensor says the calendar is wrong.
		return s.plants.SetHealthStatus(ctx, plant.ID, entities.HealthHealthy)
	}

	var reason string
	if trusted && soil != nil {
		reason = fmt.Sprintf("Soil is at %.1f%% (Min: %.1f%%).", *soil, dryThreshold)
	} else {
		reason = fmt.Sprintf("It's been %d days since last watering.", plant.TargetWateringIntervalDays)
	}

	s.notifier.WateringReminder(ctx, plant, reason)
	return s.plants.SetHealthStatus(ctx, plant.ID, entities.HealthThirsty)
}

// RunConnectivitySweep marks plants whose sensor has been silent beyond
// the freshness window as Offline and alerts their owners once. The label
// is sticky until the next accepted reading overwrites it.
func (s *SweepService) RunConnectivitySweep(ctx context.Context) error {
	now := s.now()
	acquired, err := s.locks.Acquire(ctx, ConnectivityLockName, now, s.connectivityGuard)
	if err != nil {
		return fmt.Errorf("connectivity sweep lock check failed: %w", err)
	}
	if !acquired {
		s.logger.Debug("Connectivity sweep skipped, another instance ran this period")
		return nil
	}
	s.logger.Info("Connectivity sweep lock acquired, checking for silent sensors")

	cutoff := now.Add(-entities.SensorFreshnessWindow)
	plants, err := s.plants.ListSensorSilentSince(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("connectivity sweep plant scan failed: %w", err)
	}

	for _, plant := range plants {
		if plant.HealthStatus == entities.HealthOffline {
			continue
		}

		s.notifier.ConnectionLost(ctx, plant)
		if err := s.plants.SetHealthStatus(ctx, plant.ID, entities.HealthOffline); err != nil {
			s.logger.Warn("Connectivity sweep skipped plant",
				zap.String("plant_id", plant.ID),
				zap.Error(err))
			continue
		}
		s.logger.Info("Sensor marked Offline due to inactivity",
			zap.String("plant_id", plant.ID),
			zap.String("sensor_id", plant.ConnectedSensorID))
	}
	return nil
}

// loadSoilMinimums builds the species id → dry-threshold map once per
// sweep. Unparsable thresholds fall back to the default instead of
// aborting the sweep.
func (s *SweepService) loadSoilMinimums(ctx context.Context) map[string]float64 {
	minimums := make(map[string]float64)
	profiles, err := s.species.ListAll(ctx)
	if err != nil {
		s.logger.Warn("Species threshold load failed, using defaults", zap.Error(err))
		return minimums
	}
	for _, profile := range profiles {
		minimums[profile.ID] = profile.SoilMinimumOrDefault()
	}
	return minimums
}
