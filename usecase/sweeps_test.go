package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sproutyapp/server/domain/entities"
)

// Scenario: 7 day interval, watered 8 days ago, no sensor. The sweep
// marks the plant Thirsty and sends one calendar-based alert.
func TestWateringSweepCalendarOnly(t *testing.T) {
	f := newFixture()
	f.addSpecies()
	plant := f.addPlant(t, func(p *entities.Plant) {
		p.LastWateredAt = fixedNow.AddDate(0, 0, -8)
	})
	svc := f.sweeps(12*time.Hour, 5*time.Hour)

	if err := svc.RunWateringSweep(context.Background()); err != nil {
		t.Fatalf("RunWateringSweep failed: %v", err)
	}

	updated, _ := f.plants.GetByID(context.Background(), plant.ID)
	if updated.HealthStatus != entities.HealthThirsty {
		t.Errorf("expected Thirsty, got %q", updated.HealthStatus)
	}

	alerts := f.sender.alerts()
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if !strings.Contains(alerts[0].Body, "days since last watering") {
		t.Errorf("expected calendar-based reason, got %q", alerts[0].Body)
	}
}

// Scenario: same overdue plant, but a fresh sensor shows moist soil. The
// sweep clears it to Healthy silently.
func TestWateringSweepSensorOverridesCalendar(t *testing.T) {
	f := newFixture()
	f.addSpecies()
	plant := f.addPlant(t, func(p *entities.Plant) {
		p.LastWateredAt = fixedNow.AddDate(0, 0, -8)
		p.ConnectedSensorID = "aa:bb:cc:dd"
		p.HealthStatus = entities.HealthThirsty
		seen := fixedNow.Add(-2 * time.Hour)
		p.LastSeenAt = &seen
		soil := 50.0
		p.CurrentSoilMoisturePct = &soil
	})
	svc := f.sweeps(12*time.Hour, 5*time.Hour)

	if err := svc.RunWateringSweep(context.Background()); err != nil {
		t.Fatalf("RunWateringSweep failed: %v", err)
	}

	updated, _ := f.plants.GetByID(context.Background(), plant.ID)
	if updated.HealthStatus != entities.HealthHealthy {
		t.Errorf("expected recovery to Healthy, got %q", updated.HealthStatus)
	}
	if got := len(f.sender.alerts()); got != 0 {
		t.Errorf("recovery must be silent, got %d alerts", got)
	}
}

func TestWateringSweepSensorConfirmedDryness(t *testing.T) {
	f := newFixture()
	f.addSpecies()
	f.addPlant(t, func(p *entities.Plant) {
		p.LastWateredAt = fixedNow.AddDate(0, 0, -8)
		p.ConnectedSensorID = "aa:bb:cc:dd"
		seen := fixedNow.Add(-2 * time.Hour)
		p.LastSeenAt = &seen
		soil := 12.0
		p.CurrentSoilMoisturePct = &soil
	})
	svc := f.sweeps(12*time.Hour, 5*time.Hour)

	if err := svc.RunWateringSweep(context.Background()); err != nil {
		t.Fatalf("RunWateringSweep failed: %v", err)
	}

	alerts := f.sender.alerts()
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if !strings.Contains(alerts[0].Body, "Soil is at 12.0%") {
		t.Errorf("expected sensor-confirmed reason with measured value, got %q", alerts[0].Body)
	}
}

func TestWateringSweepIgnoresPlantsNotOverdue(t *testing.T) {
	f := newFixture()
	f.addSpecies()
	plant := f.addPlant(t, func(p *entities.Plant) {
		p.LastWateredAt = fixedNow.AddDate(0, 0, -3)
	})
	svc := f.sweeps(12*time.Hour, 5*time.Hour)

	if err := svc.RunWateringSweep(context.Background()); err != nil {
		t.Fatalf("RunWateringSweep failed: %v", err)
	}

	updated, _ := f.plants.GetByID(context.Background(), plant.ID)
	if updated.HealthStatus != entities.HealthHealthy {
		t.Errorf("expected plant to be untouched, got %q", updated.HealthStatus)
	}
	if len(f.sender.sent) != 0 {
		t.Errorf("expected no notifications, got %d", len(f.sender.sent))
	}
}

func TestWateringSweepSkipsWhenLockHeld(t *testing.T) {
	f := newFixture()
	f.addSpecies()
	f.addPlant(t, func(p *entities.Plant) {
		p.LastWateredAt = fixedNow.AddDate(0, 0, -8)
	})
	svc := f.sweeps(12*time.Hour, 5*time.Hour)

	if err := svc.RunWateringSweep(context.Background()); err != nil {
		t.Fatalf("first sweep failed: %v", err)
	}
	firstAlerts := len(f.sender.alerts())

	// Second run within the same period must be a no-op.
	if err := svc.RunWateringSweep(context.Background()); err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if got := len(f.sender.alerts()); got != firstAlerts {
		t.Errorf("expected no additional alerts, got %d extra", got-firstAlerts)
	}
}

func TestRunLockExclusivity(t *testing.T) {
	f := newFixture()
	locks := f.locks

	first, err := locks.Acquire(context.Background(), WateringLockName, fixedNow, 12*time.Hour)
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	second, err := locks.Acquire(context.Background(), WateringLockName, fixedNow.Add(time.Minute), 12*time.Hour)
	if err != nil {
		t.Fatalf("second acquire failed: %v", err)
	}

	if !first || second {
		t.Errorf("expected exactly one winner, got first=%v second=%v", first, second)
	}

	// After the period elapses the lock opens again.
	third, err := locks.Acquire(context.Background(), WateringLockName, fixedNow.Add(13*time.Hour), 12*time.Hour)
	if err != nil {
		t.Fatalf("third acquire failed: %v", err)
	}
	if !third {
		t.Error("expected lock to reopen after the period")
	}
}

// Scenario: sensor silent for 25 hours, previously Healthy. One Offline
// transition, one alert; an already-Offline plant is not re-alerted.
func TestConnectivitySweep(t *testing.T) {
	f := newFixture()
	f.addSpecies()
	plant := f.addPlant(t, func(p *entities.Plant) {
		p.ConnectedSensorID = "aa:bb:cc:dd"
		seen := fixedNow.Add(-25 * time.Hour)
		p.LastSeenAt = &seen
	})
	svc := f.sweeps(12*time.Hour, 5*time.Hour)

	if err := svc.RunConnectivitySweep(context.Background()); err != nil {
		t.Fatalf("RunConnectivitySweep failed: %v", err)
	}

	updated, _ := f.plants.GetByID(context.Background(), plant.ID)
	if updated.HealthStatus != entities.HealthOffline {
		t.Errorf("expected Offline, got %q", updated.HealthStatus)
	}

	alerts := f.sender.alerts()
	if len(alerts) != 1 {
		t.Fatalf("expected exactly 1 connection-lost alert, got %d", len(alerts))
	}
	if !strings.Contains(alerts[0].Title, "Connection Lost") {
		t.Errorf("unexpected alert title %q", alerts[0].Title)
	}
}

func TestConnectivitySweepAlreadyOffline(t *testing.T) {
	f := newFixture()
	f.addSpecies()
	f.addPlant(t, func(p *entities.Plant) {
		p.ConnectedSensorID = "aa:bb:cc:dd"
		p.HealthStatus = entities.HealthOffline
		seen := fixedNow.Add(-48 * time.Hour)
		p.LastSeenAt = &seen
	})
	svc := f.sweeps(12*time.Hour, 5*time.Hour)

	if err := svc.RunConnectivitySweep(context.Background()); err != nil {
		t.Fatalf("RunConnectivitySweep failed: %v", err)
	}

	if got := len(f.sender.alerts()); got != 0 {
		t.Errorf("expected no re-alert for an already-Offline plant, got %d", got)
	}
}

func TestConnectivitySweepIgnoresFreshAndSensorless(t *testing.T) {
	f := newFixture()
	f.addSpecies()
	fresh := f.addPlant(t, func(p *entities.Plant) {
		p.ConnectedSensorID = "fresh-sensor"
		seen := fixedNow.Add(-2 * time.Hour)
		p.LastSeenAt = &seen
	})
	sensorless := f.addPlant(t, func(p *entities.Plant) {})
	svc := f.sweeps(12*time.Hour, 5*time.Hour)

	if err := svc.RunConnectivitySweep(context.Background()); err != nil {
		t.Fatalf("RunConnectivitySweep failed: %v", err)
	}

	for _, id := range []string{fresh.ID, sensorless.ID} {
		p, _ := f.plants.GetByID(context.Background(), id)
		if p.HealthStatus == entities.HealthOffline {
			t.Errorf("plant %s should not have been marked Offline", id)
		}
	}
	if len(f.sender.sent) != 0 {
		t.Errorf("expected no notifications, got %d", len(f.sender.sent))
	}
}

// Malformed thresholds fall back to the default instead of aborting.
func TestWateringSweepMalformedThreshold(t *testing.T) {
	f := newFixture()
	f.species.Put(&entities.SpeciesProfile{
		ID:                "mystery",
		SpeciesName:       "Mystery Plant",
		MinTemperatureC:   10,
		MaxTemperatureC:   35,
		SoilMoistureRange: "not,parsable,at,all",
	})
	plant := f.addPlant(t, func(p *entities.Plant) {
		p.SpeciesID = "mystery"
		p.SpeciesName = "Mystery Plant"
		p.LastWateredAt = fixedNow.AddDate(0, 0, -8)
		p.ConnectedSensorID = "aa:bb:cc:dd"
		seen := fixedNow.Add(-2 * time.Hour)
		p.LastSeenAt = &seen
		soil := 40.0 // above the 30% default
		p.CurrentSoilMoisturePct = &soil
	})
	svc := f.sweeps(12*time.Hour, 5*time.Hour)

	if err := svc.RunWateringSweep(context.Background()); err != nil {
		t.Fatalf("RunWateringSweep failed: %v", err)
	}

	updated, _ := f.plants.GetByID(context.Background(), plant.ID)
	if updated.HealthStatus != entities.HealthHealthy {
		t.Errorf("expected default threshold to clear the plant, got %q", updated.HealthStatus)
	}
}
