package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sproutyapp/server/domain/entities"
)

func TestProcessReadingUnlinkedSensor(t *testing.T) {
	f := newFixture()
	svc := f.telemetry()

	err := svc.ProcessReading(context.Background(), "unknown-sensor", entities.Reading{
		SoilMoisturePct: 50, AirHumidityPct: 60, TemperatureC: 22,
	})
	if !errors.Is(err, entities.ErrSensorNotLinked) {
		t.Fatalf("expected ErrSensorNotLinked, got %v", err)
	}
	if len(f.history.Entries) != 0 {
		t.Error("expected no history for a rejected reading")
	}
	if len(f.sender.sent) != 0 {
		t.Error("expected no notifications for a rejected reading")
	}
}

func TestProcessReadingHealthy(t *testing.T) {
	f := newFixture()
	f.addSpecies()
	plant := f.addPlant(t, func(p *entities.Plant) {
		p.ConnectedSensorID = "aa:bb:cc:dd"
	})
	svc := f.telemetry()

	err := svc.ProcessReading(context.Background(), "aa:bb:cc:dd", entities.Reading{
		SoilMoisturePct: 50, AirHumidityPct: 60, TemperatureC: 22,
	})
	if err != nil {
		t.Fatalf("ProcessReading failed: %v", err)
	}

	updated, _ := f.plants.GetByID(context.Background(), plant.ID)
	if updated.HealthStatus != entities.HealthHealthy {
		t.Errorf("expected Healthy, got %q", updated.HealthStatus)
	}
	if updated.LastSeenAt == nil || !updated.LastSeenAt.Equal(fixedNow) {
		t.Errorf("expected last seen %v, got %v", fixedNow, updated.LastSeenAt)
	}
	if updated.CurrentSoilMoisturePct == nil || *updated.CurrentSoilMoisturePct != 50 {
		t.Error("expected soil moisture to be persisted")
	}

	// Healthy result: silent refresh only, no visible alert.
	if got := f.sender.silents(); got != 1 {
		t.Errorf("expected 1 silent refresh, got %d", got)
	}
	if got := len(f.sender.alerts()); got != 0 {
		t.Errorf("expected no alerts, got %d", got)
	}
	if len(f.history.Entries) != 1 {
		t.Errorf("expected 1 history entry, got %d", len(f.history.Entries))
	}
}

// Scenario: a dry reading alerts once; an identical follow-up refreshes
// state but must not re-alert.
func TestProcessReadingNoRepeatAlert(t *testing.T) {
	f := newFixture()
	f.addSpecies()
	plant := f.addPlant(t, func(p *entities.Plant) {
		p.ConnectedSensorID = "aa:bb:cc:dd"
	})
	svc := f.telemetry()

	dry := entities.Reading{SoilMoisturePct: 10, AirHumidityPct: 60, TemperatureC: 22}

	if err := svc.ProcessReading(context.Background(), "aa:bb:cc:dd", dry); err != nil {
		t.Fatalf("first reading failed: %v", err)
	}

	alerts := f.sender.alerts()
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert after first dry reading, got %d", len(alerts))
	}
	if !strings.Contains(alerts[0].Title, "needs attention") {
		t.Errorf("unexpected alert title %q", alerts[0].Title)
	}

	if err := svc.ProcessReading(context.Background(), "aa:bb:cc:dd", dry); err != nil {
		t.Fatalf("second reading failed: %v", err)
	}

	if got := len(f.sender.alerts()); got != 1 {
		t.Errorf("expected still 1 alert after identical reading, got %d", got)
	}
	// But the silent refresh and state update still happen.
	if got := f.sender.silents(); got != 2 {
		t.Errorf("expected 2 silent refreshes, got %d", got)
	}
	updated, _ := f.plants.GetByID(context.Background(), plant.ID)
	if updated.HealthStatus != entities.HealthThirsty {
		t.Errorf("expected Thirsty, got %q", updated.HealthStatus)
	}
	if len(f.history.Entries) != 2 {
		t.Errorf("expected 2 history entries, got %d", len(f.history.Entries))
	}
}

func TestProcessReadingNotificationsDisabled(t *testing.T) {
	f := newFixture()
	f.addSpecies()
	f.addPlant(t, func(p *entities.Plant) {
		p.ConnectedSensorID = "aa:bb:cc:dd"
		p.NotificationsEnabled = false
	})
	svc := f.telemetry()

	err := svc.ProcessReading(context.Background(), "aa:bb:cc:dd", entities.Reading{
		SoilMoisturePct: 10, AirHumidityPct: 60, TemperatureC: 22,
	})
	if err != nil {
		t.Fatalf("ProcessReading failed: %v", err)
	}

	if got := len(f.sender.alerts()); got != 0 {
		t.Errorf("expected no alerts with notifications disabled, got %d", got)
	}
	if got := f.sender.silents(); got != 1 {
		t.Errorf("expected silent refresh regardless of notification setting, got %d", got)
	}
}

func TestProcessReadingFreezing(t *testing.T) {
	f := newFixture()
	f.addSpecies()
	plant := f.addPlant(t, func(p *entities.Plant) {
		p.ConnectedSensorID = "aa:bb:cc:dd"
	})
	svc := f.telemetry()

	err := svc.ProcessReading(context.Background(), "aa:bb:cc:dd", entities.Reading{
		SoilMoisturePct: 50, AirHumidityPct: 60, TemperatureC: -2,
	})
	if err != nil {
		t.Fatalf("ProcessReading failed: %v", err)
	}

	updated, _ := f.plants.GetByID(context.Background(), plant.ID)
	if updated.HealthStatus != entities.HealthFreezingRisk {
		t.Errorf("expected Freezing Risk, got %q", updated.HealthStatus)
	}
	if got := len(f.sender.alerts()); got != 1 {
		t.Errorf("expected 1 alert, got %d", got)
	}
}

func TestProcessReadingUnknownSpeciesNeverAlerts(t *testing.T) {
	f := newFixture()
	// Species profile intentionally absent.
	plant := f.addPlant(t, func(p *entities.Plant) {
		p.ConnectedSensorID = "aa:bb:cc:dd"
	})
	svc := f.telemetry()

	err := svc.ProcessReading(context.Background(), "aa:bb:cc:dd", entities.Reading{
		SoilMoisturePct: 10, AirHumidityPct: 60, TemperatureC: 22,
	})
	if err != nil {
		t.Fatalf("ProcessReading failed: %v", err)
	}

	updated, _ := f.plants.GetByID(context.Background(), plant.ID)
	if updated.HealthStatus != entities.HealthUnknown {
		t.Errorf("expected Unknown, got %q", updated.HealthStatus)
	}
	if got := len(f.sender.alerts()); got != 0 {
		t.Errorf("expected no alert without a species profile, got %d", got)
	}
}

func TestProcessReadingTieBreaksOnLowestID(t *testing.T) {
	f := newFixture()
	f.addSpecies()
	first := f.addPlant(t, func(p *entities.Plant) {
		p.ID = "plant-a"
		p.ConnectedSensorID = "shared-sensor"
	})
	second := f.addPlant(t, func(p *entities.Plant) {
		p.ID = "plant-b"
		p.ConnectedSensorID = "shared-sensor"
	})
	svc := f.telemetry()

	err := svc.ProcessReading(context.Background(), "shared-sensor", entities.Reading{
		SoilMoisturePct: 50, AirHumidityPct: 60, TemperatureC: 22,
	})
	if err != nil {
		t.Fatalf("ProcessReading failed: %v", err)
	}

	updatedFirst, _ := f.plants.GetByID(context.Background(), first.ID)
	updatedSecond, _ := f.plants.GetByID(context.Background(), second.ID)
	if updatedFirst.LastSeenAt == nil {
		t.Error("expected the lowest-id plant to receive the reading")
	}
	if updatedSecond.LastSeenAt != nil {
		t.Error("expected the other plant to remain untouched")
	}
}

// Previously Offline plants come back as soon as a reading is accepted.
func TestProcessReadingClearsOffline(t *testing.T) {
	f := newFixture()
	f.addSpecies()
	plant := f.addPlant(t, func(p *entities.Plant) {
		p.ConnectedSensorID = "aa:bb:cc:dd"
		p.HealthStatus = entities.HealthOffline
		stale := fixedNow.Add(-48 * time.Hour)
		p.LastSeenAt = &stale
	})
	svc := f.telemetry()

	err := svc.ProcessReading(context.Background(), "aa:bb:cc:dd", entities.Reading{
		SoilMoisturePct: 50, AirHumidityPct: 60, TemperatureC: 22,
	})
	if err != nil {
		t.Fatalf("ProcessReading failed: %v", err)
	}

	updated, _ := f.plants.GetByID(context.Background(), plant.ID)
	if updated.HealthStatus != entities.HealthHealthy {
		t.Errorf("expected Offline to be overwritten by Healthy, got %q", updated.HealthStatus)
	}
}
