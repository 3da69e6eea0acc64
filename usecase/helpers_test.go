package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sproutyapp/server/adapters"
	"github.com/sproutyapp/server/domain/entities"
	"github.com/sproutyapp/server/domain/repositories"
)

var fixedNow = time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// capturingSender records every push handed to it.
type capturingSender struct {
	mu   sync.Mutex
	sent []repositories.Notification
	err  error
}

func (c *capturingSender) Send(ctx context.Context, n repositories.Notification) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	c.sent = append(c.sent, n)
	return "delivery-1", nil
}

func (c *capturingSender) alerts() []repositories.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []repositories.Notification
	for _, n := range c.sent {
		if n.Displayable() {
			out = append(out, n)
		}
	}
	return out
}

func (c *capturingSender) silents() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, n := range c.sent {
		if !n.Displayable() {
			count++
		}
	}
	return count
}

type fixture struct {
	plants   *adapters.MemoryPlantRepository
	species  *adapters.MemorySpeciesRepository
	users    *adapters.MemoryUserRepository
	history  *adapters.MemoryHistoryRepository
	locks    *adapters.MemoryRunLockRepository
	sender   *capturingSender
	notifier *Notifier
}

func newFixture() *fixture {
	sender := &capturingSender{}
	logger := zap.NewNop()
	f := &fixture{
		plants:  adapters.NewMemoryPlantRepository(),
		species: adapters.NewMemorySpeciesRepository(),
		users:   adapters.NewMemoryUserRepository(),
		history: adapters.NewMemoryHistoryRepository(),
		locks:   adapters.NewMemoryRunLockRepository(),
		sender:  sender,
	}
	f.notifier = NewNotifier(sender, logger, func(n int) int { return 0 })
	return f
}

func (f *fixture) telemetry() *TelemetryService {
	return NewTelemetryService(f.plants, f.species, f.history, f.notifier, zap.NewNop(), fixedClock)
}

func (f *fixture) sweeps(wateringGuard, connectivityGuard time.Duration) *SweepService {
	return NewSweepService(f.plants, f.species, f.locks, f.notifier, zap.NewNop(), wateringGuard, connectivityGuard, fixedClock)
}

func (f *fixture) addSpecies() *entities.SpeciesProfile {
	s := &entities.SpeciesProfile{
		ID:                   "monstera_deliciosa",
		SpeciesName:          "Monstera Deliciosa",
		MinTemperatureC:      15,
		MaxTemperatureC:      35,
		SoilMoistureRange:    "30,70",
		AirHumidityRange:     "50,80",
		WateringIntervalDays: 7,
	}
	f.species.Put(s)
	return s
}

func (f *fixture) addPlant(t *testing.T, mutate func(*entities.Plant)) *entities.Plant {
	t.Helper()
	plant := &entities.Plant{
		OwnerID:                    "owner-1",
		SpeciesID:                  "monstera_deliciosa",
		SpeciesName:                "Monstera Deliciosa",
		LastWateredAt:              fixedNow.AddDate(0, 0, -1),
		TargetWateringIntervalDays: 7,
		HealthStatus:               entities.HealthHealthy,
		NotificationsEnabled:       true,
	}
	if mutate != nil {
		mutate(plant)
	}
	if err := f.plants.Create(context.Background(), plant); err != nil {
		t.Fatalf("failed to seed plant: %v", err)
	}
	return plant
}
