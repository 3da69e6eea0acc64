package adapters

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sproutyapp/server/domain/entities"
	"github.com/sproutyapp/server/domain/repositories"
)

// In-memory repository implementations. They back the usecase tests and
// double as a storage backend for local development without MongoDB.

// MemoryPlantRepository is an in-memory implementation of PlantRepository.
type MemoryPlantRepository struct {
	mu     sync.RWMutex
	plants map[string]*entities.Plant
}

// NewMemoryPlantRepository creates a new in-memory plant repository
func NewMemoryPlantRepository() *MemoryPlantRepository {
	return &MemoryPlantRepository{plants: make(map[string]*entities.Plant)}
}

// Create implements PlantRepository interface
func (m *MemoryPlantRepository) Create(ctx context.Context, plant *entities.Plant) error {
	if plant == nil {
		return errors.New("plant cannot be nil")
	}
	if err := plant.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if plant.ID == "" {
		plant.ID = uuid.NewString()
	}
	if plant.CreatedAt.IsZero() {
		plant.CreatedAt = time.Now()
	}
	m.plants[plant.ID] = clonePlant(plant)
	return nil
}

// GetByID implements PlantRepository interface
func (m *MemoryPlantRepository) GetByID(ctx context.Context, id string) (*entities.Plant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plant, ok := m.plants[id]
	if !ok {
		return nil, entities.ErrPlantNotFound
	}
	return clonePlant(plant), nil
}

// GetByOwnerID implements PlantRepository interface
func (m *MemoryPlantRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]*entities.Plant, error) {
	return m.filter(func(p *entities.Plant) bool { return p.OwnerID == ownerID }), nil
}

// Update implements PlantRepository interface
func (m *MemoryPlantRepository) Update(ctx context.Context, plant *entities.Plant) error {
	if plant == nil {
		return errors.New("plant cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.plants[plant.ID]; !ok {
		return entities.ErrPlantNotFound
	}
	m.plants[plant.ID] = clonePlant(plant)
	return nil
}

// Delete implements PlantRepository interface
func (m *MemoryPlantRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.plants[id]; !ok {
		return entities.ErrPlantNotFound
	}
	delete(m.plants, id)
	return nil
}

// FindBySensorID implements PlantRepository interface
func (m *MemoryPlantRepository) FindBySensorID(ctx context.Context, sensorID string) ([]*entities.Plant, error) {
	matches := m.filter(func(p *entities.Plant) bool {
		return p.ConnectedSensorID != "" && p.ConnectedSensorID == sensorID
	})
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}

// ListNotifiable implements PlantRepository interface
func (m *MemoryPlantRepository) ListNotifiable(ctx context.Context) ([]*entities.Plant, error) {
	return m.filter(func(p *entities.Plant) bool { return p.NotificationsEnabled }), nil
}

// ListSensorSilentSince implements PlantRepository interface
func (m *MemoryPlantRepository) ListSensorSilentSince(ctx context.Context, cutoff time.Time) ([]*entities.Plant, error) {
	return m.filter(func(p *entities.Plant) bool {
		return p.ConnectedSensorID != "" && p.LastSeenAt != nil && p.LastSeenAt.Before(cutoff)
	}), nil
}

// ApplyReading implements PlantRepository interface
func (m *MemoryPlantRepository) ApplyReading(ctx context.Context, id string, reading entities.Reading, status entities.HealthStatus, seenAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	plant, ok := m.plants[id]
	if !ok {
		return entities.ErrPlantNotFound
	}

	soil, air, temp := reading.SoilMoisturePct, reading.AirHumidityPct, reading.TemperatureC
	seen := seenAt
	plant.CurrentSoilMoisturePct = &soil
	plant.CurrentAirHumidityPct = &air
	plant.CurrentTemperatureC = &temp
	plant.HealthStatus = status
	plant.LastSeenAt = &seen
	return nil
}

// SetHealthStatus implements PlantRepository interface
func (m *MemoryPlantRepository) SetHealthStatus(ctx context.Context, id string, status entities.HealthStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	plant, ok := m.plants[id]
	if !ok {
		return entities.ErrPlantNotFound
	}
	plant.HealthStatus = status
	return nil
}

func (m *MemoryPlantRepository) filter(keep func(*entities.Plant) bool) []*entities.Plant {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*entities.Plant
	for _, p := range m.plants {
		if keep(p) {
			out = append(out, clonePlant(p))
		}
	}
	return out
}

func clonePlant(p *entities.Plant) *entities.Plant {
	cp := *p
	if p.LastSeenAt != nil {
		v := *p.LastSeenAt
		cp.LastSeenAt = &v
	}
	if p.CurrentSoilMoisturePct != nil {
		v := *p.CurrentSoilMoisturePct
		cp.CurrentSoilMoisturePct = &v
	}
	if p.CurrentAirHumidityPct != nil {
		v := *p.CurrentAirHumidityPct
		cp.CurrentAirHumidityPct = &v
	}
	if p.CurrentTemperatureC != nil {
		v := *p.CurrentTemperatureC
		cp.CurrentTemperatureC = &v
	}
	return &cp
}

// MemorySpeciesRepository is an in-memory implementation of SpeciesRepository.
type MemorySpeciesRepository struct {
	mu      sync.RWMutex
	species map[string]*entities.SpeciesProfile
}

// NewMemorySpeciesRepository creates a new in-memory species repository
func NewMemorySpeciesRepository() *MemorySpeciesRepository {
	return &MemorySpeciesRepository{species: make(map[string]*entities.SpeciesProfile)}
}

// Put stores or replaces a species profile.
func (m *MemorySpeciesRepository) Put(profile *entities.SpeciesProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.species[profile.ID] = profile
}

// GetByID implements SpeciesRepository interface
func (m *MemorySpeciesRepository) GetByID(ctx context.Context, id string) (*entities.SpeciesProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	species, ok := m.species[id]
	if !ok {
		return nil, entities.ErrSpeciesNotFound
	}
	cp := *species
	return &cp, nil
}

// ListAll implements SpeciesRepository interface
func (m *MemorySpeciesRepository) ListAll(ctx context.Context) ([]*entities.SpeciesProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*entities.SpeciesProfile, 0, len(m.species))
	for _, s := range m.species {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

// MemoryUserRepository is an in-memory implementation of UserRepository.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*entities.User
}

// NewMemoryUserRepository creates a new in-memory user repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*entities.User)}
}

// Put stores or replaces a user record.
func (m *MemoryUserRepository) Put(user *entities.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

// GetByID implements UserRepository interface
func (m *MemoryUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

// MemoryHistoryRepository is an in-memory implementation of HistoryRepository.
type MemoryHistoryRepository struct {
	mu      sync.Mutex
	Entries []*entities.HistoryEntry
}

// NewMemoryHistoryRepository creates a new in-memory history repository
func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{}
}

// Append implements HistoryRepository interface
func (m *MemoryHistoryRepository) Append(ctx context.Context, entry *entities.HistoryEntry) error {
	if entry == nil {
		return errors.New("history entry cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
	return nil
}

// MemoryRunLockRepository is an in-memory implementation of
// RunLockRepository. Its mutex gives the same check-and-update atomicity
// the document store provides in production, but only within one process.
type MemoryRunLockRepository struct {
	mu      sync.Mutex
	lastRun map[string]time.Time
}

// NewMemoryRunLockRepository creates a new in-memory run-lock repository
func NewMemoryRunLockRepository() *MemoryRunLockRepository {
	return &MemoryRunLockRepository{lastRun: make(map[string]time.Time)}
}

// Acquire implements RunLockRepository interface
func (m *MemoryRunLockRepository) Acquire(ctx context.Context, jobName string, now time.Time, period time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if last, ok := m.lastRun[jobName]; ok && now.Sub(last) < period {
		return false, nil
	}
	m.lastRun[jobName] = now
	return true, nil
}

// LoggingSender is a PushSender that only logs deliveries. It stands in
// for FCM in local development.
type LoggingSender struct {
	logger *zap.Logger
}

// NewLoggingSender creates a new logging push sender
func NewLoggingSender(logger *zap.Logger) *LoggingSender {
	return &LoggingSender{logger: logger}
}

// Send implements PushSender interface
func (s *LoggingSender) Send(ctx context.Context, n repositories.Notification) (string, error) {
	s.logger.Info("Push notification (logging sender)",
		zap.String("user_id", n.UserID),
		zap.String("title", n.Title),
		zap.String("body", n.Body),
		zap.Bool("silent", !n.Displayable()))
	return uuid.NewString(), nil
}
