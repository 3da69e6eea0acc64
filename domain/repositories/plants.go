package repositories

import (
	"context"
	"time"

	"github.com/sproutyapp/server/domain/entities"
)

// PlantRepository defines data access methods for plant records.
type PlantRepository interface {
	Create(ctx context.Context, plant *entities.Plant) error
	GetByID(ctx context.Context, id string) (*entities.Plant, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]*entities.Plant, error)
	Update(ctx context.Context, plant *entities.Plant) error
	Delete(ctx context.Context, id string) error

	// FindBySensorID returns every plant bound to the sensor, sorted by id.
	// More than one result is a data-integrity fault the caller must handle.
	FindBySensorID(ctx context.Context, sensorID string) ([]*entities.Plant, error)

	// ListNotifiable returns all plants with notifications enabled.
	ListNotifiable(ctx context.Context) ([]*entities.Plant, error)

	// ListSensorSilentSince returns plants with a linked sensor whose last
	// accepted reading is older than cutoff.
	ListSensorSilentSince(ctx context.Context, cutoff time.Time) ([]*entities.Plant, error)

	// ApplyReading atomically stores the latest measurements together with
	// the new health status and last-seen timestamp.
	ApplyReading(ctx context.Context, id string, reading entities.Reading, status entities.HealthStatus, seenAt time.Time) error

	SetHealthStatus(ctx context.Context, id string, status entities.HealthStatus) error
}

// SpeciesRepository defines read access to the shared species thresholds.
type SpeciesRepository interface {
	GetByID(ctx context.Context, id string) (*entities.SpeciesProfile, error)
	ListAll(ctx context.Context) ([]*entities.SpeciesProfile, error)
}

// UserRepository resolves notification addressing for plant owners.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entities.User, error)
}

// HistoryRepository is the append-only telemetry log. Entries are never
// read back by the engine.
type HistoryRepository interface {
	Append(ctx context.Context, entry *entities.HistoryEntry) error
}
