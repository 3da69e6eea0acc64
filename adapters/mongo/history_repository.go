package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sproutyapp/server/domain/entities"
	"github.com/sproutyapp/server/domain/repositories"
)

type HistoryRepository struct {
	collection *mongo.Collection
}

// NewHistoryRepository creates a new MongoDB history repository
func NewHistoryRepository(db *mongo.Database) repositories.HistoryRepository {
	return &HistoryRepository{
		collection: db.Collection("sensor_history"),
	}
}

// Append implements repositories.HistoryRepository
func (r *HistoryRepository) Append(ctx context.Context, entry *entities.HistoryEntry) error {
	if entry == nil {
		return errors.New("history entry cannot be nil")
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to append history for plant %s: %w", entry.PlantID, err)
	}
	return nil
}
