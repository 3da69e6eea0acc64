package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sproutyapp/server/domain/entities"
	"github.com/sproutyapp/server/domain/repositories"
)

type SpeciesRepository struct {
	collection *mongo.Collection
}

// NewSpeciesRepository creates a new MongoDB species repository
func NewSpeciesRepository(db *mongo.Database) repositories.SpeciesRepository {
	return &SpeciesRepository{
		collection: db.Collection("master_plants"),
	}
}

// GetByID implements repositories.SpeciesRepository
func (r *SpeciesRepository) GetByID(ctx context.Context, id string) (*entities.SpeciesProfile, error) {
	var species entities.SpeciesProfile
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&species)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrSpeciesNotFound
		}
		return nil, fmt.Errorf("failed to get species %s: %w", id, err)
	}
	return &species, nil
}

// ListAll implements repositories.SpeciesRepository
func (r *SpeciesRepository) ListAll(ctx context.Context) ([]*entities.SpeciesProfile, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list species profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []*entities.SpeciesProfile
	for cursor.Next(ctx) {
		var species entities.SpeciesProfile
		if err := cursor.Decode(&species); err != nil {
			return nil, fmt.Errorf("failed to decode species profile: %w", err)
		}
		profiles = append(profiles, &species)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("species cursor failed: %w", err)
	}
	return profiles, nil
}
