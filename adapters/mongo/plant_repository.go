package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sproutyapp/server/domain/entities"
	"github.com/sproutyapp/server/domain/repositories"
)

type PlantRepository struct {
	collection *mongo.Collection
}

// NewPlantRepository creates a new MongoDB plant repository
func NewPlantRepository(db *mongo.Database) repositories.PlantRepository {
	return &PlantRepository{
		collection: db.Collection("user_plants"),
	}
}

// Create implements repositories.PlantRepository
func (r *PlantRepository) Create(ctx context.Context, plant *entities.Plant) error {
	if plant == nil {
		return errors.New("plant cannot be nil")
	}
	if err := plant.Validate(); err != nil {
		return err
	}

	if plant.ID == "" {
		plant.ID = uuid.NewString()
	}
	if plant.CreatedAt.IsZero() {
		plant.CreatedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, plant); err != nil {
		return fmt.Errorf("failed to create plant: %w", err)
	}
	return nil
}

// GetByID implements repositories.PlantRepository
func (r *PlantRepository) GetByID(ctx context.Context, id string) (*entities.Plant, error) {
	var plant entities.Plant
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrPlantNotFound
		}
		return nil, fmt.Errorf("failed to get plant %s: %w", id, err)
	}
	return &plant, nil
}

// GetByOwnerID implements repositories.PlantRepository
func (r *PlantRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]*entities.Plant, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID})
}

// Update implements repositories.PlantRepository
func (r *PlantRepository) Update(ctx context.Context, plant *entities.Plant) error {
	if plant == nil {
		return errors.New("plant cannot be nil")
	}
	if plant.ID == "" {
		return errors.New("plant ID cannot be empty")
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": plant.ID}, plant)
	if err != nil {
		return fmt.Errorf("failed to update plant %s: %w", plant.ID, err)
	}
	if result.MatchedCount == 0 {
		return entities.ErrPlantNotFound
	}
	return nil
}

// Delete implements repositories.PlantRepository
func (r *PlantRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete plant %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return entities.ErrPlantNotFound
	}
	return nil
}

// FindBySensorID implements repositories.PlantRepository. Results are
// sorted by id so an integrity fault resolves to a deterministic plant.
func (r *PlantRepository) FindBySensorID(ctx context.Context, sensorID string) ([]*entities.Plant, error) {
	opts := options.Find().SetSort(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"connected_sensor_id": sensorID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find plants for sensor %s: %w", sensorID, err)
	}
	return decodePlants(ctx, cursor)
}

// ListNotifiable implements repositories.PlantRepository
func (r *PlantRepository) ListNotifiable(ctx context.Context) ([]*entities.Plant, error) {
	return r.find(ctx, bson.M{"notifications_enabled": true})
}

// ListSensorSilentSince implements repositories.PlantRepository
func (r *PlantRepository) ListSensorSilentSince(ctx context.Context, cutoff time.Time) ([]*entities.Plant, error) {
	filter := bson.M{
		"connected_sensor_id": bson.M{"$exists": true, "$ne": ""},
		"last_seen_at":        bson.M{"$lt": cutoff},
	}
	return r.find(ctx, filter)
}

// ApplyReading implements repositories.PlantRepository
func (r *PlantRepository) ApplyReading(ctx context.Context, id string, reading entities.Reading, status entities.HealthStatus, seenAt time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"current_soil_moisture_pct": reading.SoilMoisturePct,
			"current_air_humidity_pct":  reading.AirHumidityPct,
			"current_temperature_c":     reading.TemperatureC,
			"health_status":             status,
			"last_seen_at":              seenAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to apply reading to plant %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return entities.ErrPlantNotFound
	}
	return nil
}

// SetHealthStatus implements repositories.PlantRepository
func (r *PlantRepository) SetHealthStatus(ctx context.Context, id string, status entities.HealthStatus) error {
	update := bson.M{"$set": bson.M{"health_status": status}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set health status on plant %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return entities.ErrPlantNotFound
	}
	return nil
}

func (r *PlantRepository) find(ctx context.Context, filter bson.M) ([]*entities.Plant, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query plants: %w", err)
	}
	return decodePlants(ctx, cursor)
}

func decodePlants(ctx context.Context, cursor *mongo.Cursor) ([]*entities.Plant, error) {
	defer cursor.Close(ctx)

	var plants []*entities.Plant
	for cursor.Next(ctx) {
		var plant entities.Plant
		if err := cursor.Decode(&plant); err != nil {
			return nil, fmt.Errorf("failed to decode plant: %w", err)
		}
		plants = append(plants, &plant)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("plant cursor failed: %w", err)
	}
	return plants, nil
}
