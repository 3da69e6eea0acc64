package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sproutyapp/server/domain/entities"
	"github.com/sproutyapp/server/domain/repositories"
)

// PlantService covers the owner-facing care operations: creating plants
// from a species profile, watering, sensor linking, renaming and
// notification preferences.
type PlantService struct {
	plants  repositories.PlantRepository
	species repositories.SpeciesRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewPlantService creates a new plant service. now may be nil for the
// wall clock.
func NewPlantService(
	plants repositories.PlantRepository,
	species repositories.SpeciesRepository,
	logger *zap.Logger,
	now func() time.Time,
) *PlantService {
	if now == nil {
		now = time.Now
	}
	return &PlantService{
		plants:  plants,
		species: species,
		logger:  logger,
		now:     now,
	}
}

// CreatePlant registers a new plant for the owner, copying the watering
// interval from the species profile.
func (s *PlantService) CreatePlant(ctx context.Context, ownerID, speciesID, customName string) (*entities.Plant, error) {
	species, err := s.species.GetByID(ctx, speciesID)
	if err != nil {
		return nil, err
	}

	interval := species.WateringIntervalDays
	if interval < 1 {
		interval = 7
	}

	plant := &entities.Plant{
		OwnerID:                    ownerID,
		SpeciesID:                  species.ID,
		SpeciesName:                species.SpeciesName,
		CustomName:                 strings.TrimSpace(customName),
		LastWateredAt:              s.now(),
		TargetWateringIntervalDays: interval,
		HealthStatus:               entities.HealthHealthy,
		NotificationsEnabled:       true,
	}

	if err := s.plants.Create(ctx, plant); err != nil {
		return nil, fmt.Errorf("failed to create plant: %w", err)
	}

	s.logger.Info("Plant created",
		zap.String("plant_id", plant.ID),
		zap.String("owner_id", ownerID),
		zap.String("species_id", species.ID))
	return plant, nil
}

// Garden lists all plants owned by the user.
func (s *PlantService) Garden(ctx context.Context, ownerID string) ([]*entities.Plant, error) {
	return s.plants.GetByOwnerID(ctx, ownerID)
}

// MarkWatered records a watering action. The timestamp only ever moves
// forward.
func (s *PlantService) MarkWatered(ctx context.Context, ownerID, plantID string) error {
	plant, err := s.ownedPlant(ctx, ownerID, plantID)
	if err != nil {
		return err
	}

	now := s.now()
	if now.Before(plant.LastWateredAt) {
		return nil
	}
	plant.LastWateredAt = now
	return s.plants.Update(ctx, plant)
}

// LinkSensor binds a sensor to the plant, or unbinds with an empty id.
// Uniqueness is enforced here at write time: a sensor already bound to a
// different plant is rejected with entities.ErrSensorInUse.
func (s *PlantService) LinkSensor(ctx context.Context, ownerID, plantID, sensorID string) error {
	plant, err := s.ownedPlant(ctx, ownerID, plantID)
	if err != nil {
		return err
	}

	sensorID = strings.TrimSpace(sensorID)
	if sensorID != "" {
		bound, err := s.plants.FindBySensorID(ctx, sensorID)
		if err != nil {
			return fmt.Errorf("failed to check sensor binding: %w", err)
		}
		for _, other := range bound {
			if other.ID != plant.ID {
				return entities.ErrSensorInUse
			}
		}
	}

	plant.ConnectedSensorID = sensorID
	return s.plants.Update(ctx, plant)
}

// Rename sets or clears the plant's display label.
func (s *PlantService) Rename(ctx context.Context, ownerID, plantID, name string) error {
	plant, err := s.ownedPlant(ctx, ownerID, plantID)
	if err != nil {
		return err
	}

	plant.CustomName = strings.TrimSpace(name)
	return s.plants.Update(ctx, plant)
}

// SetNotifications toggles alert delivery for the plant.
func (s *PlantService) SetNotifications(ctx context.Context, ownerID, plantID string, enabled bool) error {
	plant, err := s.ownedPlant(ctx, ownerID, plantID)
	if err != nil {
		return err
	}

	plant.NotificationsEnabled = enabled
	return s.plants.Update(ctx, plant)
}

// DeletePlant removes the plant from the owner's garden.
func (s *PlantService) DeletePlant(ctx context.Context, ownerID, plantID string) error {
	if _, err := s.ownedPlant(ctx, ownerID, plantID); err != nil {
		return err
	}
	return s.plants.Delete(ctx, plantID)
}

func (s *PlantService) ownedPlant(ctx context.Context, ownerID, plantID string) (*entities.Plant, error) {
	plant, err := s.plants.GetByID(ctx, plantID)
	if err != nil {
		return nil, err
	}
	if plant.OwnerID != ownerID {
		return nil, entities.ErrNotOwner
	}
	return plant, nil
}
