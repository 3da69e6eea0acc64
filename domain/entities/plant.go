package entities

import (
	"errors"
	"time"
)

// HealthStatus is the single authoritative health label of a plant.
type HealthStatus string

const (
	HealthUnknown      HealthStatus = "Unknown"
	HealthHealthy      HealthStatus = "Healthy"
	HealthThirsty      HealthStatus = "Thirsty"
	HealthOverwatered  HealthStatus = "Overwatered"
	HealthTooCold      HealthStatus = "Too Cold"
	HealthTooHot       HealthStatus = "Too Hot"
	HealthDryAir       HealthStatus = "Dry Air"
	HealthTooHumid     HealthStatus = "Too Humid"
	HealthFreezingRisk HealthStatus = "Freezing Risk"
	HealthOffline      HealthStatus = "Offline"
)

// Plant represents one physical plant owned by a user.
type Plant struct {
	ID          string `json:"id" bson:"_id,omitempty"`
	OwnerID     string `json:"owner_id" bson:"owner_id"`
	SpeciesID   string `json:"species_id" bson:"species_id"`
	SpeciesName string `json:"species_name" bson:"species_name"`
	CustomName  string `json:"custom_name,omitempty" bson:"custom_name,omitempty"`
	ImageURL    string `json:"image_url,omitempty" bson:"image_url,omitempty"`

	// At most one plant may hold a given non-empty sensor id.
	ConnectedSensorID string `json:"connected_sensor_id,omitempty" bson:"connected_sensor_id,omitempty"`

	LastWateredAt              time.Time `json:"last_watered_at" bson:"last_watered_at"`
	TargetWateringIntervalDays int       `json:"target_watering_interval_days" bson:"target_watering_interval_days"`

	LastSeenAt             *time.Time `json:"last_seen_at,omitempty" bson:"last_seen_at,omitempty"`
	CurrentSoilMoisturePct *float64   `json:"current_soil_moisture_pct,omitempty" bson:"current_soil_moisture_pct,omitempty"`
	CurrentAirHumidityPct  *float64   `json:"current_air_humidity_pct,omitempty" bson:"current_air_humidity_pct,omitempty"`
	CurrentTemperatureC    *float64   `json:"current_temperature_c,omitempty" bson:"current_temperature_c,omitempty"`

	HealthStatus         HealthStatus `json:"health_status" bson:"health_status"`
	NotificationsEnabled bool         `json:"notifications_enabled" bson:"notifications_enabled"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// DisplayName returns the user-facing label for the plant.
func (p *Plant) DisplayName() string {
	if p.CustomName != "" {
		return p.CustomName
	}
	return p.SpeciesName
}

// CareFacts extracts the calendar-side classification inputs.
func (p *Plant) CareFacts() CareFacts {
	return CareFacts{
		LastWateredAt:              p.LastWateredAt,
		TargetWateringIntervalDays: p.TargetWateringIntervalDays,
		HasSensor:                  p.ConnectedSensorID != "",
		LastSeenAt:                 p.LastSeenAt,
	}
}

// Validate validates the plant data.
func (p *Plant) Validate() error {
	if p.OwnerID == "" {
		return errors.New("owner_id is required")
	}
	if p.SpeciesID == "" {
		return errors.New("species_id is required")
	}
	if p.TargetWateringIntervalDays < 1 {
		return errors.New("target watering interval must be at least one day")
	}
	return nil
}
