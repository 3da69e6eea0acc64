package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultSoilMinimumPct is used when a species' soil range cannot be parsed.
const DefaultSoilMinimumPct = 30.0

// SpeciesProfile holds the shared care thresholds for a recognized species.
// Ranges are stored in their legacy "min,max" string form, so every consumer
// must go through the parsing helpers below.
type SpeciesProfile struct {
	ID          string `json:"id" bson:"_id,omitempty"`
	SpeciesName string `json:"species_name" bson:"species_name"`

	MinTemperatureC int `json:"min_temperature_c" bson:"min_temperature_c"`
	MaxTemperatureC int `json:"max_temperature_c" bson:"max_temperature_c"`

	// SoilMoistureRange and AirHumidityRange are "min,max" percent pairs,
	// e.g. "30,60". AirHumidityRange may be empty.
	SoilMoistureRange string `json:"soil_moisture_range" bson:"soil_moisture_range"`
	AirHumidityRange  string `json:"air_humidity_range,omitempty" bson:"air_humidity_range,omitempty"`

	WateringIntervalDays int `json:"watering_interval_days" bson:"watering_interval_days"`

	Type           string `json:"type,omitempty" bson:"type,omitempty"`
	Light          string `json:"light,omitempty" bson:"light,omitempty"`
	CareDifficulty string `json:"care_difficulty,omitempty" bson:"care_difficulty,omitempty"`
}

// ParseRange parses a "min,max" pair. It rejects malformed input and
// unordered pairs so callers can fall back instead of misclassifying.
func ParseRange(s string) (min, max float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("range %q is not a min,max pair", s)
	}
	min, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("range %q has invalid minimum: %w", s, err)
	}
	max, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("range %q has invalid maximum: %w", s, err)
	}
	if min > max {
		return 0, 0, fmt.Errorf("range %q is not ordered", s)
	}
	return min, max, nil
}

// SoilBounds returns the soil moisture range, ok=false if unparsable.
func (s *SpeciesProfile) SoilBounds() (min, max float64, ok bool) {
	min, max, err := ParseRange(s.SoilMoistureRange)
	return min, max, err == nil
}

// AirBounds returns the air humidity range, ok=false if absent or unparsable.
func (s *SpeciesProfile) AirBounds() (min, max float64, ok bool) {
	if strings.TrimSpace(s.AirHumidityRange) == "" {
		return 0, 0, false
	}
	min, max, err := ParseRange(s.AirHumidityRange)
	return min, max, err == nil
}

// SoilMinimumOrDefault returns the dry threshold for the watering sweep,
// falling back to DefaultSoilMinimumPct on a malformed range.
func (s *SpeciesProfile) SoilMinimumOrDefault() float64 {
	if min, _, ok := s.SoilBounds(); ok {
		return min
	}
	return DefaultSoilMinimumPct
}
