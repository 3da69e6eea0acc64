package entities

import "time"

// Sensor readings older than this window are not trusted for classification.
const SensorFreshnessWindow = 24 * time.Hour

// Margins applied outside the species ranges before a label is raised.
// Fixed on purpose: they keep classification from flapping right at a
// threshold boundary.
const (
	SoilMarginPct = 15.0
	AirMarginPct  = 20.0
	TempMarginC   = 5.0
)

// Reading is one set of sensor measurements from a soil probe.
type Reading struct {
	SoilMoisturePct float64 `json:"soil_moisture_pct" bson:"soil_moisture_pct"`
	AirHumidityPct  float64 `json:"air_humidity_pct" bson:"air_humidity_pct"`
	TemperatureC    float64 `json:"temperature_c" bson:"temperature_c"`
}

// CareFacts are the calendar-side inputs to health classification.
type CareFacts struct {
	LastWateredAt              time.Time
	TargetWateringIntervalDays int
	HasSensor                  bool
	LastSeenAt                 *time.Time
}

// CalendarOverdue reports whether the watering interval has elapsed.
func (f CareFacts) CalendarOverdue(now time.Time) bool {
	if f.LastWateredAt.IsZero() || f.TargetWateringIntervalDays <= 0 {
		return false
	}
	return now.After(f.LastWateredAt.AddDate(0, 0, f.TargetWateringIntervalDays))
}

// CanTrustSensor reports whether a linked sensor has reported recently
// enough for its data to override calendar heuristics.
func (f CareFacts) CanTrustSensor(now time.Time) bool {
	return f.HasSensor && f.LastSeenAt != nil && now.Sub(*f.LastSeenAt) < SensorFreshnessWindow
}

// ClassifyHealth fuses calendar facts with an optional sensor reading and
// optional species thresholds into a single health label. Pure function;
// evaluated in fixed priority order, first match wins.
//
// Fresh sensor evidence overrides the calendar in both directions: it can
// clear an overdue warning or raise one the calendar would have missed.
// Stale or absent sensor data never suppresses a calendar-based alert.
func ClassifyHealth(facts CareFacts, reading *Reading, species *SpeciesProfile, now time.Time) HealthStatus {
	if species == nil {
		return HealthUnknown
	}
	if reading != nil && reading.TemperatureC <= 0 {
		// Hard safety override, independent of species thresholds.
		return HealthFreezingRisk
	}

	overdue := facts.CalendarOverdue(now)
	trusted := facts.CanTrustSensor(now)

	soilWithinRange := false
	if reading != nil && trusted {
		if min, max, ok := species.SoilBounds(); ok {
			if reading.SoilMoisturePct < min-SoilMarginPct {
				return HealthThirsty
			}
			if reading.SoilMoisturePct > max+SoilMarginPct {
				return HealthOverwatered
			}
			soilWithinRange = reading.SoilMoisturePct >= min && reading.SoilMoisturePct <= max
		}
	}

	if reading != nil {
		if reading.TemperatureC < float64(species.MinTemperatureC)-TempMarginC {
			return HealthTooCold
		}
		if reading.TemperatureC > float64(species.MaxTemperatureC)+TempMarginC {
			return HealthTooHot
		}
	}

	if reading != nil && trusted {
		if min, max, ok := species.AirBounds(); ok {
			if reading.AirHumidityPct < min-AirMarginPct {
				return HealthDryAir
			}
			if reading.AirHumidityPct > max+AirMarginPct {
				return HealthTooHumid
			}
		}
	}

	// Calendar fallback: fires when sensor data is absent, stale, or
	// itself ambiguous about soil moisture.
	if overdue && !(trusted && soilWithinRange) {
		return HealthThirsty
	}

	return HealthHealthy
}
