package entities

import "time"

// User is the slice of the account record the engine cares about: the
// push-token needed to address notifications. Account lifecycle is owned
// by an external collaborator.
type User struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Email     string    `json:"email" bson:"email"`
	FCMToken  string    `json:"fcm_token,omitempty" bson:"fcm_token,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// HistoryEntry is one append-only telemetry record. The engine only ever
// writes these; they exist for external analytics and export.
type HistoryEntry struct {
	PlantID         string    `json:"plant_id" bson:"plant_id"`
	TemperatureC    float64   `json:"temperature_c" bson:"temperature_c"`
	AirHumidityPct  float64   `json:"air_humidity_pct" bson:"air_humidity_pct"`
	SoilMoisturePct float64   `json:"soil_moisture_pct" bson:"soil_moisture_pct"`
	RecordedAt      time.Time `json:"recorded_at" bson:"recorded_at"`
}
