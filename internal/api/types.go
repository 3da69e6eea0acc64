package api

// SensorDataRequest is one reading submitted by a hardware sensor.
type SensorDataRequest struct {
	SensorID     string  `json:"sensor_id"`
	Temperature  float64 `json:"temperature"`
	HumidityAir  float64 `json:"humidity_air"`
	HumiditySoil float64 `json:"humidity_soil"`
}

// CreatePlantRequest registers a new plant for the authenticated user.
type CreatePlantRequest struct {
	SpeciesID  string `json:"species_id"`
	CustomName string `json:"custom_name,omitempty"`
}

// LinkSensorRequest binds a sensor to a plant; an empty id unbinds.
type LinkSensorRequest struct {
	SensorID string `json:"sensor_id"`
}

// RenameRequest sets or clears a plant's display name.
type RenameRequest struct {
	Name string `json:"name"`
}

// NotificationsRequest toggles alert delivery for a plant.
type NotificationsRequest struct {
	Enabled bool `json:"enabled"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
