package entities

import "errors"

// Sentinel errors for conditions callers are expected to branch on.
var (
	ErrPlantNotFound   = errors.New("plant not found")
	ErrSpeciesNotFound = errors.New("species profile not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrSensorNotLinked = errors.New("sensor not linked to any plant")
	ErrSensorInUse     = errors.New("sensor already linked to another plant")
	ErrNotOwner        = errors.New("plant does not belong to this user")
)
