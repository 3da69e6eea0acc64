// Package config gathers the environment-driven settings in one place so
// no adapter or service reads the environment on its own.
package config

import (
	"os"
	"time"
)

// Config holds all runtime settings.
type Config struct {
	Port string

	MongoURI      string
	MongoDatabase string

	JWTSecret string

	FirebaseProjectID       string
	FirebaseCredentialsFile string

	// Sweep timer periods and the run-lock guards. The guard is the
	// minimum elapsed time before a sweep may run again; the connectivity
	// guard sits below its period to tolerate clock jitter across
	// instances.
	WateringSweepPeriod     time.Duration
	WateringSweepGuard      time.Duration
	ConnectivitySweepPeriod time.Duration
	ConnectivitySweepGuard  time.Duration
}

// Load reads configuration from the environment, applying defaults for
// anything unset. Call godotenv.Load first if a .env file should apply.
func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		MongoURI:                getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:           getEnv("MONGODB_DATABASE", "sprouty"),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		WateringSweepPeriod:     getDuration("WATERING_SWEEP_PERIOD", 12*time.Hour),
		WateringSweepGuard:      getDuration("WATERING_SWEEP_GUARD", 12*time.Hour),
		ConnectivitySweepPeriod: getDuration("CONNECTIVITY_SWEEP_PERIOD", 6*time.Hour),
		ConnectivitySweepGuard:  getDuration("CONNECTIVITY_SWEEP_GUARD", 5*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
