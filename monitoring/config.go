package monitoring

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// A Config controls how the monitor serves.
type Config struct {
	// Port is the port the monitor listens on. Zero picks a random
	// port.
	Port int

	// OpenDashboard opens the monitor URL in the local browser once the
	// server is up.
	OpenDashboard bool
}

// LoadConfig reads the monitor configuration from the environment,
// considering a .env file in the working directory when present. Recognized
// variables are RCLGO_MONITOR_PORT and RCLGO_MONITOR_OPEN.
func LoadConfig() Config {
	// A missing .env file is fine; the process environment still applies.
	_ = godotenv.Load()

	cfg := Config{}

	if port, err := strconv.Atoi(os.Getenv("RCLGO_MONITOR_PORT")); err == nil {
		cfg.Port = port
	}

	if open, err := strconv.ParseBool(os.Getenv("RCLGO_MONITOR_OPEN")); err == nil {
		cfg.OpenDashboard = open
	}

	return cfg
}
