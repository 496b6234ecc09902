package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sia12-web/unihood/pkg/logger"
)

// DefaultRadiusM is the proximity radius used until the user picks one.
const DefaultRadiusM = 500

type Config struct {
	// ServerURL is the base URL of the uniHood server API.
	ServerURL string
	// UniHoodHome is the directory where the client stores local state
	// (access token, telemetry key).
	UniHoodHome string
	// AccessToken is the path to the access token file.
	AccessToken string

	// RadiusM is the initial proximity radius in meters.
	RadiusM int
	// Debug enables verbose logging.
	Debug bool
}

// Load loads configuration from environment and defaults.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	uniHoodHome := os.Getenv("UNIHOOD_HOME_DIR")
	if uniHoodHome == "" {
		uniHoodHome = filepath.Join(homeDir, ".unihood")
	}
	if err := os.MkdirAll(uniHoodHome, 0700); err != nil {
		return nil, fmt.Errorf("failed to create unihood home: %w", err)
	}

	serverURL := os.Getenv("UNIHOOD_SERVER_URL")
	if serverURL == "" {
		serverURL = "https://api.unihood.app"
	}

	radius := DefaultRadiusM
	if raw := os.Getenv("UNIHOOD_RADIUS_M"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid UNIHOOD_RADIUS_M %q", raw)
		}
		radius = parsed
	}

	if raw := os.Getenv("UNIHOOD_LOG_LEVEL"); raw != "" {
		level, err := logger.ParseLevel(raw)
		if err != nil {
			return nil, err
		}
		logger.SetLevel(level)
	}

	debug := os.Getenv("UNIHOOD_DEBUG") == "1" || os.Getenv("UNIHOOD_DEBUG") == "true"
	if debug {
		logger.SetLevel(logger.LevelDebug)
	}

	return &Config{
		ServerURL:   serverURL,
		UniHoodHome: uniHoodHome,
		AccessToken: filepath.Join(uniHoodHome, "access.token"),
		RadiusM:     radius,
		Debug:       debug,
	}, nil
}
