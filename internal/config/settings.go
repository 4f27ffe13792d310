package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// HostSettings are the process settings of cmd/host. Flags override them.
type HostSettings struct {
	Addr           string        `env:"VOXELAPI_ADDR"            envDefault:":8080"`
	ConfigDir      string        `env:"VOXELAPI_CONFIGS"         envDefault:"./configs"`
	DimensionsPath string        `env:"VOXELAPI_DIMENSIONS"`
	SchemaDir      string        `env:"VOXELAPI_SCHEMAS"         envDefault:"./schemas"`
	DataDir        string        `env:"VOXELAPI_DATA"            envDefault:"./data"`
	DisableDB      bool          `env:"VOXELAPI_DISABLE_DB"`
	RateLimit      float64       `env:"VOXELAPI_RATE_LIMIT"      envDefault:"20"`
	RateBurst      int           `env:"VOXELAPI_RATE_BURST"      envDefault:"40"`
	RelayQueue     int           `env:"VOXELAPI_RELAY_QUEUE"     envDefault:"64"`
	ShutdownGrace  time.Duration `env:"VOXELAPI_SHUTDOWN_GRACE"  envDefault:"5s"`
	MaxBlastRadius float64       `env:"VOXELAPI_MAX_BLAST_RADIUS" envDefault:"16"`
}

// LoadHostSettings reads HostSettings from the environment.
func LoadHostSettings() (HostSettings, error) {
	var s HostSettings
	if err := env.Parse(&s); err != nil {
		return s, fmt.Errorf("parse env: %w", err)
	}
	return s, s.Validate()
}

func (s HostSettings) Validate() error {
	if s.RateLimit <= 0 {
		return fmt.Errorf("rate limit must be > 0")
	}
	if s.RateBurst <= 0 {
		return fmt.Errorf("rate burst must be > 0")
	}
	if s.RelayQueue <= 0 {
		return fmt.Errorf("relay queue must be > 0")
	}
	if s.MaxBlastRadius <= 0 {
		return fmt.Errorf("max blast radius must be > 0")
	}
	return nil
}
