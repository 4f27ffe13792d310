package main

import (
	"flag"
	"fmt"

	"voxelapi.dev/internal/config"
)

// parseFlags overrides s with command line flags and validates the result.
func parseFlags(fs *flag.FlagSet, args []string, s config.HostSettings) (config.HostSettings, error) {
	fs.StringVar(&s.Addr, "addr", s.Addr, "http listen address")
	fs.StringVar(&s.ConfigDir, "configs", s.ConfigDir, "config directory (blocks.json, items.json)")
	fs.StringVar(&s.DimensionsPath, "dimensions", s.DimensionsPath, "dimensions.yaml path (default: <configs>/dimensions.yaml)")
	fs.StringVar(&s.SchemaDir, "schemas", s.SchemaDir, "schema directory used to validate dimensions.yaml (skipped if missing)")
	fs.StringVar(&s.DataDir, "data", s.DataDir, "runtime data directory")
	fs.BoolVar(&s.DisableDB, "disable_db", s.DisableDB, "disable the sqlite explosion index")
	fs.Float64Var(&s.RateLimit, "rate", s.RateLimit, "explosion requests per second")
	fs.IntVar(&s.RateBurst, "burst", s.RateBurst, "explosion request burst")
	fs.IntVar(&s.RelayQueue, "relay_queue", s.RelayQueue, "per-observer relay buffer")
	fs.Float64Var(&s.MaxBlastRadius, "max_radius", s.MaxBlastRadius, "largest accepted blast radius")
	fs.DurationVar(&s.ShutdownGrace, "shutdown_grace", s.ShutdownGrace, "time allowed for in-flight requests on shutdown")
	if err := fs.Parse(args); err != nil {
		return s, err
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("flags: %w", err)
	}
	return s, nil
}
