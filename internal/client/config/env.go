package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces the client's environment variables, e.g.
// REGISTO_SERVER_ADDR.
const EnvPrefix = "REGISTO"

// parseEnv overlays variables that are set; unset ones leave cfg untouched.
func parseEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	return nil
}
