package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/registo/internal/flagx"
	"github.com/dmitrijs2005/registo/internal/timex"
)

// ConfigEnvVar names the variable consulted when no -c/-config flag is given.
const ConfigEnvVar = "REGISTO_SERVER_CONFIG"

// JSONConfig is a DTO used exclusively for JSON unmarshalling.
type JSONConfig struct {
	EndpointAddrGRPC      string          `json:"grpc_address"`
	DatabaseDSN           string          `json:"database_dsn"`
	SecretKey             string          `json:"secret_key"`
	IndexedFields         []string        `json:"indexed_fields"`
	ListenerRetryInterval *timex.Duration `json:"listener_retry_interval"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args, ConfigEnvVar)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.EndpointAddrGRPC != "" {
		cfg.EndpointAddrGRPC = jc.EndpointAddrGRPC
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.IndexedFields != nil {
		cfg.IndexedFields = jc.IndexedFields
	}
	if jc.ListenerRetryInterval != nil {
		cfg.ListenerRetryInterval = jc.ListenerRetryInterval.Duration
	}
	return nil
}
