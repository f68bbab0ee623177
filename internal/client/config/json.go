package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/registo/internal/flagx"
	"github.com/dmitrijs2005/registo/internal/timex"
)

// ConfigEnvVar names the variable consulted when no -c/-config flag is given.
const ConfigEnvVar = "REGISTO_CONFIG"

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Pointer and
// zero-value fields that are absent in the file leave Config untouched.
type JSONConfig struct {
	DatabasePath             string          `json:"database_path"`
	RemoteBackend            *string         `json:"remote_backend"`
	Collection               string          `json:"collection"`
	ServerEndpointAddr       string          `json:"server_endpoint_addr"`
	AuthSecret               string          `json:"auth_secret"`
	ClientID                 string          `json:"client_id"`
	TokenTTL                 *timex.Duration `json:"token_ttl"`
	FirestoreProjectID       string          `json:"firestore_project_id"`
	FirestoreCredentialsFile string          `json:"firestore_credentials_file"`
	SubscribeTimeout         *timex.Duration `json:"subscribe_timeout"`
	LogFile                  *string         `json:"log_file"`
	LogLevel                 string          `json:"log_level"`
	ExportDir                string          `json:"export_dir"`
	S3Region                 string          `json:"s3_region"`
	S3BaseEndpoint           string          `json:"s3_base_endpoint"`
	S3Bucket                 string          `json:"s3_bucket"`
	S3AccessKeyID            string          `json:"s3_access_key_id"`
	S3SecretAccessKey        string          `json:"s3_secret_access_key"`
	S3Prefix                 string          `json:"s3_prefix"`
	S3UsePathStyle           *bool           `json:"s3_use_path_style"`
}

// parseJSON overlays cfg with the file named by -c/-config or REGISTO_CONFIG.
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

	setString(&cfg.DatabasePath, jc.DatabasePath)
	if jc.RemoteBackend != nil {
		cfg.RemoteBackend = *jc.RemoteBackend
	}
	setString(&cfg.Collection, jc.Collection)
	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.AuthSecret, jc.AuthSecret)
	setString(&cfg.ClientID, jc.ClientID)
	if jc.TokenTTL != nil {
		cfg.TokenTTL = jc.TokenTTL.Duration
	}
	setString(&cfg.FirestoreProjectID, jc.FirestoreProjectID)
	setString(&cfg.FirestoreCredentialsFile, jc.FirestoreCredentialsFile)
	if jc.SubscribeTimeout != nil {
		cfg.SubscribeTimeout = jc.SubscribeTimeout.Duration
	}
	if jc.LogFile != nil {
		cfg.LogFile = *jc.LogFile
	}
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.ExportDir, jc.ExportDir)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3AccessKeyID, jc.S3AccessKeyID)
	setString(&cfg.S3SecretAccessKey, jc.S3SecretAccessKey)
	setString(&cfg.S3Prefix, jc.S3Prefix)
	if jc.S3UsePathStyle != nil {
		cfg.S3UsePathStyle = *jc.S3UsePathStyle
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
