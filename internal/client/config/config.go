package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the registo client.
type Config struct {
	DatabasePath string `envconfig:"DATABASE_PATH"`

	// RemoteBackend selects the remote store: "" (local mirror only),
	// "grpc" or "firestore".
	RemoteBackend      string `envconfig:"REMOTE_BACKEND"`
	Collection         string `envconfig:"COLLECTION"`
	ServerEndpointAddr string `envconfig:"SERVER_ADDR"`
	AuthSecret         string `envconfig:"AUTH_SECRET"`
	ClientID           string `envconfig:"CLIENT_ID"`

	// TokenTTL is the lifetime of each access token minted for the
	// document server.
	TokenTTL time.Duration `envconfig:"TOKEN_TTL"`

	FirestoreProjectID       string `envconfig:"FIRESTORE_PROJECT_ID"`
	FirestoreCredentialsFile string `envconfig:"FIRESTORE_CREDENTIALS_FILE"`

	// SubscribeTimeout bounds the wait for a strategy's first snapshot.
	// Zero waits until the subscription delivers or fails.
	SubscribeTimeout time.Duration `envconfig:"SUBSCRIBE_TIMEOUT"`

	LogFile  string `envconfig:"LOG_FILE"`
	LogLevel string `envconfig:"LOG_LEVEL"`

	ExportDir string `envconfig:"EXPORT_DIR"`

	S3Region          string `envconfig:"S3_REGION"`
	S3BaseEndpoint    string `envconfig:"S3_BASE_ENDPOINT"`
	S3Bucket          string `envconfig:"S3_BUCKET"`
	S3AccessKeyID     string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Prefix          string `envconfig:"S3_PREFIX"`
	S3UsePathStyle    bool   `envconfig:"S3_USE_PATH_STYLE"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "registo.db"
	c.RemoteBackend = ""
	c.Collection = "entries"
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.ClientID = defaultClientID()
	c.TokenTTL = 5 * time.Minute
	c.SubscribeTimeout = 0
	c.LogFile = "registo.log"
	c.LogLevel = "info"
	c.ExportDir = "exports"
	c.S3Region = "us-east-1"
	c.S3Prefix = "exports"
	c.S3UsePathStyle = true
}

func defaultClientID() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return "registo-client"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
