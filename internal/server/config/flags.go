package config

import (
	"flag"
	"strings"

	"github.com/dmitrijs2005/registo/internal/flagx"
)

var knownFlags = []string{"-a", "-d", "-s", "-i", "-r"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string     gRPC bind address
//	-d string     PostgreSQL DSN
//	-s string     token secret
//	-i string     comma separated indexed fields
//	-r duration   listener reconnect interval
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("registo-server", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointAddrGRPC, "a", cfg.EndpointAddrGRPC, "address and port to run gRPC server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key for access tokens")
	fs.Func("i", "comma separated list of indexed fields", func(v string) error {
		cfg.IndexedFields = splitFields(v)
		return nil
	})
	fs.DurationVar(&cfg.ListenerRetryInterval, "r", cfg.ListenerRetryInterval, "listener reconnect interval")

	return fs.Parse(flagx.FilterArgs(args, knownFlags))
}

func splitFields(v string) []string {
	var out []string
	for _, f := range strings.Split(v, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
