package config

import (
	"flag"

	"github.com/dmitrijs2005/registo/internal/flagx"
)

var knownFlags = []string{"-d", "-b", "-a", "-s", "-p", "-t", "-ttl", "-l", "-e"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-d string     local database file
//	-b string     remote backend: "", grpc or firestore
//	-a string     document server address
//	-s string     shared auth secret
//	-p string     Firestore project id
//	-t duration   wait for the first snapshot per subscription strategy (0 waits)
//	-ttl duration access token lifetime
//	-l string     log file ("" disables logging)
//	-e string     export directory
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("registo", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database file")
	fs.StringVar(&cfg.RemoteBackend, "b", cfg.RemoteBackend, "remote backend: grpc or firestore (empty for local only)")
	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.AuthSecret, "s", cfg.AuthSecret, "shared secret used to sign access tokens")
	fs.StringVar(&cfg.FirestoreProjectID, "p", cfg.FirestoreProjectID, "firestore project id")
	fs.DurationVar(&cfg.SubscribeTimeout, "t", cfg.SubscribeTimeout, "first snapshot timeout per subscription strategy")
	fs.DurationVar(&cfg.TokenTTL, "ttl", cfg.TokenTTL, "access token lifetime")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file")
	fs.StringVar(&cfg.ExportDir, "e", cfg.ExportDir, "export directory")

	return fs.Parse(flagx.FilterArgs(args, knownFlags))
}
