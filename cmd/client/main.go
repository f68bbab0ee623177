package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/registo/internal/client/cli"
	"github.com/dmitrijs2005/registo/internal/client/config"
	"github.com/dmitrijs2005/registo/internal/logging"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closer, err := logging.NewFileLogger(logging.FileOptions{
		Path:       cfg.LogFile,
		Level:      cfg.LogLevel,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	})
	if err != nil {
		log.Fatalf("log file: %v", err)
	}
	defer closer.Close()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "client stopped with error", "error", err)
		log.Fatalf("%v", err)
	}

}
