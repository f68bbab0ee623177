package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/registo/internal/client/client"
	"github.com/dmitrijs2005/registo/internal/client/config"
	"github.com/dmitrijs2005/registo/internal/client/models"
	"github.com/dmitrijs2005/registo/internal/client/report"
	"github.com/dmitrijs2005/registo/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/registo/internal/client/repositories/mirror"
	"github.com/dmitrijs2005/registo/internal/client/services"
	"github.com/dmitrijs2005/registo/internal/logging"
)

type App struct {
	config        *config.Config
	log           logging.Logger
	entryService  services.EntryService
	exportService services.ExportService
	canUpload     bool
	period        report.Period
	reader        *bufio.Reader
	out           io.Writer
	now           func() time.Time
	db            *sql.DB
}

// NewApp opens the local database, the remote store (when configured) and
// builds the services behind the REPL.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	remote, err := client.Open(ctx, remoteOptions(c))
	if err != nil {
		log.Warn(ctx, "remote store unavailable, continuing with local mirror", "backend", c.RemoteBackend, "error", err)
		remote = nil
	}

	es := services.NewEntryService(remote, mirror.New(metadata.NewSQLiteRepository(db), log), services.EntryServiceOptions{
		SubscribeTimeout: c.SubscribeTimeout,
		Logger:           log,
	})

	var uploader services.Uploader
	storage := services.NewS3Storage(services.S3Options{
		Region:          c.S3Region,
		Endpoint:        c.S3BaseEndpoint,
		Bucket:          c.S3Bucket,
		AccessKeyID:     c.S3AccessKeyID,
		SecretAccessKey: c.S3SecretAccessKey,
		Prefix:          c.S3Prefix,
		UsePathStyle:    c.S3UsePathStyle,
	}, nil)
	if storage.Configured() {
		uploader = storage
	}

	return &App{
		config:        c,
		log:           log,
		entryService:  es,
		exportService: services.NewExportService(c.ExportDir, uploader, time.Now),
		canUpload:     uploader != nil,
		period:        report.PeriodAll,
		reader:        bufio.NewReader(os.Stdin),
		out:           os.Stdout,
		now:           time.Now,
		db:            db,
	}, nil
}

func remoteOptions(c *config.Config) client.Options {
	return client.Options{
		Backend:                  c.RemoteBackend,
		Collection:               c.Collection,
		GRPCAddr:                 c.ServerEndpointAddr,
		ClientID:                 c.ClientID,
		AuthSecret:               c.AuthSecret,
		TokenTTL:                 c.TokenTTL,
		FirestoreProjectID:       c.FirestoreProjectID,
		FirestoreCredentialsFile: c.FirestoreCredentialsFile,
	}
}

// Run initializes the entry store and blocks in the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.close(ctx)

	if err := a.entryService.Initialize(ctx); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Welcome to registo (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) close(ctx context.Context) {
	if err := a.entryService.Close(); err != nil {
		a.log.Error(ctx, "error closing entry store", "error", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Error(ctx, "error closing database", "error", err)
		}
	}
}

func (a *App) getStatus() string {
	return fmt.Sprintf("(%s, %s)", a.entryService.Mode(), a.period.Label())
}

// visible is the current entry list narrowed to the selected period.
func (a *App) visible() []models.Entry {
	return report.FilterByPeriod(a.entryService.Entries(), a.period, a.now())
}
