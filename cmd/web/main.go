package main

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/fieldworks/skiptrace/internal/ai"
	"github.com/fieldworks/skiptrace/internal/broker"
	"github.com/fieldworks/skiptrace/internal/db"
	"github.com/fieldworks/skiptrace/internal/envstruct"
	"github.com/fieldworks/skiptrace/internal/errors"
	"github.com/fieldworks/skiptrace/internal/intel"
	"github.com/fieldworks/skiptrace/internal/kvstore"
	"github.com/fieldworks/skiptrace/internal/logging"
	"github.com/fieldworks/skiptrace/internal/orchestrator"
	"github.com/fieldworks/skiptrace/internal/osint"
	"github.com/fieldworks/skiptrace/internal/pprofserver"
	"github.com/joho/godotenv"
)

type config struct {
	Addr      string `env:"SKIPTRACE_ADDR" envDefault:"localhost:4000"`
	PprofPort string `env:"SKIPTRACE_PPROF_PORT" envDefault:":6060"`
	SQLiteURL string `env:"SKIPTRACE_SQLITE_URL" envDefault:"./skiptrace.sqlite"`
	OSINTURL  string `env:"SKIPTRACE_OSINT_URL" envDefault:"http://localhost:8000"`
}

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	intelStore     *intel.Store
	completer      ai.Completer
	osintClient    *osint.Client
	events         *broker.Broker[string, orchestrator.Message]

	mu            sync.Mutex
	orchestrators map[string]*orchestrator.Orchestrator
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "parse config")
	}

	pprofserver.Launch(cfg.PprofPort, logger)

	dbs, err := db.NewDatabase(cfg.SQLiteURL)
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	defer func() {
		if closeErr := dbs.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close database", errors.SlogError(closeErr))
		}
	}()

	go dbs.StartOptimizer(ctx, logger)

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite.DB, 24*time.Hour)
	sessionManager.Lifetime = 12 * time.Hour

	events := broker.New[string, orchestrator.Message]()
	go events.Start()
	defer events.Stop()

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		intelStore:     intel.NewStore(kvstore.NewSQLiteStore(dbs, logger), logger),
		completer:      ai.NewClient(),
		osintClient:    osint.NewClient(cfg.OSINTURL, logger),
		events:         events,
		orchestrators:  map[string]*orchestrator.Orchestrator{},
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

func main() {
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	})))
	ctx := context.Background()

	// Missing .env is fine in production where the environment is real.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.LogAttrs(ctx, slog.LevelError, "load .env", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server exited", errors.SlogError(err))
		os.Exit(1)
	}
}
