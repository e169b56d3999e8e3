package serve

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/swaplane/swaplane/cmd/env"
	"github.com/swaplane/swaplane/engine"
	"github.com/swaplane/swaplane/server"
	"github.com/swaplane/swaplane/server/config"
	"github.com/swaplane/swaplane/storage/sql"
	"github.com/swaplane/swaplane/track"
)

type serveSQLCfg struct {
	rootCfg *serveCfg
}

// newServeSQLCmd creates the serve sql command
func newServeSQLCmd(rootCfg *serveCfg) *ffcli.Command {
	cfg := &serveSQLCfg{
		rootCfg: rootCfg,
	}

	fs := flag.NewFlagSet("sql", flag.ExitOnError)
	cfg.rootCfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "sql",
		ShortUsage: "serve sql [flags]",
		LongHelp:   "Serves the swaplane exchange backend, using an SQL datastore",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

// exec executes the server serve command
func (c *serveSQLCfg) exec(ctx context.Context, _ []string) error {
	// Read the server configuration, if any
	if c.rootCfg.configPath != "" {
		serverCfg, err := config.Read(c.rootCfg.configPath)
		if err != nil {
			return fmt.Errorf("unable to read server config, %w", err)
		}

		c.rootCfg.config = serverCfg
	}

	// Create a new logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	// DB
	dsn := os.Getenv(env.Prefix + env.DBURLSuffix)
	if dsn == "" {
		return fmt.Errorf("missing %s", env.Prefix+env.DBURLSuffix)
	}

	// Open the DB connection pool
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("unable to open DB connection: %w", err)
	}
	defer pool.Close()

	// Check DB reachability
	pingCtx, cancelPing := context.WithTimeout(ctx, time.Second*5)
	defer cancelPing()

	if err = pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("unable to reach DB (ping): %w", err)
	}

	logger.Info("DB ping success")

	// Create the upstream provider client
	client, err := providerFromEnv()
	if err != nil {
		return fmt.Errorf("unable to create provider client: %w", err)
	}

	// Create an SQL store
	store := sql.NewStorage(pool)

	// Create the orchestration engine
	e := engine.New(
		client,
		engine.NewRateCache(client),
		engine.WithLogger(logger),
	)

	// Create the status tracker, picking up exchanges
	// that were in flight before the restart
	tracker := track.New(store, e, track.WithLogger(logger))

	if err := tracker.Resume(ctx); err != nil {
		return fmt.Errorf("unable to resume tracking: %w", err)
	}

	// Create the server instance
	s, err := server.New(
		e,
		store,
		server.WithLogger(logger),
		server.WithConfig(c.rootCfg.config),
		server.WithTracker(tracker),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)

	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	// Start the HTTP server
	group.Go(func() error {
		return s.Serve(gCtx)
	})

	// Start the status tracker
	group.Go(func() error {
		return tracker.Start(gCtx)
	})

	return group.Wait()
}
