package bookshelf

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// App bundles the configured components of a bookshelf session.
type App struct {
	Logger *zap.Logger
	Config *Config
	Store  *Store
	Engine *Engine

	cleanups []func()
}

// NewApp loads the configuration then builds the logging, the storage
// backend, the catalog store (already loaded) and the discovery engine.
func NewApp(ctx context.Context, configFile, envFile, gitCommit, gitTag, buildTime string) (*App, error) {
	config, err := LoadAndInitConfigs(configFile, envFile, gitCommit, gitTag, buildTime)
	if err != nil {
		return nil, fmt.Errorf("failed to setup app configuration: %s", err)
	}

	clock := NewClock(config.IsProduction)
	logWriter := NewRSyncWriter(config, clock)
	logger, flusher := SetupLogging(config, logWriter, clock)

	app := &App{
		Logger: logger,
		Config: config,
		cleanups: []func(){
			func() { _ = flusher() },
			func() {
				if cerr := logWriter.Close(); cerr != nil {
					fmt.Fprintln(os.Stderr, "error during closing of log file: ", cerr)
				}
			},
		},
	}

	persister, err := NewPersister(logger, config)
	if err != nil {
		app.Clean()
		return nil, err
	}
	// registered first so it runs before the log flush.
	app.cleanups = append([]func(){func() {
		if cerr := persister.Close(); cerr != nil {
			logger.Error("failed to close storage", zap.String("backend", config.Storage.Backend), zap.Error(cerr))
		}
	}}, app.cleanups...)

	app.Store = NewStore(logger, clock, NewUUIDGenerator(BookIDPrefix), persister, config.Storage.Key)
	app.Store.Load(ctx)
	app.Engine = NewEngine(logger, config.Discovery, NewHTTPSearcher(logger, nil))

	logger.Info("app initialized",
		zap.String("storage.backend", config.Storage.Backend),
		zap.String("discovery.endpoint", config.Discovery.SearchEndpoint),
	)
	return app, nil
}

// NewPersister connects to the configured storage backend.
func NewPersister(logger *zap.Logger, config *Config) (Persister, error) {
	switch config.Storage.Backend {
	case BackendBolt:
		client, err := GetBoltDBClient(&config.BoltDB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to boltDB: %s", err)
		}
		return NewBoltPersister(logger, &config.BoltDB, client), nil
	case BackendRedis:
		client, err := GetRedisClient(&config.Redis)
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis server: %s", err)
		}
		return NewRedisPersister(logger, client, config.Redis.KeyPrefix), nil
	case BackendMemory:
		return NewMemoryPersister(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}
}

// Clean calls all registered cleanups functions.
func (app *App) Clean() {
	for _, f := range app.cleanups {
		f()
	}
}

// Discover shows the similar books of book until the discovery completes
// or the process is asked to stop. render receives every panel state.
// An interruption is not an error.
func (app *App) Discover(ctx context.Context, book Book, render func(PanelState)) error {
	nCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(nCtx)
	panel := NewSimilarPanel(gCtx, app.Engine, render)
	run := panel.Show(book)

	g.Go(func() error {
		_, err := run.Wait(gCtx)
		return err
	})
	g.Go(func() error {
		select {
		case <-run.Done():
			if gCtx.Err() == nil {
				return nil
			}
		case <-gCtx.Done():
		}
		app.Logger.Info("discovery stopping. reason: requested to stop", zap.String("book", book.ID))
		panel.Close()
		return nil
	})

	err := g.Wait()
	if err != nil && nCtx.Err() != nil {
		err = nil
	}
	phase, attempt := run.Phase()
	app.Logger.Info("discovery stopped",
		zap.String("book", book.ID),
		zap.Stringer("phase", phase),
		zap.Int("attempt", attempt),
		zap.Error(err),
	)
	return err
}
