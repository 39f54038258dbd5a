// Package server wires storage, the server identity, the attendance
// services and the transports, and runs them until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/dbx"
	"github.com/dmitrijs2005/gophattend/internal/logging"
	"github.com/dmitrijs2005/gophattend/internal/ratelimiter"
	"github.com/dmitrijs2005/gophattend/internal/server/config"
	"github.com/dmitrijs2005/gophattend/internal/server/metrics"
	"github.com/dmitrijs2005/gophattend/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophattend/internal/server/services"
	"github.com/dmitrijs2005/gophattend/internal/signature"
	"github.com/dmitrijs2005/gophattend/internal/timex"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/gophattend/internal/server/grpc"
)

const (
	exportURLValidity = 15 * time.Minute
	limiterIdleTTL    = 10 * time.Minute
)

var sqlOpen = sql.Open

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	serverKey *signature.KeyPair
	metrics   *metrics.Recorder
	replay    *services.ReplayGuard
	grpc      *gs.GRPCServer
}

// NewApp prepares storage and loads or creates the server identity. The
// gRPC listener is not opened until Run.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}

	app := &App{config: c, logger: logger}

	var (
		m  repomanager.RepositoryManager
		tx dbx.Transactor
	)
	if c.DatabaseDSN != "" {
		db, err := app.openDB(ctx)
		if err != nil {
			return nil, err
		}
		app.db = db
		m = repomanager.NewPostgresRepositoryManager()
		if err := m.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}
		tx = dbx.NewSQLTransactor(db, nil)
	} else {
		logger.Warn(ctx, "no database configured, keeping registry and ledger in memory", "key_file", c.ServerKeyFile)
		m = repomanager.NewMemoryRepositoryManager(c.ServerKeyFile)
		tx = dbx.NoTx{}
	}

	key, err := services.LoadOrCreateServerIdentity(ctx, m.ServerKeys(tx.Conn()), c.KeyPassphrase, timex.SystemClock, logger)
	if err != nil {
		app.closeDB()
		return nil, fmt.Errorf("server identity error: %w", err)
	}
	app.serverKey = key

	rec := metrics.New()
	app.metrics = rec
	app.replay = services.NewReplayGuard(c.ReuseWindow)

	registry := services.NewIdentityRegistry(tx, m, timex.SystemClock, logger, rec)
	ledger := services.NewAttendanceLedger(tx, m, loc)
	svc := gs.Services{
		Issuer:   services.NewChallengeIssuer(key, c.SlotInterval, timex.SystemClock, rec),
		Registry: registry,
		Ledger:   ledger,
		Protocol: services.NewAuthenticationProtocol(registry, key.PublicKeyString(), app.replay, ledger, services.ProtocolOptions{
			Grace:   c.Grace,
			Clock:   timex.SystemClock,
			Logger:  logger,
			Metrics: rec,
		}),
		Exports: services.NewExportService(ledger, services.NewS3ObjectStore(c), exportURLValidity, timex.SystemClock, logger),
	}

	app.grpc = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, svc, gs.Options{
		SecretKey:        c.SecretKey,
		OpenRegistration: c.OpenRegistration,
		Limiter:          ratelimiter.New(c.RateLimitRPS, c.RateLimitBurst, limiterIdleTTL),
		Metrics:          rec,
		Clock:            timex.SystemClock,
	})

	return app, nil
}

func (app *App) openDB(ctx context.Context) (*sql.DB, error) {
	db, err := sqlOpen("pgx", app.config.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

func (app *App) closeDB() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpc.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:              app.config.EndpointAddrMetrics,
		Handler:           app.metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a shutdown signal arrives.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.closeDB()

	app.logger.Info(ctx, "Starting app...",
		"server_public_key", app.serverKey.PublicKeyString(),
		"slot_interval", app.config.SlotInterval.String(),
		"grace", app.config.Grace.String(),
		"reuse_window", app.config.ReuseWindow.String(),
	)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.EndpointAddrMetrics != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	if app.config.ReplayCompactionInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.replay.Run(ctx, app.config.ReplayCompactionInterval, timex.SystemClock)
		}()
	}

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
}
