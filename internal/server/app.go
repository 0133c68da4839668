// Package server assembles the MindEase API: it opens the database, applies
// migrations, builds the services and runs the HTTP server until a signal
// arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/mindease/internal/common"
	"github.com/dmitrijs2005/mindease/internal/genai"
	"github.com/dmitrijs2005/mindease/internal/logging"
	"github.com/dmitrijs2005/mindease/internal/server/auth"
	"github.com/dmitrijs2005/mindease/internal/server/config"
	"github.com/dmitrijs2005/mindease/internal/server/httpapi"
	"github.com/dmitrijs2005/mindease/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mindease/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	server      *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	rm := repomanager.NewPostgresRepositoryManager()

	hasher := auth.NewPasswordHasher(c.BcryptCost, c.HashWorkers)
	tokens := auth.NewTokenIssuer([]byte(c.SecretKey), common.TokenValidity)
	gen := genai.NewClient(c.GenAIEndpoint, c.GenAIAPIKey, c.GenAIModel)

	if c.GenAIAPIKey == "" {
		logger.Warn(context.Background(), "GEMINI_API_KEY is not set, chat requests will fail")
	}

	svc := httpapi.Services{
		Users:     services.NewUserService(db, rm, hasher, tokens, c.StoreTimeout),
		Moods:     services.NewMoodService(db, rm, c.StoreTimeout),
		Journals:  services.NewJournalService(db, rm, c.StoreTimeout),
		Companion: services.NewCompanionService(gen, c.GenAITimeout),
		Wellness:  services.NewWellnessService(),
		Health:    db,
	}

	srv := httpapi.NewServer(c.ListenAddr, logger, svc, httpapi.Options{
		CORSOrigins:   c.CORSOrigins,
		AuthRateLimit: c.AuthRateLimit,
		AuthRateBurst: c.AuthRateBurst,
	})

	return &App{config: c, logger: logger, db: db, repomanager: rm, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run migrates the schema and serves until ctx is cancelled or a
// termination signal arrives. The database is closed on return.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, "migrations failed", "error", err.Error())
		return err
	}

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "server stopped", "error", err.Error())
		return err
	}

	app.logger.Info(context.Background(), "App stopped")
	return nil
}
