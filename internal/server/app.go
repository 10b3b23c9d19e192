// Package server initializes and runs the suggestion box server.
// It opens the database, applies migrations, resolves the session signing
// secret, and starts the HTTP API with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/suggestbox/internal/common"
	"github.com/dmitrijs2005/suggestbox/internal/logging"
	"github.com/dmitrijs2005/suggestbox/internal/server/config"
	"github.com/dmitrijs2005/suggestbox/internal/server/httpapi"
	"github.com/dmitrijs2005/suggestbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/suggestbox/internal/server/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	messageService *services.MessageService
	authService    *services.AuthService
}

func NewApp(c *config.Config) (*App, error) {

	s := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(s)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("repository init error: %w", err)
	}

	secret, err := resolveSessionSecret(c)
	if err != nil {
		return nil, err
	}

	ms := services.NewMessageService(db, rm)
	as := services.NewAuthService(c, secret)

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		repomanager:    rm,
		messageService: ms,
		authService:    as,
	}, nil
}

// resolveSessionSecret returns the configured signing secret, or a random
// process-lifetime one when none is pinned. A minted secret is written back
// into the config in hex form, so the single decode path below covers both
// cases. Without a pinned secret every outstanding session is invalidated
// by a restart.
func resolveSessionSecret(c *config.Config) ([]byte, error) {
	if c.SessionSecret == "" {
		minted, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("session secret generation error: %w", err)
		}
		c.SessionSecret = minted
	}

	secret, err := hex.DecodeString(c.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid session secret: %w", err)
	}
	return secret, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewServer(app.config.EndpointAddr, app.logger,
		app.messageService, app.authService,
		app.config.StaticDir, app.config.SessionValidityDuration)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, "migration error", "error", err.Error())
		return
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
