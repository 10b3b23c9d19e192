// Package httpapi exposes the suggestion box over HTTP: the public
// submission endpoint, the moderator auth endpoints, and the session-gated
// moderation endpoints, all JSON.
package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/suggestbox/internal/logging"
	"github.com/dmitrijs2005/suggestbox/internal/server/models"
	"github.com/kataras/iris/v12"
)

// MessageService is the store-facing surface the handlers need.
type MessageService interface {
	Submit(ctx context.Context, body, category string) (*models.Message, error)
	List(ctx context.Context) ([]*models.Message, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.Stats, error)
}

// AuthService is the auth gate consulted before every moderation operation.
type AuthService interface {
	Login(username, password string) (string, error)
	Check(token string) (string, bool)
}

type Server struct {
	address         string
	logger          logging.Logger
	messages        MessageService
	auth            AuthService
	staticDir       string
	sessionValidity time.Duration
}

func NewServer(a string, l logging.Logger, ms MessageService, as AuthService, staticDir string, sessionValidity time.Duration) (*Server, error) {
	return &Server{
		address:         a,
		logger:          l.With("module", "httpapi"),
		messages:        ms,
		auth:            as,
		staticDir:       staticDir,
		sessionValidity: sessionValidity,
	}, nil
}

// buildApp assembles the Iris application and its routes. Split from Run so
// tests can drive the handler tree without a listener.
func (s *Server) buildApp() *iris.Application {
	app := iris.New()

	if s.staticDir != "" {
		app.HandleDir("/", iris.Dir(s.staticDir))
	}

	api := app.Party("/api")

	// public
	api.Post("/auth/login", s.handleLogin)
	api.Post("/auth/logout", s.handleLogout)
	api.Get("/auth/check", s.handleCheckAuth)
	api.Post("/messages", s.handleSubmit)

	// moderation, gated by the session cookie
	protected := api.Party("/", s.requireSession)
	protected.Get("/messages", s.handleList)
	protected.Patch("/messages/{id:string}/read", s.handleMarkRead)
	protected.Delete("/messages/{id:string}", s.handleDelete)
	protected.Get("/stats", s.handleStats)

	return app
}

func (s *Server) Run(ctx context.Context) error {

	app := s.buildApp()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	err := app.Listen(s.address, iris.WithoutInterruptHandler, iris.WithoutStartupLog)
	if err != nil && !errors.Is(err, iris.ErrServerClosed) {
		return err
	}

	return nil
}
