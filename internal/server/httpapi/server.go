// Package httpapi exposes the credential service over HTTP/JSON. Routes
// under /api/v1: health, auth/register and auth/login are public; the
// users endpoints sit behind the bearer-token middleware.
package httpapi

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address string
	users   *users.Service
	codec   *auth.TokenCodec
	logger  logging.Logger
	db      *sql.DB
}

func NewServer(a string, l logging.Logger, us *users.Service, codec *auth.TokenCodec, db *sql.DB) (*Server, error) {
	return &Server{
		address: a,
		logger:  l.With("module", "http_server"),
		users:   us,
		codec:   codec,
		db:      db,
	}, nil
}

func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api/v1")

	api.GET("/health", s.healthCheck)
	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)

	protected := api.Group("/users")
	protected.Use(s.authRequired())
	protected.GET("/me", s.getCurrentUser)
	protected.GET("/:id", s.getUserByID)

	return router
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.setupRouter(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "error shutting down server", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
