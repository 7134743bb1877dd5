// Package httpapi exposes the REST surface of the server: account
// registration and login, plus the authenticated currency endpoints that
// proxy the upstream exchange provider. Every response uses the uniform
// {status, message, data} envelope.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dpavlenko/curex/internal/logging"
	"github.com/dpavlenko/curex/internal/server/accounts"
)

// Exchanger is the upstream provider surface the handlers need. Implemented
// by exchange.Client; stubbed in tests.
type Exchanger interface {
	Latest(ctx context.Context, base, target string) ([]byte, error)
	History(ctx context.Context, base, fromDate, toDate string) ([]byte, error)
	Info(ctx context.Context, currency string) ([]byte, error)
}

type Server struct {
	address   string
	logger    logging.Logger
	accounts  *accounts.Service
	exchange  Exchanger
	jwtSecret []byte
	engine    *gin.Engine
}

func NewServer(address string, l logging.Logger, as *accounts.Service, ex Exchanger, secretKey string) *Server {
	s := &Server{
		address:   address,
		logger:    l.With("module", "httpapi"),
		accounts:  as,
		exchange:  ex,
		jwtSecret: []byte(secretKey),
	}
	s.engine = s.buildEngine()
	return s
}

func (s *Server) buildEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())

	engine.NoRoute(func(c *gin.Context) {
		notFound(c, "route not found")
	})

	v1 := engine.Group("/api/v1")

	// registration and login bypass the auth guard
	v1.POST("/register", s.handleRegister)
	v1.POST("/login", s.handleLogin)

	currencies := v1.Group("/currencies", s.requireAuth())
	currencies.GET("/exchange", s.handleExchange)
	currencies.GET("/history", s.handleHistory)
	currencies.GET("/:currency", s.handleCurrencyInfo)

	return engine
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.engine,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
