package adminapi

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/trtpd/trtpd/internal/logger"
	internalserver "github.com/trtpd/trtpd/internal/server"
	"github.com/trtpd/trtpd/pkg/adminapi/auth"
	"github.com/trtpd/trtpd/pkg/config"
)

// Server is the admin API's HTTP server. It is created in a stopped state;
// call Start to begin serving.
type Server struct {
	server       *http.Server
	config       config.AdminAPIConfig
	shutdownOnce sync.Once
}

// NewServer builds the admin API server from cfg and the protocol engine's
// shared state. The JWT service and operator credentials are constructed
// internally from cfg; a JWT secret shorter than 32 bytes is a
// configuration error.
func NewServer(cfg config.AdminAPIConfig, state *internalserver.State) (*Server, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("admin API JWT secret must be at least 32 characters; set admin_api.jwt_secret or %s", config.EnvJWTSecret)
	}

	jwtService, err := auth.NewJWTService(auth.Config{
		Secret:   cfg.JWTSecret,
		TokenTTL: cfg.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("create JWT service: %w", err)
	}

	operator := auth.Operator{
		Username:     cfg.OperatorUsername,
		PasswordHash: cfg.OperatorPasswordHash,
	}

	router := NewRouter(state, jwtService, operator)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.BindAddress, cfg.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		config: cfg,
	}, nil
}

// Start runs the admin API server until ctx is cancelled, then performs a
// graceful shutdown and returns.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("admin API listening", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("admin API server failed: %w", err)
	}
}

// Stop gracefully shuts down the server. Safe to call more than once.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		logger.Debug("admin API shutdown initiated")
		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("admin API shutdown error: %w", err)
			logger.Error("admin API shutdown error", logger.Err(err))
			return
		}
		logger.Info("admin API stopped gracefully")
	})
	return shutdownErr
}
