// internal/server/factory.go
package server

import (
	"crypto/tls"
	"fmt"

	"authgate/internal/auth/filter"
	"authgate/internal/auth/jwt"
	"authgate/internal/config"
	"authgate/internal/observability"
	"authgate/internal/proxy/router"
	"authgate/internal/render"
	"authgate/internal/store/sqlite"
	tlsconfig "authgate/internal/tls"
)

// NewFromConfig creates a new server from configuration
func NewFromConfig(cfg *config.Config) (*Server, error) {
	// Initialize observability
	obs, err := observability.NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	logger := obs.Logger

	// Initialize TLS configuration
	var tlsCfg *tls.Config
	if cfg.TLS.Enabled {
		tlsSetup := &tlsconfig.Config{
			Logger:   logger,
			CertPath: cfg.TLS.CertPath,
			KeyPath:  cfg.TLS.KeyPath,
		}
		tlsCfg, err = tlsSetup.GetTLSConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS configuration: %w", err)
		}
	}

	// Initialize token verifier
	tokenManager, err := jwt.New(jwt.Config{
		Secret: cfg.Auth.JWT.Secret,
		Issuer: cfg.Auth.JWT.Issuer,
		TTL:    cfg.Auth.JWT.TTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token manager: %w", err)
	}

	// Initialize user store (backs both resolvers)
	userStore, err := sqlite.Open(cfg.Store.Path, logger, obs.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to open user store: %w", err)
	}

	// Initialize the authentication filter with its collaborators
	renderer := render.NewJSONRenderer(logger)
	authFilter := filter.New(tokenManager, userStore, userStore, renderer, logger, obs.Metrics)

	// Initialize router
	proxyRouter := router.New(router.Config{
		UpstreamURL:     cfg.Upstream.URL,
		UpstreamTimeout: cfg.Upstream.Timeout,
		PublicPaths:     cfg.Auth.PublicPaths,
	}, authFilter.Middleware, logger, obs.Metrics)

	// Create complete middleware chain: observability -> router (the router
	// applies the filter to non-public paths)
	handler := obs.Middleware(proxyRouter)

	srv := New(Config{
		Address:         cfg.Server.Address,
		MetricsAddress:  cfg.Metrics.Address,
		TLSConfig:       tlsCfg,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, handler, obs.MetricsHandler(), logger)

	srv.OnStop(userStore.Close)

	return srv, nil
}
