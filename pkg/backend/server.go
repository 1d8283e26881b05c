package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cecil-the-coder/book-cover-gateway/pkg/backend/handlers"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/backend/middleware"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/backendtypes"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/catalog"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/forwarder"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/hostresolver"
	gwhttp "github.com/cecil-the-coder/book-cover-gateway/pkg/http"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/providers/openai"
	"github.com/cecil-the-coder/book-cover-gateway/pkg/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Server is the gateway HTTP server
type Server struct {
	config     backendtypes.BackendConfig
	logger     *zap.Logger
	httpServer *http.Server
	router     chi.Router
	resolver   *hostresolver.Resolver
	images     *openai.ImageProvider
	catalog    *catalog.Client
	limiter    *middleware.ClientLimiter
}

// NewServer wires the upstream clients, forwarder and routes for config
func NewServer(config backendtypes.BackendConfig, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	resolver, err := hostresolver.NewResolver(config.Catalog.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid default catalog backend: %w", err)
	}

	s := &Server{
		config:   config,
		logger:   logger,
		resolver: resolver,
		images: openai.NewImageProvider(
			config.Images.URL,
			gwhttp.NewHTTPClient(gwhttp.HTTPClientConfig{Timeout: config.Images.Timeout, Transport: SharedTransport}),
			logger.Named(types.UpstreamOpenAI),
		),
		catalog: catalog.NewClient(
			gwhttp.NewHTTPClient(gwhttp.HTTPClientConfig{Timeout: config.Catalog.Timeout, Transport: SharedTransport}),
			logger.Named(types.UpstreamCatalog),
		),
	}

	if config.RateLimit.Enabled {
		s.limiter = middleware.NewClientLimiter(config.RateLimit.RequestsPerMinute, config.RateLimit.Burst)
	}

	s.setupRoutes()
	return s, nil
}

// setupRoutes registers all HTTP routes with their corresponding handlers
func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(s.middlewares()...)

	upstreams := map[string]handlers.MetricsSource{
		types.UpstreamOpenAI:  s.images,
		types.UpstreamCatalog: s.catalog,
	}
	healthHandler := handlers.NewHealthHandler(upstreams, s.config.Server.Version)
	metricsHandler := handlers.NewMetricsHandler(upstreams)
	gateway := handlers.NewGatewayHandler(
		forwarder.New(s.images, s.catalog, s.logger.Named("forwarder")),
		s.resolver,
		s.logger,
	)

	// Health and status endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/status", healthHandler.Status)
	r.Get("/version", healthHandler.Version)
	r.Get("/api/metrics/upstreams", metricsHandler.GetUpstreamMetrics)
	r.Get("/api/metrics/system", metricsHandler.GetSystemMetrics)

	// Cover generation is the only route that spends the caller's image credits
	if s.limiter != nil {
		r.With(middleware.RateLimit(s.limiter, s.logger)).Post("/api/cover-generator", gateway.GenerateCover)
	} else {
		r.Post("/api/cover-generator", gateway.GenerateCover)
	}

	r.Post("/api/signup", gateway.Signup)
	r.Post("/api/login", gateway.Login)

	r.Route("/api/books", func(r chi.Router) {
		r.Get("/", gateway.ListBooks)
		r.Post("/", gateway.CreateBook)
		r.Put("/", gateway.UpdateBook)
		r.Delete("/", gateway.DeleteBook)
		r.Post("/check", gateway.CheckBook)
		r.Post("/publish", gateway.Publish)
	})

	r.Put("/api/image", gateway.UpdateImage)
	r.Post("/api/image/check", gateway.CheckImage)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.SendError(w, r, "NOT_FOUND", "No route for "+r.URL.Path, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.SendError(w, r, "METHOD_NOT_ALLOWED", r.Method+" is not allowed on "+r.URL.Path, http.StatusMethodNotAllowed)
	})

	s.router = r
}

// middlewares returns the chain in execution order:
// Recovery -> Logging -> RequestID -> CORS -> Auth -> Handler
func (s *Server) middlewares() []func(http.Handler) http.Handler {
	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.Logging(s.logger),
		middleware.RequestID,
	}

	if s.config.CORS.Enabled {
		chain = append(chain, middleware.CORS(middleware.CORSConfig{
			AllowedOrigins:   s.config.CORS.AllowedOrigins,
			AllowedMethods:   s.config.CORS.AllowedMethods,
			AllowedHeaders:   s.config.CORS.AllowedHeaders,
			MaxAge:           s.config.CORS.MaxAge,
			AllowCredentials: s.config.CORS.AllowCredentials,
		}))
	}

	if s.config.Auth.Enabled {
		chain = append(chain, middleware.Auth(middleware.AuthConfig{
			Enabled:     true,
			APIPassword: s.config.Auth.APIPassword,
			APIKeyEnv:   s.config.Auth.APIKeyEnv,
			PublicPaths: s.config.Auth.PublicPaths,
			Logger:      s.logger,
		}))
	}

	return chain
}

// Handler returns the routed, middleware-wrapped handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Server.Host, fmt.Sprint(s.config.Server.Port))
}

// Start starts the HTTP server and begins listening for requests
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown is called
func (s *Server) Serve(ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadTimeout:       s.config.Server.ReadTimeout,
		ReadHeaderTimeout: s.config.Server.ReadTimeout,
		WriteTimeout:      s.config.Server.WriteTimeout,
		ErrorLog:          zap.NewStdLog(s.logger),
	}

	s.logger.Info("starting server",
		zap.String("addr", ln.Addr().String()),
		zap.String("version", s.config.Server.Version),
		zap.String("default_backend", s.resolver.Default().BaseURL()),
		zap.Bool("rate_limit", s.limiter != nil),
		zap.Bool("auth", s.config.Auth.Enabled))

	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// ListenAndServeWithGracefulShutdown starts the server and shuts it down
// once shutdownSignal is closed or receives
func (s *Server) ListenAndServeWithGracefulShutdown(shutdownSignal <-chan struct{}) error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-shutdownSignal:
		timeout := s.config.Server.ShutdownTimeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return s.Shutdown(ctx)
	}
}
