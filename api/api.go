package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papergrid/askdocs/pkg/chat"
)

// requestIDKey is the fiber locals key carrying the per-request ID.
const requestIDKey = "request_id"

// Server is the API server for answering questions over the document corpus.
type Server struct {
	config   Config
	registry *chat.Registry
	logger   *zap.Logger
	app      *fiber.App
}

// errorResponse is the JSON error body for failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

// NewServer creates a new API server. The strategy registry is injected and
// read-only for the server's lifetime.
func NewServer(config Config, registry *chat.Registry, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:   config,
		registry: registry,
		logger:   logger,
		app:      app,
	}

	app.Use(s.requestID)

	app.Get("/ping", s.handlePing)
	app.Post("/v1/chat", s.handleChat)

	return s
}

// requestID tags every request with a UUID for log correlation.
func (s *Server) requestID(c *fiber.Ctx) error {
	c.Locals(requestIDKey, uuid.NewString())
	return c.Next()
}

func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
		zap.Strings("strategies", s.registry.Keys()),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
