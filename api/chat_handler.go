package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papergrid/askdocs/pkg/chat"
)

// chatRequest is the body of POST /v1/chat.
type chatRequest struct {
	// Strategy selects the registered retrieval strategy.
	Strategy string `json:"strategy"`

	// History is the conversation, oldest first; the last turn is the one
	// being answered.
	History chat.History `json:"history"`

	// Overrides carries per-request configuration.
	Overrides chat.Overrides `json:"overrides"`
}

// handleChat runs the selected retrieval strategy for one conversation turn.
// Unknown strategies and malformed bodies are client errors; any pipeline
// failure surfaces as a server error with the failure's message, never
// swallowed.
func (s *Server) handleChat(c *fiber.Ctx) error {
	requestID, _ := c.Locals(requestIDKey).(string)

	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error: "invalid request body: " + err.Error(),
		})
	}

	impl, err := s.registry.Get(req.Strategy)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error: err.Error(),
		})
	}

	start := time.Now()
	result, err := impl.Run(c.Context(), req.History, req.Overrides)
	if err != nil {
		// Malformed template overrides surface as server errors rather
		// than being downgraded to the default template.
		status := fiber.StatusInternalServerError
		if errors.Is(err, chat.ErrEmptyHistory) {
			status = fiber.StatusBadRequest
		}

		s.logger.Error("chat request failed",
			zap.String("request_id", requestID),
			zap.String("strategy", req.Strategy),
			zap.Error(err),
		)

		return c.Status(status).JSON(errorResponse{
			Error: err.Error(),
		})
	}

	s.logger.Info("chat request answered",
		zap.String("request_id", requestID),
		zap.String("strategy", req.Strategy),
		zap.Int("data_points", len(result.DataPoints)),
		zap.Duration("duration", time.Since(start)),
	)

	return c.JSON(result)
}
