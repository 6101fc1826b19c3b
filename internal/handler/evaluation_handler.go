package handler

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/mosab320010/-betc/internal/dto"
	"github.com/mosab320010/-betc/internal/service"
	"github.com/mosab320010/-betc/internal/utils"
)

// EvaluationHandler manages the evaluation session endpoints.
type EvaluationHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler builds an evaluation handler instance.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Post("", h.evaluate)
	router.Get("/current", h.current)
	router.Get("/current/report", h.report)
	router.Get("/current/meta", h.meta)
	router.Get("/current/export", h.export)
	router.Delete("/current", h.clear)
}

func (h *EvaluationHandler) evaluate(c *fiber.Ctx) error {
	var payload dto.EvaluateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Evaluate(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation completed", response)
}

func (h *EvaluationHandler) current(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "session retrieved", h.service.Current(c.Context()))
}

func (h *EvaluationHandler) report(c *fiber.Ctx) error {
	blocks, err := h.service.Report(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "report built", blocks)
}

func (h *EvaluationHandler) meta(c *fiber.Ctx) error {
	meta, err := h.service.Meta(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "result summary", meta)
}

func (h *EvaluationHandler) export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	filename, err := h.service.Export(c.Context(), &buf)
	if err != nil {
		return h.handleError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

func (h *EvaluationHandler) clear(c *fiber.Ctx) error {
	h.service.Clear(c.Context())
	return utils.SendSuccess(c, "session cleared", h.service.Current(c.Context()))
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrRequiredFields):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, service.ErrEvaluationInFlight):
		return utils.SendError(c, fiber.StatusConflict, "an evaluation is already in flight")
	case errors.Is(err, service.ErrNoResult):
		return utils.SendError(c, fiber.StatusNotFound, "no evaluation result available")
	case errors.Is(err, service.ErrEvaluationFailed):
		return utils.SendError(c, fiber.StatusBadGateway, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
