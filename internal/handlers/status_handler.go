package handlers

import (
	"blog/internal/middleware"
	"blog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StatusHandler exposes the caller's status line.
type StatusHandler struct {
	service *services.UserService
}

func NewStatusHandler(service *services.UserService) *StatusHandler {
	return &StatusHandler{service: service}
}

func (h *StatusHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/status", h.HandleGetStatus)
	router.Patch("/status", h.HandleUpdateStatus)
}

// StatusRequest is the body of PATCH /status.
type StatusRequest struct {
	Status string `json:"status"`
}

func (h *StatusHandler) HandleGetStatus(c *fiber.Ctx) error {
	status, err := h.service.Status(c.UserContext(), middleware.RequestContext(c))
	if err != nil {
		return err
	}
	return c.JSON(StatusRequest{Status: status})
}

func (h *StatusHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	ack, err := h.service.UpdateStatus(c.UserContext(), middleware.RequestContext(c), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(ack)
}
