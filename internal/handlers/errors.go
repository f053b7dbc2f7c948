package handlers

import (
	"errors"
	"log"

	"blog/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string             `json:"message"`
	Status  int                `json:"status"`
	Data    []apperr.Violation `json:"data,omitempty"`
}

// ErrorHandler renders errors returned by handlers. Application errors keep
// their message and status, Fiber errors keep their code, and anything else
// becomes a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	resp := ErrorResponse{Message: "An error occurred", Status: fiber.StatusInternalServerError}

	var appErr *apperr.Error
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		resp.Message = appErr.Message
		resp.Status = apperr.StatusOf(appErr)
		resp.Data = appErr.Data
		if appErr.Kind == apperr.KindInternal {
			log.Printf("Internal error on %s %s: %v", c.Method(), c.Path(), err)
		}
	case errors.As(err, &fiberErr):
		resp.Message = fiberErr.Message
		resp.Status = fiberErr.Code
	default:
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(resp.Status).JSON(resp)
}
