package handlers

import (
	"fmt"
	"log"

	"blog/internal/apperr"
	"blog/internal/auth"
	"blog/internal/media"
	"blog/internal/middleware"
	"blog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ImageHandler stores uploaded post images.
type ImageHandler struct {
	store    *media.LocalStore
	posts    *services.PostService
	policy   *auth.Policy
	validate *validator.Validate
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(store *media.LocalStore, posts *services.PostService, policy *auth.Policy) *ImageHandler {
	return &ImageHandler{
		store:    store,
		posts:    posts,
		policy:   policy,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the upload route and serves stored images.
func (h *ImageHandler) RegisterRoutes(router fiber.Router) {
	router.Put("/images", h.HandleUpload)
	router.Static("/images", h.store.Dir())
}

// UploadForm holds the non-file fields of an image upload.
type UploadForm struct {
	OldPath string `form:"oldPath" validate:"omitempty,max=2048"`
}

// HandleUpload saves the "image" file and, when oldPath is given, removes
// the image it replaces.
func (h *ImageHandler) HandleUpload(c *fiber.Ctx) error {
	rc := middleware.RequestContext(c)
	if _, err := h.policy.Authorize(auth.OpUploadImage, rc); err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(fiber.Map{"message": "No image provided"})
	}

	var form UploadForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing upload form: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(form); err != nil {
		return apperr.Validation("Invalid input", []apperr.Violation{{Field: "oldPath", Message: "Invalid image path"}})
	}

	if file.Size > media.MaxUploadSize {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, fmt.Sprintf("Image larger than %d bytes", media.MaxUploadSize))
	}
	if !media.AllowedContentType(file.Header.Get(fiber.HeaderContentType)) {
		return apperr.Validation("Invalid input", []apperr.Violation{{Field: "image", Message: "Only png, jpg and jpeg images are allowed"}})
	}

	name := h.store.NewFileName(file.Filename)
	if err := c.SaveFile(file, h.store.Path(name)); err != nil {
		return apperr.Internal("Could not store image", err)
	}

	if err := h.posts.ReplaceImage(c.UserContext(), rc, form.OldPath); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Image stored",
		"filePath": h.store.URL(name),
	})
}
