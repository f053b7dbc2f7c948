package handlers

import (
	"log"
	"strconv"

	"blog/internal/middleware"
	"blog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	service *services.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service *services.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// RegisterRoutes registers the post routes with the Fiber app.
func (h *PostHandler) RegisterRoutes(router fiber.Router) {
	postRoutes := router.Group("/posts")
	postRoutes.Get("/", h.HandleListPosts)
	postRoutes.Get("/:id", h.HandleGetPost)
	postRoutes.Post("/", h.HandleCreatePost)
	postRoutes.Put("/:id", h.HandleUpdatePost)
	postRoutes.Delete("/:id", h.HandleDeletePost)
}

// HandleListPosts returns one page of posts. A missing or unparsable page
// query selects the first page.
func (h *PostHandler) HandleListPosts(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		page = 1
	}

	result, err := h.service.List(c.UserContext(), page)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// HandleGetPost retrieves a single post by its ID.
func (h *PostHandler) HandleGetPost(c *fiber.Ctx) error {
	post, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(post)
}

// HandleCreatePost creates a post owned by the token holder.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	var req services.PostInput
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create post request body: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	post, err := h.service.Create(c.UserContext(), middleware.RequestContext(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// HandleUpdatePost overwrites an existing post.
func (h *PostHandler) HandleUpdatePost(c *fiber.Ctx) error {
	var req services.PostInput
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update post request body: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	post, err := h.service.Update(c.UserContext(), middleware.RequestContext(c), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(post)
}

// HandleDeletePost removes a post and its image.
func (h *PostHandler) HandleDeletePost(c *fiber.Ctx) error {
	ack, err := h.service.Delete(c.UserContext(), middleware.RequestContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(ack)
}
