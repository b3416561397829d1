package handlers

import (
	"errors"
	"log"

	"issuetracker/internal/middleware"
	"issuetracker/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// IssueHandler handles HTTP requests for issues. All routes require the
// session guard; the owner is always the authenticated caller.
type IssueHandler struct {
	service  *services.IssueService
	validate *validator.Validate
}

// NewIssueHandler creates a new IssueHandler.
func NewIssueHandler(service *services.IssueService) *IssueHandler {
	return &IssueHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the issue routes on an already-guarded router
// group. /summary must come before /:id so it is not captured as an ID.
func (h *IssueHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/", h.HandleCreate)
	router.Get("/", h.HandleList)
	router.Get("/summary", h.HandleSummary)
	router.Get("/:id", h.HandleGetByID)
	router.Put("/:id", h.HandleUpdate)
	router.Delete("/:id", h.HandleDelete)
}

// CreateIssueRequest represents the request body for creating an issue.
type CreateIssueRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Status      string `json:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS DONE"`
	Priority    string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
}

// UpdateIssueRequest is a partial patch: absent fields keep their prior value.
type UpdateIssueRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Status      *string `json:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS DONE"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
}

// HandleCreate creates a new issue owned by the caller.
func (h *IssueHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create issue request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Title is required",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	issue, err := h.service.Create(middleware.UserID(c), services.CreateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		if errors.Is(err, services.ErrTitleRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Title is required",
			})
		}
		log.Printf("Error creating issue: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Issue created",
		"issue":   issue,
	})
}

// HandleList returns one page of the caller's issues, optionally filtered by
// status, priority and a case-insensitive search over title and description.
func (h *IssueHandler) HandleList(c *fiber.Ctx) error {
	page, err := h.service.List(middleware.UserID(c), services.ListParams{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
		Page:     c.QueryInt("page", services.DefaultPage),
		Limit:    c.QueryInt("limit", services.DefaultLimit),
	})
	if err != nil {
		log.Printf("Error listing issues: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
		})
	}
	return c.JSON(page)
}

// HandleSummary returns per-status counts for the caller's issues. All three
// keys are always present, even at zero.
func (h *IssueHandler) HandleSummary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(middleware.UserID(c))
	if err != nil {
		log.Printf("Error summarizing issues: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
		})
	}
	return c.JSON(summary)
}

// HandleGetByID returns a single issue owned by the caller.
func (h *IssueHandler) HandleGetByID(c *fiber.Ctx) error {
	issue, err := h.service.GetByID(middleware.UserID(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Issue not found",
			})
		}
		log.Printf("Error getting issue %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
		})
	}
	return c.JSON(fiber.Map{"issue": issue})
}

// HandleUpdate applies a partial patch to an issue owned by the caller.
func (h *IssueHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update issue request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	issue, err := h.service.Update(middleware.UserID(c), c.Params("id"), services.UpdateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Issue not found",
			})
		case errors.Is(err, services.ErrTitleRequired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Title is required",
			})
		}
		log.Printf("Error updating issue %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Issue updated",
		"issue":   issue,
	})
}

// HandleDelete permanently removes an issue owned by the caller.
func (h *IssueHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(middleware.UserID(c), c.Params("id")); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Issue not found",
			})
		}
		log.Printf("Error deleting issue %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Issue deleted",
	})
}
