package fakeapi

import (
	"strconv"

	"github.com/alecap92/fcrm-automations/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/moogar0880/problems"
)

type handlers struct {
	store     *store
	validator *validator.Validate
	nodeTypes []models.NodeType
	modules   []models.ModuleEvent
}

func newHandlers(store *store) *handlers {
	return &handlers{
		store:     store,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		nodeTypes: defaultNodeTypes(),
		modules:   defaultModules(),
	}
}

// createAutomationRequest mirrors what the SPA submits on save.
type createAutomationRequest struct {
	Name        string        `json:"name"        validate:"required,min=3"`
	Description string        `json:"description"`
	Nodes       []models.Node `json:"nodes"       validate:"omitempty,dive"`
}

func (h *handlers) listAutomations(c fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	status := models.AutomationStatus(c.Query("status"))

	data, total := h.store.list(status, c.Query("search"), page, limit)

	return c.JSON(fiber.Map{
		"data":  data,
		"total": total,
	})
}

func (h *handlers) getAutomation(c fiber.Ctx) error {
	automation, ok := h.store.get(c.Params("id"))
	if !ok {
		return notFound(c, "Automation not found")
	}

	return c.JSON(fiber.Map{"data": automation})
}

func (h *handlers) createAutomation(c fiber.Ctx) error {
	var req createAutomationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created := h.store.create(&models.Automation{
		Name:        req.Name,
		Description: req.Description,
		Nodes:       req.Nodes,
	})

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *handlers) updateAutomation(c fiber.Ctx) error {
	var req createAutomationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, ok := h.store.update(c.Params("id"), &models.Automation{
		Name:        req.Name,
		Description: req.Description,
		Nodes:       req.Nodes,
	})
	if !ok {
		return notFound(c, "Automation not found")
	}

	return c.JSON(updated)
}

func (h *handlers) deleteAutomation(c fiber.Ctx) error {
	if !h.store.delete(c.Params("id")) {
		return notFound(c, "Automation not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Automation deleted",
	})
}

func (h *handlers) toggleAutomation(c fiber.Ctx) error {
	toggled, ok := h.store.toggle(c.Params("id"))
	if !ok {
		return notFound(c, "Automation not found")
	}

	return c.JSON(toggled)
}

func (h *handlers) executeAutomation(c fiber.Ctx) error {
	if _, ok := h.store.get(c.Params("id")); !ok {
		return notFound(c, "Automation not found")
	}

	var input map[string]any
	if err := c.Bind().JSON(&input); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	return c.JSON(fiber.Map{"executionId": uuid.New().String()})
}

func (h *handlers) listNodeTypes(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.nodeTypes})
}

func (h *handlers) listModules(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.modules})
}

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(fiber.StatusBadRequest).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(fiber.StatusNotFound).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}
