package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/traceback-app/traceback/app/models"
	"github.com/traceback-app/traceback/app/repository"
)

type createLostItemRequest struct {
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	LostAt      time.Time `json:"lost_at"`
}

// HandleCreateLostItem files a lost report. An unresolved report matching a
// private found item's category and location grants early visibility.
func HandleCreateLostItem(c *fiber.Ctx) error {
	var req createLostItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid request body",
		})
	}

	viewer := viewerFromCtx(c)
	if req.LostAt.IsZero() {
		req.LostAt = time.Now()
	}
	item := &models.LostItem{
		UserID:      viewer.UserID,
		Title:       req.Title,
		Category:    req.Category,
		Location:    req.Location,
		Description: req.Description,
		LostAt:      req.LostAt,
	}
	if err := item.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	}

	if err := repository.GetGlobalFactory().GetLostItemRepository().Create(item); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "could not create lost report",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":   item.ID,
		"uuid": item.UUID,
	})
}

// HandleBrowseLostItems lists lost reports. Lost reports are always public.
func HandleBrowseLostItems(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 100 {
		limit = 50
	}

	items, err := repository.GetGlobalFactory().GetLostItemRepository().List(offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "could not load lost reports",
		})
	}
	return c.JSON(fiber.Map{"items": items})
}

// HandleMyLostItems lists the current user's lost reports.
func HandleMyLostItems(c *fiber.Ctx) error {
	viewer := viewerFromCtx(c)
	items, err := repository.GetGlobalFactory().GetLostItemRepository().ListByUser(viewer.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "could not load lost reports",
		})
	}
	return c.JSON(fiber.Map{"items": items})
}

// HandleResolveLostItem marks a lost report as resolved, which also revokes
// the early visibility it granted.
func HandleResolveLostItem(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid lost report id",
		})
	}

	repo := repository.GetGlobalFactory().GetLostItemRepository()
	item, err := repo.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "lost report not found",
		})
	}

	viewer := viewerFromCtx(c)
	if item.UserID != viewer.UserID && !viewer.IsModerator {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "only the reporter may resolve this",
		})
	}

	if err := repo.MarkResolved(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "could not resolve lost report",
		})
	}
	return c.JSON(fiber.Map{"message": "lost report resolved"})
}
