package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/traceback-app/traceback/app/models"
	"github.com/traceback-app/traceback/app/repository"
	"github.com/traceback-app/traceback/internal/pkg/claimengine"
	"github.com/traceback-app/traceback/internal/pkg/statistics"
)

type createFoundItemRequest struct {
	Title       string                      `json:"title"`
	Category    string                      `json:"category"`
	Location    string                      `json:"location"`
	Description string                      `json:"description"`
	Color       string                      `json:"color"`
	Size        string                      `json:"size"`
	ImageURL    string                      `json:"image_url"`
	FoundAt     time.Time                   `json:"found_at"`
	Questions   []claimengine.QuestionInput `json:"questions"`
}

// HandleCreateFoundItem reports a new found item with its security questions.
func HandleCreateFoundItem(c *fiber.Ctx) error {
	var req createFoundItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid request body",
		})
	}

	viewer := viewerFromCtx(c)
	if req.FoundAt.IsZero() {
		req.FoundAt = time.Now()
	}
	item := &models.FoundItem{
		FinderID:    viewer.UserID,
		Title:       req.Title,
		Category:    req.Category,
		Location:    req.Location,
		Description: req.Description,
		Color:       req.Color,
		Size:        req.Size,
		ImageURL:    req.ImageURL,
		FoundAt:     req.FoundAt,
	}

	if err := GetClaimEngine().CreateFoundItem(item, req.Questions); err != nil {
		return respondEngineError(c, err)
	}

	statistics.ResetCacheUpdateTimer()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":           item.ID,
		"uuid":         item.UUID,
		"claim_status": item.ClaimStatus,
	})
}

// HandleBrowseFoundItems lists the items the current viewer may see.
func HandleBrowseFoundItems(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 100 {
		limit = 50
	}

	views, err := GetClaimEngine().BrowseItems(viewerFromCtx(c), offset, limit)
	if err != nil {
		return respondEngineError(c, err)
	}
	return c.JSON(fiber.Map{"items": views})
}

// HandleGetFoundItem serves one item in the viewer's projection.
func HandleGetFoundItem(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid item id",
		})
	}

	view, err := GetClaimEngine().GetItem(id, viewerFromCtx(c))
	if err != nil {
		return respondEngineError(c, err)
	}
	return c.JSON(view)
}

// HandleMyFoundItems lists the items the current user reported as finder.
func HandleMyFoundItems(c *fiber.Ctx) error {
	viewer := viewerFromCtx(c)
	items, err := repository.GetGlobalFactory().GetFoundItemRepository().ListByFinder(viewer.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "could not load items",
		})
	}

	eng := GetClaimEngine()
	views := make([]claimengine.ItemView, 0, len(items))
	for i := range items {
		views = append(views, eng.View(&items[i], claimengine.LevelFull, viewer))
	}
	return c.JSON(fiber.Map{"items": views})
}

// HandleListAttempts serves the attempt ledger of an item to its finder.
func HandleListAttempts(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid item id",
		})
	}

	attempts, err := GetClaimEngine().AttemptsForFinder(id, viewerFromCtx(c))
	if err != nil {
		return respondEngineError(c, err)
	}
	return c.JSON(fiber.Map{"attempts": attempts})
}

// HandleWithdrawFoundItem removes an item and its ledger before finalization.
func HandleWithdrawFoundItem(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid item id",
		})
	}

	if err := GetClaimEngine().Withdraw(id, viewerFromCtx(c)); err != nil {
		return respondEngineError(c, err)
	}

	statistics.ResetCacheUpdateTimer()

	return c.JSON(fiber.Map{"message": "item withdrawn"})
}
