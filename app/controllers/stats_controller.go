package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/traceback-app/traceback/app/repository"
	"github.com/traceback-app/traceback/internal/pkg/statistics"
)

// HandleGetStatistics serves the public success counters.
func HandleGetStatistics(c *fiber.Ctx) error {
	return c.JSON(statistics.GetStatistics())
}

// HandleRecentReturns serves the latest archived returns. The archive only
// carries anonymized identities, so this is safe to expose publicly.
func HandleRecentReturns(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 50 {
		limit = 10
	}

	returns, err := repository.GetGlobalFactory().GetReturnRepository().ListRecent(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "could not load returns",
		})
	}

	type entry struct {
		ItemTitle      string `json:"item_title"`
		Category       string `json:"category"`
		Location       string `json:"location"`
		FinalizedAt    string `json:"finalized_at"`
		DaysToFinalize int    `json:"days_to_finalize"`
	}
	entries := make([]entry, 0, len(returns))
	for _, ret := range returns {
		entries = append(entries, entry{
			ItemTitle:      ret.ItemTitle,
			Category:       ret.Category,
			Location:       ret.Location,
			FinalizedAt:    ret.FinalizedAt.UTC().Format("2006-01-02"),
			DaysToFinalize: ret.DaysToFinalize,
		})
	}
	return c.JSON(fiber.Map{"returns": entries})
}
