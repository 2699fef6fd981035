package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/traceback-app/traceback/app/models"
	"github.com/traceback-app/traceback/app/repository"
)

type resolveReportRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// HandleListOpenReports serves the open abuse reports for the moderation
// queue, auto-generated false-claim reports included.
func HandleListOpenReports(c *fiber.Ctx) error {
	reports, err := repository.GetGlobalFactory().GetAbuseReportRepository().ListOpen()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "could not load reports",
		})
	}
	return c.JSON(fiber.Map{"reports": reports})
}

// HandleListClosedReports serves recently closed reports.
func HandleListClosedReports(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	reports, err := repository.GetGlobalFactory().GetAbuseReportRepository().ListRecentClosed(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "could not load reports",
		})
	}
	return c.JSON(fiber.Map{"reports": reports})
}

// HandleResolveReport closes an abuse report with a moderator verdict.
func HandleResolveReport(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid report id",
		})
	}

	var req resolveReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid request body",
		})
	}
	if req.Status != models.ReportStatusResolved && req.Status != models.ReportStatusDismissed {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": "status must be resolved or dismissed",
		})
	}

	viewer := viewerFromCtx(c)
	repo := repository.GetGlobalFactory().GetAbuseReportRepository()
	if _, err := repo.GetByID(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "report not found",
		})
	}
	if err := repo.Resolve(id, viewer.UserID, req.Status, req.Notes); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "could not resolve report",
		})
	}
	return c.JSON(fiber.Map{"message": "report " + req.Status})
}
