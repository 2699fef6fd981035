package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/traceback-app/traceback/app/models"
	"github.com/traceback-app/traceback/internal/pkg/statistics"
)

type submitAttemptRequest struct {
	Answers models.AnswerSet `json:"answers"`
	Name    string           `json:"name"`
	Email   string           `json:"email"`
	Phone   string           `json:"phone"`
}

type arbitrationRequest struct {
	AttemptID     uint   `json:"attempt_id"`
	Justification string `json:"justification"`
}

type resolveClaimRequest struct {
	Outcome string `json:"outcome"`
}

// HandleGetQuestions serves an item's security questions to a would-be
// claimant, with the correct choices stripped.
func HandleGetQuestions(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid item id",
		})
	}

	questions, err := GetClaimEngine().IssueQuestions(id, viewerFromCtx(c))
	if err != nil {
		return respondEngineError(c, err)
	}
	return c.JSON(fiber.Map{"questions": questions})
}

// HandleSubmitAttempt records and scores a claimant's answer set.
func HandleSubmitAttempt(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid item id",
		})
	}

	var req submitAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid request body",
		})
	}

	claimant := claimantFromCtx(c, req.Name, req.Email, req.Phone)
	result, err := GetClaimEngine().SubmitAttempt(id, claimant, req.Answers)
	if err != nil {
		return respondEngineError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleMyAttempts lists the current claimant's attempts.
func HandleMyAttempts(c *fiber.Ctx) error {
	claimant := claimantFromCtx(c, "", "", "")
	attempts, err := GetClaimEngine().AttemptsForClaimant(claimant)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "could not load attempts",
		})
	}
	return c.JSON(fiber.Map{"attempts": attempts})
}

// HandleMarkPotentialClaimer lets the finder shortlist an attempt.
func HandleMarkPotentialClaimer(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid item id",
		})
	}

	var req arbitrationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid request body",
		})
	}

	if err := GetClaimEngine().MarkPotentialClaimer(id, req.AttemptID, viewerFromCtx(c)); err != nil {
		return respondEngineError(c, err)
	}
	return c.JSON(fiber.Map{"message": "potential claimer marked"})
}

// HandleFinalize completes the handover to a marked potential claimer.
func HandleFinalize(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid item id",
		})
	}

	var req arbitrationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid request body",
		})
	}

	claim, err := GetClaimEngine().Finalize(id, req.AttemptID, viewerFromCtx(c), req.Justification)
	if err != nil {
		return respondEngineError(c, err)
	}

	statistics.ResetCacheUpdateTimer()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"claim_id":          claim.ID,
		"resolution_status": claim.ResolutionStatus,
		"resolved_at":       claim.ResolvedAt,
	})
}

// HandleRecordAgreedClaim records an informally agreed handover as a pending
// claim without touching the item.
func HandleRecordAgreedClaim(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid item id",
		})
	}

	var req arbitrationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid request body",
		})
	}

	claim, err := GetClaimEngine().RecordAgreedClaim(id, req.AttemptID, viewerFromCtx(c), req.Justification)
	if err != nil {
		return respondEngineError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"claim_id":          claim.ID,
		"resolution_status": claim.ResolutionStatus,
	})
}

// HandleResolveClaim moves a pending claim to CLAIMED or NOT_CLAIMED.
func HandleResolveClaim(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid claim id",
		})
	}

	var req resolveClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid request body",
		})
	}

	result, err := GetClaimEngine().ResolveClaim(id, viewerFromCtx(c), req.Outcome)
	if err != nil {
		return respondEngineError(c, err)
	}
	return c.JSON(result)
}

// HandleGetClaim serves a claim to one of its parties or a moderator.
func HandleGetClaim(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid claim id",
		})
	}

	eng := GetClaimEngine()
	claim, err := eng.GetClaim(id, viewerFromCtx(c))
	if err != nil {
		return respondEngineError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":                   claim.ID,
		"item_title":           claim.ItemTitle,
		"justification":        claim.Justification,
		"resolution_status":    claim.ResolutionStatus,
		"verification_date":    claim.VerificationDate,
		"resolved_at":          claim.ResolvedAt,
		"contact_visible":      eng.ContactVisible(claim),
		"disclosure_remaining": int(eng.DisclosureRemaining(claim).Seconds()),
	})
}

// HandleGetContact serves the counterpart's contact card during disclosure.
func HandleGetContact(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid claim id",
		})
	}

	card, err := GetClaimEngine().ContactPair(id, viewerFromCtx(c))
	if err != nil {
		return respondEngineError(c, err)
	}
	return c.JSON(card)
}

// HandleMyClaims lists the claims where the current user is a party.
func HandleMyClaims(c *fiber.Ctx) error {
	viewer := viewerFromCtx(c)
	claims, err := GetClaimEngine().ClaimsForUser(viewer.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "could not load claims",
		})
	}
	return c.JSON(fiber.Map{"claims": claims})
}
