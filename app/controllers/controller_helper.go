package controllers

import (
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/traceback-app/traceback/app/repository"
	"github.com/traceback-app/traceback/internal/pkg/claimengine"
	"github.com/traceback-app/traceback/internal/pkg/clock"
	"github.com/traceback-app/traceback/internal/pkg/notify"
	"github.com/traceback-app/traceback/internal/pkg/usercontext"
)

// Session keys written at login and read by the user context middleware.
const (
	AUTH_KEY          string = "authenticated"
	USER_ID           string = "user_id"
	USER_NAME         string = "username"
	USER_EMAIL        string = "user_email"
	USER_IS_MODERATOR string = "isModerator"
)

// ClaimTokenCookie carries the stable identity of anonymous claimants.
const ClaimTokenCookie = "claim_token"

var (
	engine     *claimengine.Engine
	engineOnce sync.Once
)

// InitializeClaimEngine wires the engine against the global repositories.
// Safe to call more than once; only the first call takes effect.
func InitializeClaimEngine() {
	engineOnce.Do(func() {
		cfg, err := claimengine.LoadConfig()
		if err != nil {
			log.Printf("Invalid claim engine configuration, falling back to defaults: %v", err)
			cfg = claimengine.DefaultConfig()
		}
		repos := repository.GetGlobalRepositories()
		engine = claimengine.New(cfg, clock.System{}, claimengine.Deps{
			Items:    repos.FoundItem,
			Attempts: repos.ClaimAttempt,
			Claims:   repos.Claim,
			Lost:     repos.LostItem,
			Reports:  repos.AbuseReport,
			Notifier: notify.NewService(),
		})
	})
}

// GetClaimEngine returns the initialized engine instance.
func GetClaimEngine() *claimengine.Engine {
	if engine == nil {
		panic("Claim engine not initialized. Call InitializeClaimEngine first.")
	}
	return engine
}

// viewerFromCtx builds the engine's viewer from the request's user context.
func viewerFromCtx(c *fiber.Ctx) claimengine.Viewer {
	userCtx := usercontext.GetUserContext(c)
	return claimengine.Viewer{
		UserID:      userCtx.UserID,
		Email:       userCtx.Email,
		IsModerator: userCtx.IsModerator,
	}
}

// claimantFromCtx builds the claimant identity for an attempt. Logged-in
// users claim under their account; guests get a stable token cookie and must
// provide contact details in the request body.
func claimantFromCtx(c *fiber.Ctx, name, email, phone string) claimengine.Claimant {
	userCtx := usercontext.GetUserContext(c)
	if userCtx.IsLoggedIn {
		return claimengine.Claimant{
			UserID: userCtx.UserID,
			Name:   userCtx.Username,
			Email:  userCtx.Email,
			Phone:  phone,
		}
	}

	token := c.Cookies(ClaimTokenCookie)
	if token == "" {
		token = uuid.New().String()
		c.Cookie(&fiber.Cookie{
			Name:     ClaimTokenCookie,
			Value:    token,
			HTTPOnly: true,
			Expires:  time.Now().AddDate(1, 0, 0),
		})
	}
	return claimengine.Claimant{
		AnonToken: token,
		Name:      name,
		Email:     email,
		Phone:     phone,
	}
}

// parseIDParam reads a numeric route parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// respondEngineError maps engine errors onto HTTP responses. Unknown errors
// become a 500 without leaking their message.
func respondEngineError(c *fiber.Ctx, err error) error {
	var wErr *claimengine.WindowNotElapsedError
	if errors.As(err, &wErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":             "window_not_elapsed",
			"message":           wErr.Error(),
			"remaining_seconds": int(wErr.Remaining.Seconds()),
		})
	}
	var vErr *claimengine.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": vErr.Reason,
		})
	}

	switch {
	case errors.Is(err, claimengine.ErrHidden):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "item not found",
		})
	case errors.Is(err, claimengine.ErrNotClaimable),
		errors.Is(err, claimengine.ErrWrongStatus),
		errors.Is(err, claimengine.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "conflict",
			"message": err.Error(),
		})
	case errors.Is(err, claimengine.ErrAlreadyAttempted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "already_attempted",
			"message": err.Error(),
		})
	case errors.Is(err, claimengine.ErrSelfClaim),
		errors.Is(err, claimengine.ErrNotFinder),
		errors.Is(err, claimengine.ErrNotParty):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": err.Error(),
		})
	case errors.Is(err, claimengine.ErrWithheld):
		return c.Status(fiber.StatusGone).JSON(fiber.Map{
			"error":   "withheld",
			"message": err.Error(),
		})
	case errors.Is(err, claimengine.ErrIncompleteAnswers):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "incomplete_answers",
			"message": err.Error(),
		})
	}

	log.Printf("Unexpected claim engine error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal",
		"message": "internal server error",
	})
}
