package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/traceback-app/traceback/app/models"
	"github.com/traceback-app/traceback/app/repository"
	"github.com/traceback-app/traceback/internal/pkg/database"
	"github.com/traceback-app/traceback/internal/pkg/session"
)

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new user account and logs it in.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid request body",
		})
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	}
	user.PhoneNumber = req.PhoneNumber

	// The unique index on email is the arbiter; no advisory lookup first.
	userRepo := repository.GetGlobalFactory().GetUserRepository()
	if err := userRepo.Create(user); err != nil {
		status, body := registerCreateError(err)
		return c.Status(status).JSON(body)
	}

	if err := startSession(c, user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "could not start session",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

// registerCreateError maps a failed user insert to an HTTP response.
// A duplicate key means the email is already taken.
func registerCreateError(err error) (int, fiber.Map) {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fiber.StatusConflict, fiber.Map{
			"error":   "conflict",
			"message": "an account with this email already exists",
		}
	}
	return fiber.StatusInternalServerError, fiber.Map{
		"error":   "internal",
		"message": "could not create account",
	}
}

// HandleLogin authenticates a user and starts a session.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid request body",
		})
	}

	// notice: in production you should not inform the user
	// with detailed messages about login failures
	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByEmail(req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "there is a problem with the login process",
		})
	}
	if !user.IsActive() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "account is not active",
		})
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := userRepo.Update(user); err != nil {
		// Non-fatal; the login itself proceeds.
		log.Printf("Failed to update last login for user %d: %v", user.ID, err)
	}

	if err := startSession(c, user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "could not start session",
		})
	}

	return c.JSON(fiber.Map{
		"id":           user.ID,
		"name":         user.Name,
		"email":        user.Email,
		"is_moderator": user.IsModerator(),
	})
}

// HandleLogout destroys the current session.
func HandleLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		if destroyErr := sess.Destroy(); destroyErr != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "internal",
				"message": "could not end session",
			})
		}
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

// HandleMe returns the current account.
func HandleMe(c *fiber.Ctx) error {
	viewer := viewerFromCtx(c)
	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(viewer.UserID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "account not found",
		})
	}

	var unread int64
	database.GetDB().Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).Count(&unread)

	return c.JSON(fiber.Map{
		"id":                   user.ID,
		"name":                 user.Name,
		"email":                user.Email,
		"phone_number":         user.PhoneNumber,
		"is_moderator":         user.IsModerator(),
		"unread_notifications": unread,
	})
}

func startSession(c *fiber.Ctx, user *models.User) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}

	sess.Set(AUTH_KEY, true)
	sess.Set(USER_ID, user.ID)
	sess.Set(USER_NAME, user.Name)
	sess.Set(USER_EMAIL, user.Email)
	sess.Set(USER_IS_MODERATOR, user.IsModerator())

	return sess.Save()
}
