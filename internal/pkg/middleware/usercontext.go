package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/traceback-app/traceback/app/controllers"
	"github.com/traceback-app/traceback/internal/pkg/session"
	"github.com/traceback-app/traceback/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request
// This centralizes user session handling and eliminates code duplication
func UserContextMiddleware(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		// On error: treat as anonymous user
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
			IsLoggedIn:  false,
			IsModerator: false,
		})
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	userID := sess.Get(controllers.USER_ID)
	if userID == nil {
		// Anonymous user - no session data
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
			IsLoggedIn:  false,
			IsModerator: false,
		})
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	username := session.GetSessionValue(c, controllers.USER_NAME)
	email := session.GetSessionValue(c, controllers.USER_EMAIL)
	isModerator := sess.Get(controllers.USER_IS_MODERATOR)

	userCtx := usercontext.UserContext{
		UserID:      userID.(uint),
		Username:    username,
		Email:       email,
		IsLoggedIn:  true,
		IsModerator: isModerator != nil && isModerator.(bool),
	}
	c.Locals(usercontext.KeyUserContext, userCtx)
	c.Locals(usercontext.KeyFromProtected, true)

	return c.Next()
}
