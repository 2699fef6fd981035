package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/traceback-app/traceback/app/controllers"
	"github.com/traceback-app/traceback/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{Max: 60}))

	v1 := api.Group("/v1")

	// Auth
	v1.Post("/auth/register", controllers.HandleRegister)
	v1.Post("/auth/login", controllers.HandleLogin)
	v1.Post("/auth/logout", controllers.HandleLogout)
	v1.Get("/auth/me", middleware.RequireAuth, controllers.HandleMe)

	// Found items
	v1.Post("/found-items", middleware.RequireAuth, controllers.HandleCreateFoundItem)
	v1.Get("/found-items", controllers.HandleBrowseFoundItems)
	v1.Get("/found-items/mine", middleware.RequireAuth, controllers.HandleMyFoundItems)
	v1.Get("/found-items/:id", controllers.HandleGetFoundItem)
	v1.Delete("/found-items/:id", middleware.RequireAuth, controllers.HandleWithdrawFoundItem)

	// Claim verification and the attempt ledger
	v1.Get("/found-items/:id/questions", controllers.HandleGetQuestions)
	v1.Post("/found-items/:id/attempts", controllers.HandleSubmitAttempt)
	v1.Get("/found-items/:id/attempts", middleware.RequireAuth, controllers.HandleListAttempts)
	v1.Get("/attempts/mine", controllers.HandleMyAttempts)

	// Arbitration
	v1.Post("/found-items/:id/potential-claimer", middleware.RequireAuth, controllers.HandleMarkPotentialClaimer)
	v1.Post("/found-items/:id/finalize", middleware.RequireAuth, controllers.HandleFinalize)
	v1.Post("/found-items/:id/agreed-claim", middleware.RequireAuth, controllers.HandleRecordAgreedClaim)

	// Claims and contact disclosure
	v1.Get("/claims/mine", middleware.RequireAuth, controllers.HandleMyClaims)
	v1.Get("/claims/:id", middleware.RequireAuth, controllers.HandleGetClaim)
	v1.Post("/claims/:id/resolve", middleware.RequireAuth, controllers.HandleResolveClaim)
	v1.Get("/claims/:id/contact", middleware.RequireAuth, controllers.HandleGetContact)

	// Lost reports
	v1.Post("/lost-items", middleware.RequireAuth, controllers.HandleCreateLostItem)
	v1.Get("/lost-items", controllers.HandleBrowseLostItems)
	v1.Get("/lost-items/mine", middleware.RequireAuth, controllers.HandleMyLostItems)
	v1.Post("/lost-items/:id/resolve", middleware.RequireAuth, controllers.HandleResolveLostItem)

	// Public statistics
	v1.Get("/statistics", controllers.HandleGetStatistics)
	v1.Get("/returns/recent", controllers.HandleRecentReturns)

	// Moderation
	admin := v1.Group("/admin", middleware.RequireModerator)
	admin.Get("/reports", controllers.HandleListOpenReports)
	admin.Get("/reports/closed", controllers.HandleListClosedReports)
	admin.Post("/reports/:id/resolve", controllers.HandleResolveReport)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
