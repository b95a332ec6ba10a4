package routes

import (
	handlers "bridebuddy.app/handlers/api"
	"bridebuddy.app/middlewares"
	"bridebuddy.app/services"

	"github.com/gofiber/fiber/v2"
)

// registerAPIRoutes defines the /api routes.
func registerAPIRoutes(app *fiber.App, cfg AppConfig, svc *services.Registry) {
	weddingHandler := handlers.NewWeddingHandler(svc.Weddings)
	inviteHandler := handlers.NewInviteHandler(svc.Invites, svc.Acceptance)
	bestieHandler := handlers.NewBestieHandler(svc.BestiePermissions, svc.BestieKnowledge)
	updateHandler := handlers.NewUpdateHandler(svc.Updates)

	limit := cfg.PublicRateLimit
	if limit <= 0 {
		limit = 60
	}

	api := app.Group("/api")

	// --- Public ---
	api.Get("/invites/:token", middlewares.RateLimit(limit, cfg.LimiterStorage), inviteHandler.InviteInfo)
	// The acceptance workflow verifies the bearer itself.
	api.Post("/invites/:token/accept", inviteHandler.AcceptInvite)

	// --- Authenticated ---
	auth := middlewares.AuthMiddleware(svc.Identity)

	api.Post("/weddings", auth, weddingHandler.CreateWedding)
	api.Get("/wedding", auth, weddingHandler.GetProfile)
	api.Patch("/wedding", auth, weddingHandler.UpdateProfile)

	api.Post("/invites", auth, inviteHandler.CreateInvite)

	bestie := api.Group("/bestie", auth)
	bestie.Get("/permissions", bestieHandler.GetPermissions)
	bestie.Put("/permissions", bestieHandler.UpdatePermissions)
	bestie.Get("/knowledge", bestieHandler.ListKnowledge)
	bestie.Post("/knowledge", bestieHandler.AddKnowledge)
	bestie.Get("/knowledge/shared", bestieHandler.SharedKnowledge)
	bestie.Patch("/knowledge/:id", bestieHandler.EditKnowledge)

	updates := api.Group("/updates", auth)
	updates.Get("/", updateHandler.ListUpdates)
	updates.Post("/", updateHandler.ProposeUpdate)
	updates.Post("/:id/decision", updateHandler.DecideUpdate)
}
