package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/trackdesk/api/handler"
	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/internal/middleware"
)

type Handlers struct {
	Auth          *apiHandler.AuthHandler
	Users         *apiHandler.UserHandler
	Bugs          *apiHandler.BugHandler
	Attachments   *apiHandler.AttachmentHandler
	Features      *apiHandler.FeatureHandler
	Roadmap       *apiHandler.RoadmapHandler
	Settings      *apiHandler.SettingsHandler
	Mentions      *apiHandler.MentionHandler
	Notifications *apiHandler.NotificationHandler
	Overview      *apiHandler.OverviewHandler
	Health        *apiHandler.HealthHandler
}

// New wires every route. Developers and admins may use the tracker; user
// management and settings are admin only.
func New(handlers Handlers, authMiddleware middleware.Middleware) *router.Router {
	r := router.New()

	staff := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return middleware.Chain(h, authMiddleware, middleware.RequireRole(domain.RoleDeveloper))
	}
	admin := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return middleware.Chain(h, authMiddleware, middleware.RequireRole(domain.RoleAdmin))
	}

	r.GET("/health", handlers.Health.Check)

	v1 := r.Group("/api/v1")

	// Auth routes
	v1.POST("/auth/login", handlers.Auth.Login)
	v1.POST("/auth/refresh", authMiddleware(handlers.Auth.Refresh))
	v1.POST("/auth/logout", authMiddleware(handlers.Auth.Logout))

	// Roster
	v1.GET("/users", admin(handlers.Users.List))
	v1.GET("/users/{id}", admin(handlers.Users.Get))
	v1.PUT("/users/{id}", admin(handlers.Users.Update))
	v1.POST("/users/{id}/edit", admin(handlers.Users.BeginEdit))
	v1.POST("/users/{id}/deactivate", admin(handlers.Users.Deactivate))
	v1.POST("/users/{id}/reactivate", admin(handlers.Users.Reactivate))
	v1.GET("/roster/draft", admin(handlers.Users.Draft))
	v1.PATCH("/roster/draft", admin(handlers.Users.Edit))
	v1.DELETE("/roster/draft", admin(handlers.Users.Cancel))
	v1.POST("/roster/draft/save", admin(handlers.Users.Save))
	v1.POST("/roster/roles", admin(handlers.Users.BulkSetRole))

	// Bugs and attachments
	v1.GET("/bugs", staff(handlers.Bugs.List))
	v1.POST("/bugs", staff(handlers.Bugs.Create))
	v1.GET("/bugs/{id}", staff(handlers.Bugs.Get))
	v1.PUT("/bugs/{id}", staff(handlers.Bugs.Update))
	v1.DELETE("/bugs/{id}", staff(handlers.Bugs.Delete))
	v1.GET("/bugs/{id}/attachments", staff(handlers.Attachments.List))
	v1.POST("/bugs/{id}/attachments", staff(handlers.Attachments.Upload))
	v1.GET("/attachments/{id}", staff(handlers.Attachments.Download))
	v1.DELETE("/attachments/{id}", staff(handlers.Attachments.Delete))

	// Feature requests
	v1.GET("/features", staff(handlers.Features.List))
	v1.POST("/features", staff(handlers.Features.Create))
	v1.GET("/features/{id}", staff(handlers.Features.Get))
	v1.PUT("/features/{id}", staff(handlers.Features.Update))
	v1.DELETE("/features/{id}", staff(handlers.Features.Delete))
	v1.PUT("/features/{id}/status", staff(handlers.Features.SetStatus))
	v1.POST("/features/{id}/vote", staff(handlers.Features.Vote))
	v1.POST("/features/{id}/promote", staff(handlers.Features.Promote))

	// Roadmap
	v1.GET("/roadmap/quarters", staff(handlers.Roadmap.Quarters))
	v1.GET("/roadmap/board", staff(handlers.Roadmap.Board))
	v1.GET("/roadmap/items", staff(handlers.Roadmap.List))
	v1.POST("/roadmap/items", staff(handlers.Roadmap.Create))
	v1.GET("/roadmap/items/{id}", staff(handlers.Roadmap.Get))
	v1.PUT("/roadmap/items/{id}", staff(handlers.Roadmap.Update))
	v1.DELETE("/roadmap/items/{id}", staff(handlers.Roadmap.Delete))

	// Settings
	v1.GET("/settings/general", admin(handlers.Settings.General))
	v1.PUT("/settings/general", admin(handlers.Settings.SaveGeneral))
	v1.GET("/settings/email", admin(handlers.Settings.Email))
	v1.PUT("/settings/email", admin(handlers.Settings.SaveEmail))

	// Mentions and notifications
	v1.GET("/mentions", staff(handlers.Mentions.List))
	v1.POST("/mentions", staff(handlers.Mentions.Create))
	v1.POST("/mentions/read", staff(handlers.Mentions.MarkRead))
	v1.GET("/notifications/unread", staff(handlers.Notifications.Unread))
	v1.GET("/notifications/stream", staff(handlers.Notifications.Stream))

	v1.GET("/overview", staff(handlers.Overview.Summary))

	return r
}
