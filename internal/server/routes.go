package server

import (
	"time"

	"github.com/propline/backoffice/internal/apikey"
	"github.com/propline/backoffice/internal/audit"
	"github.com/propline/backoffice/internal/auth"
	"github.com/propline/backoffice/internal/authz"
	"github.com/propline/backoffice/internal/blog"
	"github.com/propline/backoffice/internal/content"
	"github.com/propline/backoffice/internal/lead"
	"github.com/propline/backoffice/internal/media"
	"github.com/propline/backoffice/internal/property"
	"github.com/propline/backoffice/internal/role"
	"github.com/propline/backoffice/internal/user"
	"github.com/propline/backoffice/internal/workflow"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-API-Key",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS, PATCH",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Back-office API is running",
		})
	})

	// ==========================================
	// AUTH ROUTES (No authentication required)
	// ==========================================
	authGroup := app.Group("/auth")
	authGroup.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), auth.LoginHandler)
	authGroup.Post("/refresh", limiter.New(limiter.Config{
		Max:        3,
		Expiration: 5 * time.Minute,
	}), auth.RefreshHandler)
	authGroup.Post("/logout", auth.JWTProtected(), auth.LogoutHandler)

	// ==========================================
	// USER MANAGEMENT
	// ==========================================
	userGroup := app.Group("/users")
	userGroup.Use(auth.JWTProtected())
	userGroup.Post("/", authz.RequirePermission("users.create"), user.CreateUserHandler)
	userGroup.Get("/", authz.RequirePermission("users.read"), user.ListUsersHandler)
	userGroup.Get("/:id", authz.RequirePermission("users.read"), user.GetUserHandler)
	userGroup.Put("/:id", authz.RequirePermission("users.update"), user.UpdateUserHandler)
	userGroup.Delete("/:id", authz.RequirePermission("users.delete"), user.DeleteUserHandler)
	userGroup.Post("/:id/roles", authz.RequirePermission("users.update"), user.AssignRoleHandler)
	userGroup.Delete("/:id/roles/:role_id", authz.RequirePermission("users.update"), user.RevokeRoleHandler)

	// ==========================================
	// ROLES & PERMISSIONS
	// ==========================================
	roleGroup := app.Group("/roles")
	roleGroup.Use(auth.JWTProtected())
	roleGroup.Get("/permissions", authz.RequirePermission("roles.read"), role.ListPermissionsHandler)
	roleGroup.Post("/", authz.RequirePermission("roles.create"), role.CreateRoleHandler)
	roleGroup.Get("/", authz.RequirePermission("roles.read"), role.ListRolesHandler)
	roleGroup.Get("/:id", authz.RequirePermission("roles.read"), role.GetRoleHandler)
	roleGroup.Put("/:id/permissions", authz.RequirePermission("roles.update"), role.UpdateRolePermissionsHandler)
	roleGroup.Delete("/:id", authz.RequirePermission("roles.delete"), role.DeactivateRoleHandler)

	// ==========================================
	// CONTENT MANAGEMENT
	// ==========================================
	contentGroup := app.Group("/content")
	contentGroup.Use(auth.JWTProtected())

	// Content Types
	contentGroup.Post("/types",
		authz.RequirePermission("content.create"),
		content.CreateContentTypeHandler)
	contentGroup.Get("/types",
		authz.RequirePermission("content.read"),
		content.ListContentTypesHandler)
	contentGroup.Get("/types/:id",
		authz.RequirePermission("content.read"),
		content.GetContentTypeHandler)
	contentGroup.Post("/types/:content_type_id/fields",
		authz.RequirePermission("content.update"),
		content.AddFieldHandler)

	// Content Entries
	contentGroup.Post("/:content_type_id/entries",
		authz.RequirePermission("content.create"),
		content.CreateEntryHandler)
	contentGroup.Get("/:content_type_id/entries",
		authz.RequirePermission("content.read"),
		content.ListEntriesHandler)
	contentGroup.Get("/entries/:entry_id",
		authz.RequirePermission("content.read"),
		content.GetEntryHandler)
	contentGroup.Put("/entries/:entry_id",
		authz.RequirePermission("content.update"),
		content.UpdateEntryHandler)
	contentGroup.Delete("/entries/:entry_id",
		authz.RequirePermission("content.delete"),
		content.DeleteEntryHandler)

	// ==========================================
	// WORKFLOW
	// ==========================================
	// Transition permissions are enforced inside the engine against the
	// transition table, so the routes only require a valid session.
	workflowGroup := app.Group("/workflow")
	workflowGroup.Use(auth.JWTProtected())
	workflowGroup.Post("/entries/:entry_id/submit", workflow.SubmitForReviewHandler)
	workflowGroup.Post("/entries/:entry_id/approve", workflow.ApproveHandler)
	workflowGroup.Post("/entries/:entry_id/reject", workflow.RejectHandler)
	workflowGroup.Post("/entries/:entry_id/archive", workflow.ArchiveHandler)
	workflowGroup.Post("/entries/:entry_id/restore", workflow.RestoreHandler)
	workflowGroup.Get("/entries/:entry_id/history",
		authz.RequirePermission("content.read"),
		workflow.HistoryHandler)
	workflowGroup.Get("/content-types/:content_type_id/stats",
		authz.RequirePermission("content.read"),
		workflow.StatsHandler)

	// ==========================================
	// PROPERTIES
	// ==========================================
	propertyGroup := app.Group("/properties")
	propertyGroup.Use(auth.JWTProtected())
	propertyGroup.Post("/", authz.RequirePermission("properties.create"), property.CreatePropertyHandler)
	propertyGroup.Get("/", authz.RequirePermission("properties.read"), property.ListPropertiesHandler)
	propertyGroup.Get("/:id", authz.RequirePermission("properties.read"), property.GetPropertyHandler)
	propertyGroup.Put("/:id", authz.RequirePermission("properties.update"), property.UpdatePropertyHandler)
	propertyGroup.Delete("/:id", authz.RequirePermission("properties.delete"), property.DeletePropertyHandler)

	// ==========================================
	// LEADS
	// ==========================================
	leadGroup := app.Group("/leads")
	leadGroup.Use(auth.JWTProtected())
	leadGroup.Post("/", authz.RequirePermission("leads.create"), lead.CreateLeadHandler)
	leadGroup.Get("/", authz.RequirePermission("leads.read"), lead.ListLeadsHandler)
	leadGroup.Get("/:id", authz.RequirePermission("leads.read"), lead.GetLeadHandler)
	leadGroup.Put("/:id/stage", authz.RequirePermission("leads.update"), lead.UpdateStageHandler)
	leadGroup.Put("/:id/assign", authz.RequirePermission("leads.update"), lead.AssignLeadHandler)
	leadGroup.Delete("/:id", authz.RequirePermission("leads.delete"), lead.DeleteLeadHandler)

	// ==========================================
	// BLOG
	// ==========================================
	blogGroup := app.Group("/blog")
	blogGroup.Use(auth.JWTProtected())
	blogGroup.Post("/", authz.RequirePermission("content.create"), blog.CreatePostHandler)
	blogGroup.Get("/", authz.RequirePermission("content.read"), blog.ListPostsHandler)
	blogGroup.Get("/:id", authz.RequirePermission("content.read"), blog.GetPostHandler)
	blogGroup.Put("/:id", authz.RequirePermission("content.update"), blog.UpdatePostHandler)
	blogGroup.Post("/:id/submit", blog.SubmitForReviewHandler)
	blogGroup.Post("/:id/approve", blog.ApproveHandler)
	blogGroup.Post("/:id/reject", blog.RejectHandler)
	blogGroup.Post("/:id/archive", blog.ArchiveHandler)
	blogGroup.Post("/:id/restore", blog.RestoreHandler)

	// ==========================================
	// MEDIA LIBRARY
	// ==========================================
	mediaGroup := app.Group("/media")
	mediaGroup.Use(auth.JWTProtected())
	mediaGroup.Post("/upload", authz.RequirePermission("media.create"), media.UploadHandler)
	mediaGroup.Get("/", authz.RequirePermission("media.read"), media.ListHandler)
	mediaGroup.Delete("/:id", authz.RequirePermission("media.delete"), media.DeleteHandler)

	// ==========================================
	// API KEYS & USAGE
	// ==========================================
	keyGroup := app.Group("/apikeys")
	keyGroup.Use(auth.JWTProtected())
	keyGroup.Post("/", authz.RequirePermission("apikeys.create"), apikey.CreateKeyHandler)
	keyGroup.Get("/", authz.RequirePermission("apikeys.read"), apikey.ListKeysHandler)
	keyGroup.Get("/usage", authz.RequirePermission("apikeys.read"), apikey.UsageHandler)
	keyGroup.Delete("/:id", authz.RequirePermission("apikeys.delete"), apikey.RevokeKeyHandler)

	// ==========================================
	// AUDIT LOG
	// ==========================================
	auditGroup := app.Group("/audit")
	auditGroup.Use(auth.JWTProtected())
	auditGroup.Get("/", authz.RequirePermission("audit.read"), audit.ListHandler)
	auditGroup.Get("/:target_type/:target_id", authz.RequirePermission("audit.read"), audit.TargetHistoryHandler)

	// ==========================================
	// PUBLIC API (key-authenticated, metered)
	// ==========================================
	publicGroup := app.Group("/public")
	publicGroup.Use(apikey.RequireAPIKey())
	publicGroup.Get("/blog", blog.PublicListHandler)
	publicGroup.Get("/blog/:slug", blog.PublicGetHandler)
}
