package http

import (
	"time"

	mw "verifyme-backend/internal/adapter/middleware"
	"verifyme-backend/internal/domain/account"
	accountUC "verifyme-backend/internal/usecase/account"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Handlers bundles everything Register needs.
type Handlers struct {
	Health    *Handler
	Auth      *AuthHandler
	Schemas   *SchemaHandler
	Entries   *EntryHandler
	Files     *FieldFileHandler
	Exports   *ExportHandler
	Accounts  *accountUC.Usecase
	Redis     *redis.Client
	IdempTTL  time.Duration
	MediaRoot string
}

// Register wires all routes. Everything under /api requires a bearer
// token; entry creation additionally goes through the idempotency
// middleware so field-team retries replay instead of double-posting.
func Register(e *echo.Echo, h Handlers) {
	e.GET("/health", h.Health.Health)
	e.POST("/api/auth/login", h.Auth.Login)

	if h.MediaRoot != "" {
		e.Static("/media", h.MediaRoot)
	}

	api := e.Group("/api", mw.Auth(h.Accounts))
	api.GET("/auth/me", h.Auth.Me)

	admin := api.Group("", mw.RequireRoles(account.RoleSuperAdmin, account.RoleAdmin))

	sa := api.Group("", mw.RequireRoles(account.RoleSuperAdmin))
	sa.POST("/organizations", h.Auth.CreateOrganization)
	sa.GET("/organizations", h.Auth.ListOrganizations)

	admin.POST("/organizations/:org_id/users", h.Auth.CreateEmployee)
	admin.GET("/organizations/:org_id/users", h.Auth.ListEmployees)

	api.GET("/form-schemas", h.Schemas.List)
	api.GET("/form-schemas/:id", h.Schemas.Get)
	api.GET("/form-schemas/:id/entries", h.Entries.ListBySchema)
	admin.POST("/form-schemas", h.Schemas.Create)
	admin.POST("/form-schemas/:id/mutate", h.Schemas.Mutate)
	admin.PUT("/form-schemas/:id/fields", h.Schemas.ReplaceFields)
	admin.POST("/form-schemas/:id/duplicate", h.Schemas.Duplicate)
	admin.DELETE("/form-schemas/:id", h.Schemas.Delete)

	entries := api.Group("/form-entries")
	if h.Redis != nil {
		entries.POST("", h.Entries.Create, mw.Idempotency(h.Redis, h.IdempTTL))
	} else {
		entries.POST("", h.Entries.Create)
	}
	entries.GET("/mine", h.Entries.MyEntries)
	entries.POST("/advanced-filter", h.Entries.AdvancedFilter)
	entries.GET("/counts", h.Entries.Counts)
	entries.GET("/duplicates", h.Entries.Duplicates, mw.RequireRoles(account.RoleSuperAdmin, account.RoleAdmin))
	entries.GET("/:id", h.Entries.Get)
	entries.PUT("/:id", h.Entries.Update)
	entries.DELETE("/:id", h.Entries.Delete)
	entries.POST("/:id/complete", h.Entries.Complete)
	entries.POST("/:id/verify", h.Entries.Verify, mw.RequireRoles(account.RoleSuperAdmin, account.RoleAdmin))
	entries.POST("/:id/files", h.Files.Upload)
	entries.GET("/:id/files", h.Files.List)

	api.POST("/exports/:format", h.Exports.Export)
}
