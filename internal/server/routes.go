package server

import (
	"time"

	"github.com/Kyz7/teamhub/internal/auth"
	"github.com/Kyz7/teamhub/internal/middleware"
	"github.com/Kyz7/teamhub/internal/module"
	"github.com/Kyz7/teamhub/internal/organization"
	"github.com/Kyz7/teamhub/internal/rbac"
	"github.com/Kyz7/teamhub/internal/todolist"
	"github.com/Kyz7/teamhub/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS, PATCH",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "teamhub API is running",
		})
	})

	// ==========================================
	// AUTH ROUTES (No authentication required)
	// ==========================================
	authGroup := app.Group("/auth")
	authGroup.Post("/register", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
	}), auth.RegisterHandler)
	authGroup.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), auth.LoginHandler)
	authGroup.Get("/google/login", auth.GoogleLogin)
	authGroup.Get("/google/callback", auth.GoogleCallback)
	authGroup.Post("/refresh", limiter.New(limiter.Config{
		Max:        3,
		Expiration: 5 * time.Minute,
	}), auth.RefreshHandler)
	authGroup.Post("/logout", auth.JWTProtected(), auth.LogoutHandler)

	// ==========================================
	// USER MANAGEMENT (Global admin only)
	// ==========================================
	userGroup := app.Group("/users")
	userGroup.Use(auth.JWTProtected())
	userGroup.Use(middleware.GlobalAdminProtected())
	userGroup.Get("/", user.ListUsersHandler)
	userGroup.Get("/:id", user.GetUserHandler)
	userGroup.Put("/:id/role", user.SetGlobalRoleHandler)
	userGroup.Delete("/:id", user.DeleteUserHandler)

	// ==========================================
	// MODULE CATALOG
	// ==========================================
	moduleGroup := app.Group("/modules")
	moduleGroup.Use(auth.JWTProtected())
	moduleGroup.Get("/", module.ListModulesHandler)
	moduleGroup.Get("/:slug", module.GetModuleHandler)
	moduleGroup.Post("/", middleware.GlobalAdminProtected(), module.CreateModuleHandler)

	// ==========================================
	// ORGANIZATIONS & MEMBERSHIP
	// ==========================================
	orgGroup := app.Group("/organizations")
	orgGroup.Use(auth.JWTProtected())
	orgGroup.Post("/", organization.CreateOrganizationHandler)
	orgGroup.Get("/", organization.ListOrganizationsHandler)
	orgGroup.Get("/:orgID", organization.GetOrganizationHandler)

	memberGroup := orgGroup.Group("/:orgID/members")
	memberGroup.Use(middleware.AdminGateProtected())
	memberGroup.Get("/", organization.ListMembersHandler)
	memberGroup.Post("/", organization.AddMemberHandler)
	memberGroup.Put("/:memberID", organization.UpdateMemberHandler)
	memberGroup.Delete("/:memberID", organization.RemoveMemberHandler)
	memberGroup.Get("/:memberID/permissions", rbac.GetMemberPermissionsHandler)

	// ==========================================
	// ORG-MODULE BINDINGS (org admins)
	// ==========================================
	orgModuleGroup := orgGroup.Group("/:orgID/modules")
	orgModuleGroup.Use(middleware.AdminGateProtected())
	orgModuleGroup.Get("/", module.ListOrganizationModulesHandler)
	orgModuleGroup.Post("/", module.AssignModuleHandler)
	orgModuleGroup.Delete("/:moduleID", module.RemoveModuleHandler)

	// ==========================================
	// ROLES & ASSIGNMENTS (org admins)
	// ==========================================
	bindingGroup := orgGroup.Group("/:orgID/bindings/:bindingID/roles")
	bindingGroup.Use(middleware.AdminGateProtected())
	bindingGroup.Post("/", rbac.CreateCustomRoleHandler)
	bindingGroup.Get("/", rbac.ListRolesHandler)

	roleGroup := orgGroup.Group("/:orgID/roles")
	roleGroup.Use(middleware.AdminGateProtected())
	roleGroup.Get("/:id", rbac.GetRoleHandler)
	roleGroup.Put("/:id/permissions", rbac.UpdateRolePermissionsHandler)
	roleGroup.Delete("/:id", rbac.DeleteRoleHandler)

	assignGroup := orgGroup.Group("/:orgID/assignments")
	assignGroup.Use(middleware.AdminGateProtected())
	assignGroup.Post("/", rbac.AssignRoleHandler)
	assignGroup.Delete("/", rbac.UnassignRoleHandler)

	checkGroup := orgGroup.Group("/:orgID/permissions")
	checkGroup.Use(middleware.AdminGateProtected())
	checkGroup.Post("/check", rbac.CheckPermissionHandler)
	checkGroup.Post("/check-batch", rbac.CheckPermissionsHandler)

	// ==========================================
	// TODOLIST FEATURE (resolver-gated)
	// ==========================================
	todoGroup := orgGroup.Group("/:orgID/todolists")
	todoGroup.Get("/", middleware.PermissionProtected(module.TodolistSlug, "todolist", "view"), todolist.ListListsHandler)
	todoGroup.Post("/", middleware.PermissionProtected(module.TodolistSlug, "todolist", "create"), todolist.CreateListHandler)
	todoGroup.Get("/:listID", middleware.PermissionProtected(module.TodolistSlug, "todolist", "view"), todolist.GetListHandler)
	todoGroup.Put("/:listID", middleware.PermissionProtected(module.TodolistSlug, "todolist", "update"), todolist.UpdateListHandler)
	todoGroup.Delete("/:listID", middleware.PermissionProtected(module.TodolistSlug, "todolist", "delete"), todolist.DeleteListHandler)
	todoGroup.Post("/:listID/items", middleware.PermissionProtected(module.TodolistSlug, "todoitem", "create"), todolist.CreateItemHandler)

	itemGroup := orgGroup.Group("/:orgID/todoitems")
	itemGroup.Put("/:itemID", middleware.PermissionProtected(module.TodolistSlug, "todoitem", "update"), todolist.UpdateItemHandler)
	itemGroup.Post("/:itemID/complete", middleware.PermissionProtected(module.TodolistSlug, "todoitem", "complete"), todolist.CompleteItemHandler)
	itemGroup.Post("/:itemID/attachment", middleware.PermissionProtected(module.TodolistSlug, "todoitem", "update"), todolist.UploadAttachmentHandler)
	itemGroup.Delete("/:itemID", middleware.PermissionProtected(module.TodolistSlug, "todoitem", "delete"), todolist.DeleteItemHandler)
}
