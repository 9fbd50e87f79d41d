package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ratewise-dev/ratewise/internal/handlers"
	"github.com/ratewise-dev/ratewise/internal/middleware"
	"github.com/ratewise-dev/ratewise/internal/models"
	"github.com/ratewise-dev/ratewise/internal/types"
	"gorm.io/gorm"
)

func NewRouter(gdb *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := handlers.NewAuthHandler(gdb)
	adminHandler := handlers.NewAdminHandler(gdb)
	userHandler := handlers.NewUserHandler(gdb)

	authenticated := middleware.AuthMiddleware(gdb)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", authenticated, authHandler.Me)
			auth.PUT("/password", authenticated, authHandler.UpdatePassword)
		}

		admin := api.Group("/admin", authenticated, middleware.RequireRoles(models.RoleAdministrator))
		{
			admin.GET("/stats", adminHandler.Stats)
			admin.POST("/users", adminHandler.AddUser)
			admin.POST("/stores", adminHandler.AddStore)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/stores", adminHandler.ListStores)
		}

		user := api.Group("/user", authenticated)
		{
			user.GET("/stores", middleware.RequireRoles(models.RoleNormalUser), userHandler.BrowseStores)
			user.POST("/ratings", middleware.RequireRoles(models.RoleNormalUser), userHandler.SubmitRating)
			user.GET("/dashboard", middleware.RequireRoles(models.RoleStoreOwner), userHandler.Dashboard)
		}
	}

	return r
}
