package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taskforge-dev/taskforge/internal/handlers"
	"github.com/taskforge-dev/taskforge/internal/middleware"
	"github.com/taskforge-dev/taskforge/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(middleware.Metrics())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		v1 := api.Group("/v1")
		{
			v1.POST("/register", handlers.Register)
			v1.POST("/login", handlers.Login)

			authed := v1.Group("", middleware.AuthMiddleware())
			{
				authed.POST("/logout", handlers.Logout)
				authed.GET("/me", handlers.Me)

				authed.GET("/ws", handlers.NotificationStream)
				authed.GET("/notifications", handlers.ListNotifications)

				projects := authed.Group("/projects")
				{
					projects.GET("", handlers.ListProjects)
					projects.POST("", handlers.CreateProject)
					projects.GET("/:id", handlers.GetProject)
					projects.PUT("/:id", handlers.UpdateProject)
					projects.DELETE("/:id", handlers.DeleteProject)

					projects.GET("/:id/tasks", handlers.ListProjectTasks)
					projects.POST("/:id/developers", handlers.AssignDevelopers)
					projects.DELETE("/:id/developers/:developer_id", handlers.RemoveDeveloper)
				}

				tasks := authed.Group("/tasks")
				{
					tasks.GET("", handlers.ListTasks)
					tasks.POST("", handlers.CreateTask)
					tasks.GET("/search", handlers.SearchTasks)
					tasks.GET("/:id", handlers.GetTask)
					tasks.PUT("/:id", handlers.UpdateTask)
					tasks.PATCH("/:id/status", handlers.UpdateTaskStatus)
					tasks.DELETE("/:id", handlers.DeleteTask)
				}
			}
		}
	}

	return r
}
