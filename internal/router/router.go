package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskboard/backend/api/handler"
)

type Handlers struct {
	Auth      *apiHandler.AuthHandler
	Task      *apiHandler.TaskHandler
	Dashboard *apiHandler.DashboardHandler
	Stream    *apiHandler.StreamHandler
	Health    *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))
	r.GET("/api/v1/auth/me", authMiddleware(handlers.Auth.Me))

	// Protected task routes
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))
	r.POST("/api/v1/tasks/{id}/activities/{index}/toggle", authMiddleware(handlers.Task.ToggleActivity))
	r.GET("/api/v1/tasks/stream", authMiddleware(handlers.Stream.Stream))

	// Dashboard aggregations
	r.GET("/api/v1/dashboard/summary", authMiddleware(handlers.Dashboard.Summary))
	r.GET("/api/v1/dashboard/trend", authMiddleware(handlers.Dashboard.Trend))

	return r
}
