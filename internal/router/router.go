package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fitgoals/backend/api/handler"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Goal   *apiHandler.GoalHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)

	// Protected routes
	r.GET("/api/v1/goals", authMiddleware(handlers.Goal.GetGoals))
	r.POST("/api/v1/goals", authMiddleware(handlers.Goal.CreateGoal))
	r.GET("/api/v1/goals/stats", authMiddleware(handlers.Goal.GetStats))
	r.GET("/api/v1/goals/{id}", authMiddleware(handlers.Goal.GetGoal))
	r.PUT("/api/v1/goals/{id}", authMiddleware(handlers.Goal.UpdateGoal))
	r.DELETE("/api/v1/goals/{id}", authMiddleware(handlers.Goal.DeleteGoal))
	r.POST("/api/v1/goals/{id}/activities", authMiddleware(handlers.Goal.LogActivity))

	return r
}
