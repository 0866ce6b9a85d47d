package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ktuacm/clubportal-backend/internal/config"
	"github.com/ktuacm/clubportal-backend/internal/handlers"
	"github.com/ktuacm/clubportal-backend/internal/middleware"
)

// HandlerDependencies bundles the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler     *handlers.AuthHandler
	VoteHandler     *handlers.VoteHandler
	ElectionHandler *handlers.ElectionHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})

		public.POST("/auth/login", deps.AuthHandler.Login)

		// Voter-facing election routes
		elections := public.Group("/elections")
		{
			elections.GET("", deps.VoteHandler.ListElections)
			elections.GET("/:id", deps.VoteHandler.GetElection)
			elections.POST("/:id/verify", deps.VoteHandler.RequestCode)
			elections.POST("/:id/verify/check", deps.VoteHandler.VerifyCode)
			elections.POST("/:id/vote", deps.VoteHandler.SubmitBallot)
			elections.GET("/:id/results", deps.VoteHandler.GetResults)
		}
	}

	// Protected administrative routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg))
	{
		elections := admin.Group("/elections")
		{
			elections.GET("", deps.ElectionHandler.ListElections)
			elections.POST("", deps.ElectionHandler.CreateElection)
			elections.PUT("/:id", deps.ElectionHandler.UpdateElection)

			elections.POST("/:id/candidates", deps.ElectionHandler.AddCandidate)
			elections.DELETE("/:id/candidates/:candidateId", deps.ElectionHandler.RemoveCandidate)

			elections.POST("/:id/voters/import", deps.ElectionHandler.ImportRoster)
			elections.GET("/:id/voters/count", deps.ElectionHandler.CountVoters)

			elections.POST("/:id/activate", deps.ElectionHandler.Activate)
			elections.POST("/:id/suspend", deps.ElectionHandler.Suspend)
			elections.POST("/:id/resume", deps.ElectionHandler.Resume)
			elections.POST("/:id/complete", deps.ElectionHandler.Complete)

			elections.GET("/:id/results", deps.ElectionHandler.PreviewResults)
		}
	}

	return router
}
