package api

import (
	"net/http"

	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/catalog"
	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/session"

	"github.com/gin-gonic/gin"
)

// SetupRoutes mounts the draft engine's operation surface. Nothing outside
// these routes may mutate draft or history state.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	sessions session.SessionService,
	resolver catalog.Resolver,
) {
	sessionHandler := NewSessionHandler(sessions, resolver)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	protected := apiV1.Group("/session")
	protected.Use(authMiddleware)
	{
		draft := protected.Group("/draft")
		{
			draft.POST("", sessionHandler.StartDraft)
			draft.GET("", sessionHandler.GetDraft)
			draft.PATCH("", sessionHandler.RenameDraft)
			draft.DELETE("", sessionHandler.ClearDraft)

			draft.GET("/elapsed", sessionHandler.Elapsed)
			draft.POST("/pause", sessionHandler.Pause)
			draft.POST("/resume", sessionHandler.Resume)
			draft.POST("/undo", sessionHandler.Undo)
			draft.POST("/finish", sessionHandler.Finish)

			draft.POST("/exercises", sessionHandler.AddExercise)
			draft.POST("/notes", sessionHandler.AddNote)
			draft.POST("/custom", sessionHandler.AddCustom)

			draft.PATCH("/items/:itemId", sessionHandler.UpdateItem)
			draft.POST("/items/:itemId/complete", sessionHandler.CompleteItem)
			draft.DELETE("/items/:itemId", sessionHandler.DeleteItem)

			draft.GET("/exercises/:exerciseId", sessionHandler.GetExercise)
			draft.POST("/exercises/:exerciseId/sets", sessionHandler.AddSet)
			draft.PATCH("/exercises/:exerciseId/sets/:setId", sessionHandler.UpdateSet)

			draft.POST("/exercises/:exerciseId/notes", sessionHandler.AddGeneralNote)
			draft.PATCH("/exercises/:exerciseId/notes/:noteId", sessionHandler.UpdateGeneralNote)
			draft.DELETE("/exercises/:exerciseId/notes/:noteId", sessionHandler.RemoveGeneralNote)

			draft.POST("/exercises/:exerciseId/sets/:setId/notes", sessionHandler.AddSetNote)
			draft.PATCH("/exercises/:exerciseId/sets/:setId/notes/:noteId", sessionHandler.UpdateSetNote)
			draft.DELETE("/exercises/:exerciseId/sets/:setId/notes/:noteId", sessionHandler.RemoveSetNote)
		}

		protected.GET("/history", sessionHandler.GetHistory)
		protected.DELETE("/history", sessionHandler.ClearHistory)
	}
}
