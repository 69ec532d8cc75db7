package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/michalwarchol/slash-api/config"
	"github.com/michalwarchol/slash-api/internal/api/handler"
	"github.com/michalwarchol/slash-api/internal/api/middleware"
	"github.com/michalwarchol/slash-api/internal/model"
	"github.com/michalwarchol/slash-api/pkg/jwt"
	"github.com/michalwarchol/slash-api/pkg/redis"
)

// Setup builds the gin engine with all middleware and routes.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(2 << 30)) // ceiling for video uploads

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRequired := middleware.JWTAuth(jwtMgr, rdb)
	educatorOnly := middleware.RoleAuth(model.RoleEducator)
	studentOnly := middleware.RoleAuth(model.RoleStudent)
	loginLimit := middleware.RateLimit(rdb, 10, time.Minute)

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", loginLimit, h.Auth.Register)
			auth.POST("/activate", loginLimit, h.Auth.Activate)
			auth.POST("/login", loginLimit, h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/request-password-change", loginLimit, h.Auth.RequestPasswordChange)
			auth.PUT("/password", loginLimit, h.Auth.ChangePassword)

			auth.POST("/logout", authRequired, h.Auth.Logout)
			auth.GET("/me", authRequired, h.User.Me)
		}

		users := v1.Group("/users")
		{
			users.GET("/:id", h.User.Get)
			users.PUT("/me", authRequired, h.User.UpdateMe)
			users.PUT("/me/avatar", authRequired, middleware.BodyLimit(6<<20), h.User.UploadAvatar)
		}

		courses := v1.Group("/courses")
		{
			courses.GET("/types", h.Course.ListTypes)
			courses.GET("", h.Course.Search)
			courses.GET("/best", h.Course.Best)
			courses.GET("/creator", h.Course.ListByCreator)
			courses.GET("/:id", h.Course.Get)
			courses.GET("/:id/full", h.Course.GetFull)

			courses.POST("", authRequired, educatorOnly, h.Course.Create)
			courses.PUT("/:id", authRequired, educatorOnly, h.Course.Update)
			courses.DELETE("/:id", authRequired, educatorOnly, h.Course.Delete)

			courses.POST("/:id/like", authRequired, h.Course.Like)
			courses.GET("/:id/statistics", authRequired, h.Course.UserStatistics)

			courses.POST("/:id/materials", authRequired, educatorOnly, middleware.BodyLimit(51<<20), h.Course.UploadMaterial)
			courses.POST("/:id/videos", authRequired, educatorOnly, h.Video.Create)
		}

		v1.DELETE("/materials/:id", authRequired, educatorOnly, h.Course.DeleteMaterial)

		videos := v1.Group("/videos")
		{
			videos.GET("/:id", h.Video.GetFull)
			videos.PUT("/:id", authRequired, educatorOnly, h.Video.Update)
			videos.DELETE("/:id", authRequired, educatorOnly, h.Video.Delete)

			videos.POST("/:id/views", h.Video.IncreaseViews)
			videos.PUT("/:id/rating", authRequired, h.Video.Rate)
			videos.GET("/:id/rating", authRequired, h.Video.GetRating)

			videos.POST("/:id/comments", authRequired, h.Video.Comment)
			videos.GET("/:id/comments", h.Video.ListComments)
		}

		statistics := v1.Group("/statistics", authRequired)
		{
			statistics.GET("", h.Statistics.Get)
			statistics.GET("/export", educatorOnly, h.Statistics.Export)
			statistics.GET("/recommended", studentOnly, h.Statistics.Recommended)

			statistics.GET("/progress", studentOnly, h.Statistics.ListProgress)
			statistics.POST("/progress", studentOnly, h.Statistics.CreateProgress)
			statistics.PUT("/progress", studentOnly, h.Statistics.UpdateProgress)
			statistics.GET("/progress/:courseId", studentOnly, h.Statistics.GetCourseProgress)
		}
	}

	return r
}
