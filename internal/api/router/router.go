package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"uniguide/backend/config"
	"uniguide/backend/internal/api/handler"
	"uniguide/backend/internal/api/middleware"
	"uniguide/backend/internal/model"
	"uniguide/backend/pkg/jwt"
	"uniguide/backend/pkg/redis"
)

// Setup builds the gin engine. rdb may be nil, which disables the token
// blacklist and rate limiting.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	var (
		checker middleware.TokenChecker
		limiter middleware.RateChecker
	)
	if rdb != nil {
		checker, limiter = rdb, rdb
	}

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders(strings.HasPrefix(cfg.Server.BaseURL, "https://")))
	r.Use(middleware.CORS(cfg.Server.CORS))
	r.Use(middleware.BodyLimit(int64(cfg.Server.BodyLimitMB) << 20))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	rateLimited := middleware.RateLimit(limiter, cfg.Server.RateLimit, cfg.Server.RateWindow, logger)

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", rateLimited, h.Auth.Register)
			auth.POST("/login", rateLimited, h.Auth.Login)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, checker, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			profile := authorized.Group("/profile")
			{
				profile.GET("", h.Profile.GetProfile)
				profile.PUT("", h.Profile.UpdateProfile)
				profile.POST("/onboarding", h.Profile.CompleteOnboarding)
				profile.PUT("/readiness", h.Profile.UpdateReadiness)
				profile.GET("/evaluation", h.Profile.Evaluate)
			}

			universities := authorized.Group("/universities")
			{
				universities.GET("", h.University.ListUniversities)
				universities.GET("/search", h.University.SearchUniversities)
				universities.GET("/:id", h.University.GetUniversity)
				universities.POST("/seed", middleware.RoleAuth(model.RoleAdmin), h.University.SeedCatalog)
				universities.POST("/sync", middleware.RoleAuth(model.RoleAdmin), h.University.SyncCatalog)
			}

			live := authorized.Group("/live/universities", rateLimited)
			{
				live.GET("/country/:country", h.University.LiveByCountry)
				live.GET("/search", h.University.LiveSearch)
				live.GET("/:id", h.University.LiveGet)
			}

			authorized.GET("/recommendations", rateLimited, h.Recommendation.Recommend)

			selections := authorized.Group("/selections")
			{
				selections.GET("", h.Selection.ListSelections)
				selections.GET("/stage", h.Selection.GetStage)
				selections.POST("/shortlist", h.Selection.Shortlist)
				selections.PATCH("/shortlist/:universityId", h.Selection.UpdateCategory)
				selections.DELETE("/shortlist/:universityId", h.Selection.Unshortlist)
				selections.POST("/lock", h.Selection.Lock)
				selections.DELETE("/lock/:universityId", h.Selection.Unlock)
			}

			tasks := authorized.Group("/tasks")
			{
				tasks.GET("", h.Task.ListTasks)
				tasks.POST("", h.Task.CreateTask)
				tasks.PATCH("/:id", h.Task.UpdateTask)
				tasks.DELETE("/:id", h.Task.DeleteTask)
				tasks.DELETE("/university/:universityId", h.Task.DeleteUniversityTasks)
				tasks.POST("/generate/:universityId", h.Task.GenerateTasks)
			}

			export := authorized.Group("/export")
			{
				export.GET("/plan", h.Export.ExportPlan)
			}
		}
	}

	return r
}
