package router

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/mcq-client/internal/config"
	"github.com/stemsi/mcq-client/internal/handler"
	"github.com/stemsi/mcq-client/internal/middleware"
	"github.com/stemsi/mcq-client/internal/response"
	"github.com/stemsi/mcq-client/internal/view"
)

// staticMaxAge is the Cache-Control max-age of embedded assets (1 day).
const staticMaxAge = 86400

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Page   *handler.QuizPageHandler
	API    *handler.QuizAPIHandler
	Health *handler.HealthHandler
}

// SetupRouter configures the page routes, the JSON API and static assets.
func SetupRouter(
	handlers *Handlers,
	tmpl *template.Template,
	limiter *middleware.RateLimiter,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(tmpl)

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware(log), middleware.RequestLogger())

	// Embedded CSS and JS.
	staticGroup := router.Group("/static")
	staticGroup.Use(middleware.CacheControl(staticMaxAge))
	{
		staticGroup.StaticFS("/", http.FS(view.Static()))
	}

	// Health check.
	router.GET("/health", handlers.Health.Health)

	sessionMaxAge := int(cfg.SessionTTL.Seconds())
	session := middleware.QuizSession(sessionMaxAge, cfg.SecureCookies)

	// ─── 1. Pages ──────────────────────────────────────────────────────
	pages := router.Group("/")
	pages.Use(session, middleware.NoStore(), middleware.Compress())
	{
		pages.GET("/", handlers.Page.Index)
		pages.POST("/generate", limiter.MiddlewareFunc(handlers.Page.RateLimited), handlers.Page.Generate)
		pages.POST("/answers", handlers.Page.Answers)
		pages.POST("/reset", handlers.Page.Reset)
	}

	// ─── 2. JSON API (CORS) ────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all origins so dev works without extra config.
	// Credentials are only allowed with an explicit list.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour

	api := router.Group("/api/v1/quiz")
	api.Use(cors.New(corsConfig), session, middleware.NoStore(), middleware.Compress())
	{
		api.GET("/options", handlers.API.Options)
		api.GET("/session", handlers.API.Session)
		api.POST("/generate", limiter.Middleware(), handlers.API.Generate)
		api.PUT("/answers/:question_id", handlers.API.SelectAnswer)
		api.POST("/submit", handlers.API.Submit)
		api.POST("/reset", handlers.API.Reset)
		// Preflight requests are answered by the CORS middleware.
		api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}

	return router
}
