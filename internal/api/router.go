package api

import (
	"time"

	"recipe-assistant/internal/api/handlers/admin"
	"recipe-assistant/internal/api/handlers/ai"
	"recipe-assistant/internal/api/handlers/health"
	"recipe-assistant/internal/api/handlers/pantry"
	recipeHandler "recipe-assistant/internal/api/handlers/recipe"
	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Store 路由需要的資料存取
type Store interface {
	pantry.Store
	health.Pinger
}

// RecipeService 食譜查詢、新增與圖片產生
type RecipeService interface {
	recipeHandler.RecipeService
	ai.RecipeImager
}

// Dependencies 路由依賴的服務
type Dependencies struct {
	Store      Store
	Queue      health.QueueReporter
	CookNow    ai.CookNowEvaluator
	Metadata   ai.MetadataSuggester
	Recipes    RecipeService
	Importer   recipeHandler.Importer
	Backfiller admin.Backfiller
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(corsConfig(cfg.Server.AllowOrigins)))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))

	// 健康檢查與指標
	healthHandler := health.NewHandler(cfg.App.Version, cfg.AIConfigured(), deps.Store, deps.Queue)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API 路由組
	api := router.Group("/api/v1")
	api.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	api.Use(middleware.Deduplication(cfg.DedupWindow))
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	aiHandler := ai.NewHandler(deps.CookNow, deps.Metadata, deps.Recipes, cfg.AIConfigured())
	aiGroup := api.Group("/ai")
	{
		aiGroup.POST("/cook-now", aiHandler.HandleCookNow)
		aiGroup.POST("/metadata", aiHandler.HandleMetadata)
		aiGroup.POST("/recipes/:id/generate-image", aiHandler.HandleGenerateImage)
	}

	recipes := recipeHandler.NewHandler(deps.Recipes, deps.Importer)
	recipeGroup := api.Group("/recipes")
	{
		recipeGroup.GET("", recipes.HandleList)
		recipeGroup.POST("", recipes.HandleCreate)
		recipeGroup.POST("/import", recipes.HandleImport)
		recipeGroup.GET("/:id", recipes.HandleGet)
	}

	pantryHandler := pantry.NewHandler(deps.Store)
	pantryGroup := api.Group("/pantry")
	{
		pantryGroup.GET("", pantryHandler.HandleList)
		pantryGroup.POST("", pantryHandler.HandleCreate)
		pantryGroup.PUT("/:id", pantryHandler.HandleUpdate)
		pantryGroup.DELETE("/:id", pantryHandler.HandleDelete)
	}

	adminHandler := admin.NewHandler(deps.Backfiller)
	adminGroup := api.Group("/admin/backfill")
	{
		adminGroup.POST("/metadata", adminHandler.HandleBackfillMetadata)
		adminGroup.POST("/images", adminHandler.HandleBackfillImages)
	}

	router.NoRoute(func(c *gin.Context) {
		common.WriteError(c, common.ErrNotFound)
	})

	common.LogInfo("Router setup completed successfully",
		zap.Bool("ai_configured", cfg.AIConfigured()),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}

// corsConfig 未設定來源時允許全部來源，萬用來源不附帶憑證
func corsConfig(origins []string) cors.Config {
	conf := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			conf.AllowAllOrigins = true
			return conf
		}
	}
	if len(origins) == 0 {
		conf.AllowAllOrigins = true
		return conf
	}
	conf.AllowOrigins = origins
	conf.AllowCredentials = true
	return conf
}
