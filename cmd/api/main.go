package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-assistant/internal/api"
	"recipe-assistant/internal/core/ai/cache"
	"recipe-assistant/internal/core/ai/deepseek"
	"recipe-assistant/internal/core/ai/openai"
	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/core/ai/queue"
	"recipe-assistant/internal/core/image"
	"recipe-assistant/internal/core/recipe"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/infrastructure/persistence"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.Bool("ai_configured", cfg.AIConfigured()),
		zap.String("deepseek_model", cfg.DeepSeek.TextModel),
		zap.String("openai_model", cfg.OpenAI.TextModel),
		zap.String("database_driver", cfg.Database.Driver),
	)

	// 初始化快取
	cacheManager := cache.NewManager(cfg.Cache)
	defer cacheManager.Close()

	var textCache cache.Store
	if cacheManager != nil {
		textCache = cacheManager
	}

	// Redis 無法連線時改用進程內快取
	lookupCache := textCache
	redisCache, err := cache.NewService(cfg.Redis)
	if err != nil {
		common.LogWarn("Redis unavailable, falling back to in-process cache", zap.Error(err))
	} else {
		defer redisCache.Close()
		if redisCache.Enabled() {
			lookupCache = redisCache
		}
	}

	// 資料庫
	db, err := persistence.Open(cfg.Database)
	if err != nil {
		common.LogFatal("Failed to open database", zap.Error(err))
	}
	defer persistence.Close(db)
	store := persistence.NewStore(db)

	// AI 供應商，未設定金鑰時各呼叫直接返回不可用
	deepseekClient := deepseek.NewClient(cfg.DeepSeek, textCache)
	openaiClient := openai.NewClient(cfg.OpenAI, textCache)

	lookup := image.NewLookup(lookupCache,
		image.NewMealDBSource(cfg.External.MealDBBaseURL, cfg.External.Timeout),
		image.NewWikipediaSource(cfg.External.WikipediaBaseURL, cfg.External.Timeout),
	)
	images := image.NewService(openaiClient, deepseekClient, lookup, image.Timeouts{
		Generate: cfg.OpenAI.Timeout,
		Query:    cfg.DeepSeek.Timeout,
		Lookup:   cfg.External.Timeout,
	})

	chain := recipe.NewTextChain(cfg.DeepSeek.Timeout, deepseekClient, openaiClient).
		WithProviderTimeout(provider.OpenAI, cfg.OpenAI.Timeout)
	metadata := recipe.NewMetadataService(chain)
	narratives := recipe.NewNarrativeService(chain)

	// 背景任務隊列
	taskQueue := queue.NewManager(cfg.Queue)
	defer taskQueue.Close()

	router := api.SetupRouter(cfg, api.Dependencies{
		Store:      store,
		Queue:      taskQueue,
		CookNow:    recipe.NewCookNowService(store, narratives),
		Metadata:   metadata,
		Recipes:    recipe.NewService(store, metadata, images),
		Importer:   recipe.NewImporter(store, recipe.NewMealDBCatalog(cfg.External.MealDBBaseURL, cfg.External.Timeout), metadata),
		Backfiller: recipe.NewBackfiller(store, metadata, images, taskQueue),
	})

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
