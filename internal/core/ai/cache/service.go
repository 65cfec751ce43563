package cache

import (
	"context"
	"errors"
	"fmt"

	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Service Redis 緩存服務，跨實例共享外部圖片查詢結果
type Service struct {
	client *redis.Client
	config config.RedisConfig
}

// NewService 創建緩存服務
func NewService(cfg config.RedisConfig) (*Service, error) {
	if !cfg.Enabled {
		return &Service{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 快取已連線", zap.String("addr", cfg.Addr))

	return &Service{
		client: client,
		config: cfg,
	}, nil
}

// Enabled 是否已連線
func (s *Service) Enabled() bool {
	return s != nil && s.client != nil
}

// Get 獲取緩存
func (s *Service) Get(ctx context.Context, namespace, key string) (string, bool) {
	if !s.Enabled() {
		return "", false
	}

	cacheKey := s.generateKey(namespace, key)
	value, err := s.client.Get(ctx, cacheKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			common.LogWarn("Redis 讀取失敗", zap.String("key", cacheKey), zap.Error(err))
		}
		common.LogCacheMiss(namespace, cacheKey)
		return "", false
	}

	common.LogCacheHit(namespace, cacheKey)
	return value, true
}

// Set 設置緩存
func (s *Service) Set(ctx context.Context, namespace, key, value string) error {
	if !s.Enabled() {
		return common.ErrCacheDisabled
	}

	if err := s.client.Set(ctx, s.generateKey(namespace, key), value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉連線
func (s *Service) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Close()
}

// generateKey 生成緩存鍵
func (s *Service) generateKey(namespace, key string) string {
	return fmt.Sprintf("recipe-assistant:%s", generateKey(namespace, key))
}
