package provider

import (
	"context"
	"time"

	"recipe-assistant/internal/infrastructure/metrics"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// JSONCandidate 將 TextProvider 包成候選供應商。
// 未設定、網路錯誤、非 2xx、JSON 解析失敗與結構檢查失敗都轉為 Unavailable。
func JSONCandidate[T any](p TextProvider, operation string, messages []common.ChatMessage, timeout time.Duration) Candidate[T] {
	call := func(ctx context.Context) Outcome[T] {
		if !p.Configured() {
			common.LogDebug("AI 供應商未設定，略過",
				zap.String("provider", string(p.Name())),
				zap.String("operation", operation),
			)
			return Unavailable[T]("provider not configured")
		}

		start := time.Now()
		var value T
		err := p.CompleteJSON(ctx, messages, &value)
		if err == nil {
			if v, ok := any(&value).(common.Validator); ok {
				err = v.Validate()
			}
		}
		duration := time.Since(start)

		common.LogProviderCall(string(p.Name()), operation, duration, err)
		metrics.ObserveProvider(string(p.Name()), operation, err == nil, duration)
		return FromError(value, err)
	}

	return Candidate[T]{Name: p.Name(), Call: WithTimeout(timeout, call)}
}
