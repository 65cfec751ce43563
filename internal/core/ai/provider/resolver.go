package provider

import (
	"context"
	"fmt"
	"time"
)

// Result 標記來源供應商的結果
type Result[T any] struct {
	Provider Name `json:"provider"`
	Value    T    `json:"value"`
}

// ResolveText 依序嘗試供應商，第一個成功即返回，後面的供應商不會被調用。
// 全部不可用時返回 false。
func ResolveText[T any](ctx context.Context, candidates ...Candidate[T]) (Result[T], bool) {
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			break
		}
		if candidate.Call == nil {
			continue
		}
		if outcome := candidate.Call(ctx); outcome.OK {
			return Result[T]{Provider: candidate.Name, Value: outcome.Value}, true
		}
	}
	var zero Result[T]
	return zero, false
}

// WithTimeout 為調用加上逾時，逾時後即使調用未返回也視為不可用
func WithTimeout[T any](timeout time.Duration, call Call[T]) Call[T] {
	if timeout <= 0 {
		return call
	}
	return func(ctx context.Context) Outcome[T] {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		done := make(chan Outcome[T], 1)
		go func() {
			done <- call(ctx)
		}()

		select {
		case outcome := <-done:
			return outcome
		case <-ctx.Done():
			return Unavailable[T](fmt.Sprintf("timeout after %s: %v", timeout, ctx.Err()))
		}
	}
}
