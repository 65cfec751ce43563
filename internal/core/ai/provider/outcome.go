package provider

import "context"

// Outcome 供應商調用結果，OK 為 false 時 Reason 說明不可用的原因
type Outcome[T any] struct {
	Value  T
	OK     bool
	Reason string
}

// Some 成功結果
func Some[T any](value T) Outcome[T] {
	return Outcome[T]{Value: value, OK: true}
}

// Unavailable 不可用結果
func Unavailable[T any](reason string) Outcome[T] {
	return Outcome[T]{Reason: reason}
}

// FromError 依 err 是否為 nil 轉為 Outcome
func FromError[T any](value T, err error) Outcome[T] {
	if err != nil {
		return Unavailable[T](err.Error())
	}
	return Some(value)
}

// Call 一次供應商調用
type Call[T any] func(ctx context.Context) Outcome[T]

// Candidate 依序嘗試的供應商
type Candidate[T any] struct {
	Name Name
	Call Call[T]
}
