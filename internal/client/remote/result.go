package remote

import (
	"context"
	"errors"
	"time"
)

// FallbackReason tells why a remote call site fell back to local data.
type FallbackReason string

const (
	ReasonNone        FallbackReason = "none"         // удаленный вызов успешен
	ReasonOffline     FallbackReason = "offline"      // попытки не было
	ReasonTimeout     FallbackReason = "timeout"      // истек таймаут
	ReasonRemoteError FallbackReason = "remote_error" // сеть или ошибка сервера
	ReasonNotFound    FallbackReason = "not_found"    // строки нет на сервере
	ReasonUnsynced    FallbackReason = "unsynced"     // дерево еще не создано на сервере
	ReasonPending     FallbackReason = "pending"      // прежние правки тех же полей ждут отправки
)

// DefaultTimeout bounds remote calls on the read and write paths.
const DefaultTimeout = 5 * time.Second

// Result is the outcome of one remote call site.
type Result[T any] struct {
	Value  T
	Err    error
	Reason FallbackReason
}

// OK reports whether the remote call succeeded.
func (r Result[T]) OK() bool {
	return r.Reason == ReasonNone
}

// Offline returns the result of a call that was not attempted.
func Offline[T any]() Result[T] {
	return Result[T]{Reason: ReasonOffline}
}

// Call runs fn bounded by timeout and classifies its error.
func Call[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) Result[T] {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	value, err := fn(ctx)
	if err != nil {
		return Result[T]{Err: err, Reason: Classify(err)}
	}
	return Result[T]{Value: value, Reason: ReasonNone}
}

// Classify maps an error returned by a Gateway to a FallbackReason.
func Classify(err error) FallbackReason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound
	default:
		return ReasonRemoteError
	}
}
