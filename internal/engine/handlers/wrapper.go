package handlers

import (
	"encoding"
	"fmt"

	"nuggets-server/pkg/api"
)

// TypedHandlerFunc - это "чистый" хендлер, который работает с готовой структурой T
type TypedHandlerFunc[T any] func(ctx Context, payload T) (Result, error)

// EmptyHandlerFunc - хендлер, которому НЕ нужны данные (SPECTATE)
type EmptyHandlerFunc func(ctx Context) (Result, error)

// WithPayload берет "чистый" хендлер и превращает его в стандартный HandlerFunc.
// Она берет на себя разбор текста и Validate.
func WithPayload[T any](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context, raw string) (Result, error) {
		var payload T

		// 1. Разбор текста
		// Payload должен реализовать encoding.TextUnmarshaler на указателе
		u, ok := any(&payload).(encoding.TextUnmarshaler)
		if !ok {
			return Result{}, fmt.Errorf("payload %T cannot be decoded from text", payload)
		}
		if err := u.UnmarshalText([]byte(raw)); err != nil {
			return Result{}, fmt.Errorf("invalid payload format: %w", err)
		}

		// 2. Автоматическая валидация
		if v, ok := any(payload).(api.Validator); ok {
			if err := v.Validate(); err != nil {
				return Result{}, fmt.Errorf("validation failed: %w", err)
			}
		}

		// 3. Вызов чистой логики
		return handler(ctx, payload)
	}
}

// WithEmptyPayload - обертка для команд без данных (SPECTATE)
func WithEmptyPayload(handler EmptyHandlerFunc) HandlerFunc {
	return func(ctx Context, _ string) (Result, error) {
		// Остаток строки игнорируется, он не нужен логике.
		return handler(ctx)
	}
}
