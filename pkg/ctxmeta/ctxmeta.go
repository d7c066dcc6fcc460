// Пакет ctxmeta — метаданные обработки, прокидываемые через context.Context:
// request_id из HTTP-слоя, entry_id из цикла чтения потока, trace/span из otel.
// HTTP-слой, слушатель и логгер зависят от этого маленького пакета,
// но не друг от друга.
package ctxmeta

import "context"

type ctxKey string

const (
	// Ключи контекста (неэкспортируемый тип — чтобы избежать коллизий).
	KeyRequestID ctxKey = "request_id"
	KeyEntryID   ctxKey = "entry_id"
)

// WithRequestID кладёт request_id HTTP-запроса в контекст (пустой — ничего не делает).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withString(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyRequestID)
}

// WithEntryID кладёт id записи потока в контекст; слушатель оборачивает им
// каждый вызов обработчика, чтобы логи обработки несли id записи.
func WithEntryID(ctx context.Context, entryID string) context.Context {
	return withString(ctx, KeyEntryID, entryID)
}

// EntryIDFromContext достаёт id записи потока из контекста.
func EntryIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyEntryID)
}

func withString(ctx context.Context, key ctxKey, v string) context.Context {
	if ctx == nil || v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func stringFrom(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
