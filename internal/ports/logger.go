package ports

import "context"

// Logger — минимальный контракт логгера для внешних слоёв.
// Контекст передаётся ради request_id/trace_id (см. pkg/ctxmeta).
type Logger interface {
	Infof(ctx context.Context, format string, args ...any)
	Warnf(ctx context.Context, format string, args ...any)
	Errorf(ctx context.Context, format string, args ...any)
}
