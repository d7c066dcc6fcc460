//go:build !otel || gopls

package ctxmeta

import "context"

// Без тега `otel` трейсинг в сборку не входит — заглушки возвращают пусто.
func TraceIDFromContext(context.Context) (string, bool) { return "", false }
func SpanIDFromContext(context.Context) (string, bool)  { return "", false }
