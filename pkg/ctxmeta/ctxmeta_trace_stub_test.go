//go:build !otel
// +build !otel

package ctxmeta_test

import (
	"context"
	"testing"

	"github.com/alexandr-bsu/memos-frorked/pkg/ctxmeta"
)

// В сборке без otel заглушки всегда отвечают "нет трейса".
func TestTraceAndSpanIDs_StubBuild_AlwaysEmpty(t *testing.T) {
	ctx := ctxmeta.WithRequestID(context.Background(), "req-1")
	if id, ok := ctxmeta.TraceIDFromContext(ctx); ok || id != "" {
		t.Fatalf("TraceIDFromContext => %q,%v; want \"\",false", id, ok)
	}
	if id, ok := ctxmeta.SpanIDFromContext(ctx); ok || id != "" {
		t.Fatalf("SpanIDFromContext => %q,%v; want \"\",false", id, ok)
	}
}
