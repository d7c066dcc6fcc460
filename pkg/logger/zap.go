package logger

import (
	"context"

	"go.uber.org/zap"

	"github.com/alexandr-bsu/memos-frorked/pkg/ctxmeta"
)

// ZapLogger — реализация ports.Logger поверх zap.
// Из контекста подмешивает request_id, entry_id и trace/span (см. pkg/ctxmeta),
// поэтому обработчики пишут логи без ручного прокидывания идентификаторов.
type ZapLogger struct {
	base *zap.Logger
}

// NewZapLogger собирает логгер: production-конфиг (JSON) или development
// (консоль), плюс постоянное поле service. Возвращает cleanup для Sync.
func NewZapLogger(isProd bool, service string) (*ZapLogger, func() error, error) {
	var (
		base *zap.Logger
		err  error
	)
	if isProd {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, nil, err
	}
	if service != "" {
		base = base.With(zap.String("service", service))
	}

	l := &ZapLogger{base: base}
	return l, func() error { return l.base.Sync() }, nil
}

func (z *ZapLogger) Infof(ctx context.Context, format string, args ...any) {
	z.sugarFor(ctx).Infof(format, args...)
}

func (z *ZapLogger) Warnf(ctx context.Context, format string, args ...any) {
	z.sugarFor(ctx).Warnf(format, args...)
}

func (z *ZapLogger) Errorf(ctx context.Context, format string, args ...any) {
	z.sugarFor(ctx).Errorf(format, args...)
}

// sugarFor — сахарный логгер с полями из контекста текущей операции.
func (z *ZapLogger) sugarFor(ctx context.Context) *zap.SugaredLogger {
	if ctx == nil {
		return z.base.Sugar()
	}

	fields := make([]zap.Field, 0, 4)
	if rid, ok := ctxmeta.RequestIDFromContext(ctx); ok {
		fields = append(fields, zap.String("request_id", rid))
	}
	if eid, ok := ctxmeta.EntryIDFromContext(ctx); ok {
		fields = append(fields, zap.String("entry_id", eid))
	}
	if tid, ok := ctxmeta.TraceIDFromContext(ctx); ok {
		fields = append(fields, zap.String("trace_id", tid))
	}
	if sid, ok := ctxmeta.SpanIDFromContext(ctx); ok {
		fields = append(fields, zap.String("span_id", sid))
	}
	if len(fields) == 0 {
		return z.base.Sugar()
	}
	return z.base.With(fields...).Sugar()
}
