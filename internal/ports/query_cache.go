package ports

import (
	"context"

	"github.com/alexandr-bsu/memos-frorked/internal/domain"
)

// QueryCache — кэш недавних запросов.
// Требования к реализации: потокобезопасность; доступ по ключу не хуже O(1); возврат копий сущности.
type QueryCache interface {
	// Get — вернуть запрос по идентификатору записи потока;
	// (query, true) при попадании, (nil, false) при промахе/истечении.
	Get(ctx context.Context, streamID string) (*domain.Query, bool)

	// Set — сохранить/обновить запрос в кэше.
	Set(ctx context.Context, query *domain.Query) error

	// Recent — до n последних запросов, от новых к старым.
	Recent(ctx context.Context, n int) []*domain.Query
}
