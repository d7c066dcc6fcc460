package ports

import (
	"context"

	"github.com/alexandr-bsu/memos-frorked/internal/domain"
)

// QueryService — контракт сервиса запросов для внешних слоёв (HTTP, CLI).
type QueryService interface {
	// Submit — опубликовать запрос в поток; возвращает идентификатор записи.
	Submit(ctx context.Context, text, userID string) (string, error)

	// Recent — до n последних запросов, от новых к старым.
	Recent(ctx context.Context, n int) []*domain.Query

	// History — постраничная история запросов.
	History(ctx context.Context, limit, offset int) ([]*domain.Query, error)
}
