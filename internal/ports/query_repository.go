package ports

import (
	"context"

	"github.com/alexandr-bsu/memos-frorked/internal/domain"
)

type QueryRepository interface {
	// Save — сохраняет запрос; повторная доставка той же записи потока
	// не должна приводить к дублю (идемпотентность по StreamID).
	Save(ctx context.Context, query *domain.Query) error
	List(ctx context.Context, limit, offset int) ([]*domain.Query, error)
	LastN(ctx context.Context, n int) ([]*domain.Query, error)
}
