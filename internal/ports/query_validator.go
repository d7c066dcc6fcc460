package ports

import (
	"context"

	"github.com/alexandr-bsu/memos-frorked/internal/domain"
)

type QueryValidator interface {
	Validate(ctx context.Context, query *domain.Query) error
}
