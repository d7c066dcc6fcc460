package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alexandr-bsu/memos-frorked/internal/domain"
	"github.com/alexandr-bsu/memos-frorked/internal/ports"
)

// Проверка, что QueryRepository удовлетворяет интерфейсу ports.QueryRepository.
var _ ports.QueryRepository = (*QueryRepository)(nil)

// QueryRepository — реализация репозитория запросов на Postgres (pgxpool).
type QueryRepository struct {
	pool *pgxpool.Pool
}

// NewQueryRepository - конструктор QueryRepository.
func NewQueryRepository(pool *pgxpool.Pool) *QueryRepository { return &QueryRepository{pool: pool} }

// Save — сохраняет запрос. Повторная доставка той же записи потока
// не создаёт дубль: конфликт по stream_id молча игнорируется.
func (r *QueryRepository) Save(ctx context.Context, query *domain.Query) error {
	if query == nil || query.StreamID == "" {
		return errors.New("query is empty or stream_id is required")
	}

	if _, err := r.pool.Exec(ctx, `
		INSERT INTO queries (stream_id, text, user_id, received_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (stream_id) DO NOTHING
	`, query.StreamID, query.Text, query.UserID, query.ReceivedAt); err != nil {
		return fmt.Errorf("insert query: %w", err)
	}
	return nil
}

// List — постраничная история запросов, от новых к старым.
// Сортировка по received_at, при равенстве — по stream_id: идентификаторы
// записей одного потока монотонны в пределах миллисекунды.
func (r *QueryRepository) List(ctx context.Context, limit, offset int) ([]*domain.Query, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
		SELECT stream_id, text, user_id, received_at
		FROM queries
		ORDER BY received_at DESC, stream_id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("select queries: %w", err)
	}
	defer rows.Close()

	queries := make([]*domain.Query, 0, limit)
	for rows.Next() {
		q := &domain.Query{}
		if err := rows.Scan(&q.StreamID, &q.Text, &q.UserID, &q.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan query: %w", err)
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("queries rows: %w", err)
	}
	return queries, nil
}

// LastN — последние N запросов, от новых к старым (для прогрева кэша).
func (r *QueryRepository) LastN(ctx context.Context, n int) ([]*domain.Query, error) {
	if n <= 0 {
		return nil, nil
	}
	return r.List(ctx, n, 0)
}
