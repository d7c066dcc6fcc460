package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/alexandr-bsu/memos-frorked/internal/domain"
	"github.com/alexandr-bsu/memos-frorked/internal/ports"
)

// Проверка, что QueryService пригоден для внешних слоёв.
var _ ports.QueryService = (*QueryService)(nil)

// QueryService — прикладная логика работы с запросами (без знаний о транспорте).
type QueryService struct {
	repo      ports.QueryRepository
	cache     ports.QueryCache
	publisher ports.StreamPublisher
	log       ports.Logger
	validator ports.QueryValidator
}

// NewQueryService — DI-конструктор.
func NewQueryService(
	repo ports.QueryRepository,
	cache ports.QueryCache,
	publisher ports.StreamPublisher,
	log ports.Logger,
	validator ports.QueryValidator,
) *QueryService {
	return &QueryService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
		validator: validator,
	}
}

// HandleEntry — обработчик записи потока (подключается к слушателю).
// Шаги:
//  1. сборка доменного запроса из полей записи;
//  2. доменная валидация (вернёт validate.ErrInvalidQuery при проблемах);
//  3. идемпотентное сохранение в БД (конфликт по stream_id — не дубль);
//  4. обновление кэша недавних запросов.
func (s *QueryService) HandleEntry(ctx context.Context, entryID string, fields map[string]string) error {
	query := domain.QueryFromFields(entryID, fields, time.Now().UTC())

	if err := s.validator.Validate(ctx, query); err != nil {
		s.log.Warnf(ctx, "validation failed stream_id=%s err=%v", entryID, err)
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := s.repo.Save(ctx, query); err != nil {
		s.log.Errorf(ctx, "repo.Save failed stream_id=%s err=%v", entryID, err)
		return fmt.Errorf("failed to save query: %w", err)
	}

	if err := s.cache.Set(ctx, query); err != nil {
		s.log.Warnf(ctx, "cache.Set failed stream_id=%s err=%v", entryID, err)
	}

	s.log.Infof(ctx, "query saved stream_id=%s user_id=%s", entryID, query.UserID)
	return nil
}

// Submit — опубликовать запрос в поток. Возвращает идентификатор записи,
// присвоенный хранилищем потока.
func (s *QueryService) Submit(ctx context.Context, text, userID string) (string, error) {
	query := &domain.Query{Text: text, UserID: userID}
	if err := s.validator.Validate(ctx, query); err != nil {
		s.log.Warnf(ctx, "submit rejected user_id=%s err=%v", userID, err)
		return "", fmt.Errorf("validation failed: %w", err)
	}

	id, err := s.publisher.Publish(ctx, query.Fields())
	if err != nil {
		s.log.Errorf(ctx, "publish failed user_id=%s err=%v", userID, err)
		return "", fmt.Errorf("failed to publish query: %w", err)
	}

	s.log.Infof(ctx, "query published stream_id=%s user_id=%s", id, userID)
	return id, nil
}

// Recent — до n последних запросов из кэша, от новых к старым.
func (s *QueryService) Recent(ctx context.Context, n int) []*domain.Query {
	return s.cache.Recent(ctx, n)
}

// History — постраничная история запросов из БД.
func (s *QueryService) History(ctx context.Context, limit, offset int) ([]*domain.Query, error) {
	return s.repo.List(ctx, limit, offset)
}

// WarmUpCache — прогрев кэша последними N запросами из БД.
// Если n <= 0, прогрев не выполняется (но это не ошибка).
func (s *QueryService) WarmUpCache(ctx context.Context, n int) error {
	if n <= 0 {
		s.log.Warnf(ctx, "cache warm-up skipped: n <= 0 (n=%d)", n)
		return nil
	}

	start := time.Now()
	list, err := s.repo.LastN(ctx, n)
	if err != nil {
		s.log.Errorf(ctx, "repo.LastN failed n=%d err=%v", n, err)
		return err
	}

	// LastN отдаёт от новых к старым; кэш заполняем от старых к новым,
	// чтобы самые свежие оказались в голове LRU.
	for i := len(list) - 1; i >= 0; i-- {
		if setErr := s.cache.Set(ctx, list[i]); setErr != nil {
			s.log.Warnf(ctx, "cache.Set failed stream_id=%s err=%v", list[i].StreamID, setErr)
		}
	}
	s.log.Infof(ctx, "cache warmed with %d queries in %s", len(list), time.Since(start))
	return nil
}
