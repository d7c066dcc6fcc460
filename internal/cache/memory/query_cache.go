package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/alexandr-bsu/memos-frorked/internal/domain"
	"github.com/alexandr-bsu/memos-frorked/internal/ports"
	"github.com/alexandr-bsu/memos-frorked/pkg/metrics"
)

var _ ports.QueryCache = (*LRUCacheTTL)(nil)

type entry struct {
	id        string
	query     *domain.Query
	expiresAt time.Time
}

// LRUCacheTTL — потокобезопасный LRU-кэш запросов с необязательным TTL.
// ttl <= 0 отключает истечение.
type LRUCacheTTL struct {
	capacity int
	ttl      time.Duration

	ll    *list.List
	index map[string]*list.Element

	mu sync.Mutex
}

func NewLRUCacheTTL(capacity int, ttl time.Duration) *LRUCacheTTL {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRUCacheTTL{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		index:    make(map[string]*list.Element),
	}
}

// Get — вернуть запрос по идентификатору записи потока.
// Попадание продлевает TTL и делает элемент самым свежим.
func (c *LRUCacheTTL) Get(_ context.Context, streamID string) (*domain.Query, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[streamID]
	if !ok {
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	ent := elem.Value.(*entry)
	if c.isExpired(ent, now) {
		metrics.CacheOps.WithLabelValues("expired").Inc()
		c.removeElement(elem)
		metrics.CacheSize.Set(float64(len(c.index)))
		return nil, false
	}
	c.ll.MoveToFront(elem)

	if c.ttl > 0 {
		ent.expiresAt = c.expiryFrom(now)
	}

	metrics.CacheOps.WithLabelValues("hit").Inc()
	return cloneQuery(ent.query), true
}

// Set — сохранить/обновить запрос. Запросы без StreamID игнорируются.
func (c *LRUCacheTTL) Set(_ context.Context, query *domain.Query) error {
	if query == nil || query.StreamID == "" {
		return nil
	}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[query.StreamID]; ok {
		ent := elem.Value.(*entry)
		ent.query = cloneQuery(query)
		ent.expiresAt = c.expiryFrom(now)
		c.ll.MoveToFront(elem)
		return nil
	}

	c.pruneExpiredFromBack(now)

	elem := c.ll.PushFront(&entry{
		id:        query.StreamID,
		query:     cloneQuery(query),
		expiresAt: c.expiryFrom(now),
	})
	c.index[query.StreamID] = elem
	metrics.CacheSize.Set(float64(len(c.index)))

	if c.ll.Len() > c.capacity {
		c.evictLRU()
	}
	return nil
}

// Recent — до n последних запросов, от свежих к старым.
// Истекшие элементы пропускаются, но не удаляются.
func (c *LRUCacheTTL) Recent(_ context.Context, n int) []*domain.Query {
	if n <= 0 {
		return nil
	}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*domain.Query, 0, min(n, c.ll.Len()))
	for elem := c.ll.Front(); elem != nil && len(out) < n; elem = elem.Next() {
		ent := elem.Value.(*entry)
		if c.isExpired(ent, now) {
			continue
		}
		out = append(out, cloneQuery(ent.query))
	}
	return out
}
