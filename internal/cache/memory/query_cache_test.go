package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alexandr-bsu/memos-frorked/internal/domain"
)

func newQuery(id, text string) *domain.Query {
	return &domain.Query{
		StreamID:   id,
		Text:       text,
		ReceivedAt: time.Now(),
	}
}

func TestSetGet_HitMiss(t *testing.T) {
	c := NewLRUCacheTTL(2, 5*time.Minute)
	ctx := context.Background()

	// miss
	if _, ok := c.Get(ctx, "1-0"); ok {
		t.Fatalf("expected miss before Set")
	}

	// hit после Set
	_ = c.Set(ctx, newQuery("1-0", "hello"))
	got, ok := c.Get(ctx, "1-0")
	if !ok || got.Text != "hello" {
		t.Fatalf("expected hit for 1-0")
	}
}

func TestTTL_Expiry(t *testing.T) {
	c := NewLRUCacheTTL(2, 100*time.Millisecond)
	ctx := context.Background()

	_ = c.Set(ctx, newQuery("1-0", "ttl"))
	if _, ok := c.Get(ctx, "1-0"); !ok {
		t.Fatalf("expected hit right after Set")
	}
	time.Sleep(150 * time.Millisecond)
	if _, ok := c.Get(ctx, "1-0"); ok {
		t.Fatalf("expected miss after TTL expires")
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRUCacheTTL(2, 0) // 0 = без TTL
	ctx := context.Background()

	_ = c.Set(ctx, newQuery("1-0", "A"))
	_ = c.Set(ctx, newQuery("2-0", "B"))
	// A сделать «свежим»
	if _, ok := c.Get(ctx, "1-0"); !ok {
		t.Fatalf("expected hit for A")
	}
	// Добавляем C — вытеснит B (самый старый)
	_ = c.Set(ctx, newQuery("3-0", "C"))

	if _, ok := c.Get(ctx, "2-0"); ok {
		t.Fatalf("expected B to be evicted")
	}
	if _, ok := c.Get(ctx, "1-0"); !ok || c.ll.Len() != 2 {
		t.Fatalf("expected A & C to stay in cache")
	}
}

func TestRecent_NewestFirst(t *testing.T) {
	c := NewLRUCacheTTL(10, 0)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		_ = c.Set(ctx, newQuery(fmt.Sprintf("%d-0", i), fmt.Sprintf("q%d", i)))
	}

	recent := c.Recent(ctx, 3)
	if len(recent) != 3 {
		t.Fatalf("expected 3 recent queries, got %d", len(recent))
	}
	if recent[0].Text != "q5" || recent[1].Text != "q4" || recent[2].Text != "q3" {
		t.Fatalf("unexpected order: %v", recent)
	}

	// n больше размера кэша — возвращается всё, что есть.
	if got := c.Recent(ctx, 100); len(got) != 5 {
		t.Fatalf("expected 5 queries, got %d", len(got))
	}
	if got := c.Recent(ctx, 0); got != nil {
		t.Fatalf("expected nil for n=0")
	}
}

func TestCloneImmutability(t *testing.T) {
	c := NewLRUCacheTTL(1, 0)
	ctx := context.Background()
	_ = c.Set(ctx, newQuery("1-0", "original"))

	// меняем то, что вернул Get — не должно влиять на кэш
	q1, _ := c.Get(ctx, "1-0")
	q1.Text = "changed"

	q2, _ := c.Get(ctx, "1-0")
	if q2.Text == "changed" {
		t.Fatalf("cache should return clones, not pointers to internal value")
	}
}
