package redisstream

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

// collector — тестовый обработчик: копит полученные записи,
// умеет падать на заданном значении поля q.
type collector struct {
	mu     sync.Mutex
	texts  []string
	ids    []string
	failOn string
}

func (c *collector) handle(_ context.Context, id string, fields map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.texts = append(c.texts, fields["q"])
	c.ids = append(c.ids, id)
	if c.failOn != "" && fields["q"] == c.failOn {
		return errors.New("handler rejected entry")
	}
	return nil
}

func (c *collector) seen() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.texts...)
}

func newTestListener(c *Client, cfg ListenerConfig) *Listener {
	if cfg.BlockTimeout == 0 {
		cfg.BlockTimeout = 100 * time.Millisecond
	}
	if cfg.ReconnectWait == 0 {
		cfg.ReconnectWait = 50 * time.Millisecond
	}
	if cfg.RetryWait == 0 {
		cfg.RetryWait = 20 * time.Millisecond
	}
	if cfg.StopTimeout == 0 {
		cfg.StopTimeout = 2 * time.Second
	}
	return NewListener(c, cfg, nopLogger{})
}

func publishN(t *testing.T, p *Publisher, texts ...string) {
	t.Helper()
	for _, q := range texts {
		_, err := p.Publish(context.Background(), map[string]string{"q": q})
		require.NoError(t, err)
	}
}

func TestListener_DeliversAllEntriesInOrder(t *testing.T) {
	mr := miniredis.RunT(t)
	c := newTestClient(t, mr, 0)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	publishN(t, NewPublisher(c, nopLogger{}), "one", "two", "three")

	col := &collector{}
	l := newTestListener(c, ListenerConfig{StartID: "0-0"})
	require.NoError(t, l.Start(col.handle))
	defer l.Stop()

	require.Eventually(t, func() bool { return len(col.seen()) == 3 }, 5*time.Second, 20*time.Millisecond)
	require.Equal(t, []string{"one", "two", "three"}, col.seen())
}

// Курсор "$": записи, существовавшие до запуска, не доставляются.
func TestListener_DollarCursorSkipsHistory(t *testing.T) {
	mr := miniredis.RunT(t)
	c := newTestClient(t, mr, 0)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	p := NewPublisher(c, nopLogger{})
	publishN(t, p, "old")

	col := &collector{}
	l := newTestListener(c, ListenerConfig{StartID: "$"})
	require.NoError(t, l.Start(col.handle))
	defer l.Stop()

	// Дать циклу зафиксировать позицию, затем публиковать новое.
	time.Sleep(300 * time.Millisecond)
	publishN(t, p, "new")

	require.Eventually(t, func() bool { return len(col.seen()) == 1 }, 5*time.Second, 20*time.Millisecond)
	require.Equal(t, []string{"new"}, col.seen())
}

// Ошибка обработчика на записи 2 из 3: записи 1 и 3 обработаны,
// цикл продолжает доставлять новые записи.
func TestListener_HandlerErrorDoesNotStopLoop(t *testing.T) {
	mr := miniredis.RunT(t)
	c := newTestClient(t, mr, 0)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	p := NewPublisher(c, nopLogger{})
	publishN(t, p, "first", "bad", "third")

	col := &collector{failOn: "bad"}
	l := newTestListener(c, ListenerConfig{StartID: "0-0"})
	require.NoError(t, l.Start(col.handle))
	defer l.Stop()

	require.Eventually(t, func() bool { return len(col.seen()) == 3 }, 5*time.Second, 20*time.Millisecond)
	require.Equal(t, []string{"first", "bad", "third"}, col.seen())

	// Цикл жив: следующая запись тоже доставляется.
	publishN(t, p, "fourth")
	require.Eventually(t, func() bool { return len(col.seen()) == 4 }, 5*time.Second, 20*time.Millisecond)
}

// Паника обработчика изолируется так же, как ошибка.
func TestListener_HandlerPanicIsIsolated(t *testing.T) {
	mr := miniredis.RunT(t)
	c := newTestClient(t, mr, 0)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	p := NewPublisher(c, nopLogger{})
	publishN(t, p, "boom", "after")

	var mu sync.Mutex
	var seen []string
	handler := func(_ context.Context, _ string, fields map[string]string) error {
		mu.Lock()
		seen = append(seen, fields["q"])
		mu.Unlock()
		if fields["q"] == "boom" {
			panic("handler exploded")
		}
		return nil
	}

	l := newTestListener(c, ListenerConfig{StartID: "0-0"})
	require.NoError(t, l.Start(handler))
	defer l.Stop()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestListener_DeadLetterReceivesFailedEntries(t *testing.T) {
	mr := miniredis.RunT(t)
	c := newTestClient(t, mr, 0)
	ctx := context.Background()
	require.NoError(t, c.Connect(ctx))
	defer c.Close()

	p := NewPublisher(c, nopLogger{})
	publishN(t, p, "bad")

	const deadKey = "user:queries:dead"
	col := &collector{failOn: "bad"}
	l := newTestListener(c, ListenerConfig{StartID: "0-0", DeadLetterKey: deadKey})
	require.NoError(t, l.Start(col.handle))
	defer l.Stop()

	require.Eventually(t, func() bool {
		n, err := c.Conn().XLen(ctx, deadKey).Result()
		return err == nil && n == 1
	}, 5*time.Second, 20*time.Millisecond)

	msgs, err := c.Conn().XRange(ctx, deadKey, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "bad", msgs[0].Values["q"])
	require.NotEmpty(t, msgs[0].Values["source_id"])
	require.Contains(t, msgs[0].Values["error"], "rejected")
}

// Инвариант одного слушателя: повторный Start не создаёт второй цикл.
func TestListener_StartTwiceReturnsError(t *testing.T) {
	mr := miniredis.RunT(t)
	c := newTestClient(t, mr, 0)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	l := newTestListener(c, ListenerConfig{StartID: "$"})
	require.NoError(t, l.Start(nil))
	defer l.Stop()

	require.ErrorIs(t, l.Start(nil), ErrAlreadyRunning)
	require.True(t, l.Running())
}

func TestListener_StopIsIdempotent(t *testing.T) {
	mr := miniredis.RunT(t)
	c := newTestClient(t, mr, 0)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	l := newTestListener(c, ListenerConfig{StartID: "$"})

	// Stop без Start — no-op.
	l.Stop()

	require.NoError(t, l.Start(nil))
	l.Stop()
	l.Stop()
	require.False(t, l.Running())

	// После остановки слушатель можно запустить снова.
	require.NoError(t, l.Start(nil))
	l.Stop()
}

// Остановка во время блокирующего чтения укладывается в таймаут блокировки,
// а не в таймаут Stop.
func TestListener_StopReturnsWithinBlockTimeout(t *testing.T) {
	mr := miniredis.RunT(t)
	c := newTestClient(t, mr, 0)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	l := newTestListener(c, ListenerConfig{
		StartID:      "$",
		BlockTimeout: 300 * time.Millisecond,
		StopTimeout:  5 * time.Second,
	})
	require.NoError(t, l.Start(nil))

	time.Sleep(100 * time.Millisecond) // цикл вошёл в блокирующее чтение

	started := time.Now()
	l.Stop()
	require.Less(t, time.Since(started), 2*time.Second)
	require.False(t, l.Running())
}

// Потеря соединения: слушатель переподключается и продолжает с прежней позиции.
func TestListener_ResumesAfterServerRestart(t *testing.T) {
	mr := miniredis.RunT(t)
	c := newTestClient(t, mr, 0)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	p := NewPublisher(c, nopLogger{})
	publishN(t, p, "before")

	col := &collector{}
	l := newTestListener(c, ListenerConfig{StartID: "0-0"})
	require.NoError(t, l.Start(col.handle))
	defer l.Stop()

	require.Eventually(t, func() bool { return len(col.seen()) == 1 }, 5*time.Second, 20*time.Millisecond)

	// Рестарт сервера рвёт все соединения; данные miniredis сохраняет.
	// Restart() в miniredis перезапускает только закрытый сервер.
	mr.Close()
	require.NoError(t, mr.Restart())

	require.Eventually(t, func() bool {
		_, err := p.Publish(context.Background(), map[string]string{"q": "after"})
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	require.Eventually(t, func() bool { return len(col.seen()) == 2 }, 5*time.Second, 20*time.Millisecond)
	require.Equal(t, []string{"before", "after"}, col.seen())
}

// Серверная ошибка (не транспортная) уводит цикл в короткий повтор,
// после снятия ошибки доставка продолжается.
func TestListener_RetriesAfterServerError(t *testing.T) {
	mr := miniredis.RunT(t)
	c := newTestClient(t, mr, 0)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	p := NewPublisher(c, nopLogger{})

	col := &collector{}
	l := newTestListener(c, ListenerConfig{StartID: "0-0"})
	require.NoError(t, l.Start(col.handle))
	defer l.Stop()

	mr.SetError("simulated failure")
	time.Sleep(200 * time.Millisecond)
	mr.SetError("")

	publishN(t, p, "recovered")
	require.Eventually(t, func() bool { return len(col.seen()) == 1 }, 5*time.Second, 20*time.Millisecond)
	require.Equal(t, []string{"recovered"}, col.seen())
}
