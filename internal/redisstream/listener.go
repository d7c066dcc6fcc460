package redisstream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexandr-bsu/memos-frorked/internal/ports"
	"github.com/alexandr-bsu/memos-frorked/pkg/ctxmeta"
	"github.com/alexandr-bsu/memos-frorked/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// Проверка, что Listener удовлетворяет порту приложения.
var _ ports.StreamListener = (*Listener)(nil)

// ErrAlreadyRunning — Start вызван при уже работающем слушателе.
var ErrAlreadyRunning = errors.New("redisstream: listener already running")

// Состояния слушателя. Переходы: idle → running → stopping → idle.
const (
	stateIdle int32 = iota
	stateRunning
	stateStopping
)

// ListenerConfig — параметры цикла чтения.
type ListenerConfig struct {
	// BlockTimeout — максимум ожидания в блокирующем XREAD; ограничивает
	// сверху задержку реакции на запрос остановки.
	BlockTimeout time.Duration
	// ReadCount — сколько записей забирать за одно чтение.
	ReadCount int64
	// StartID — стартовый курсор: "$" — только новые записи,
	// конкретный идентификатор — возобновление после него.
	StartID string
	// ReconnectWait — пауза перед повтором после потери соединения.
	ReconnectWait time.Duration
	// RetryWait — пауза после прочих ошибок чтения.
	RetryWait time.Duration
	// StopTimeout — сколько Stop ждёт выхода фоновой горутины.
	StopTimeout time.Duration
	// DeadLetterKey — поток для записей, на которых упал обработчик;
	// пустой — записи только логируются и пропускаются.
	DeadLetterKey string
}

func (c *ListenerConfig) applyDefaults() {
	if c.BlockTimeout <= 0 {
		c.BlockTimeout = 2 * time.Second
	}
	if c.ReadCount <= 0 {
		c.ReadCount = 1
	}
	if c.StartID == "" {
		c.StartID = "$"
	}
	if c.ReconnectWait <= 0 {
		c.ReconnectWait = 5 * time.Second
	}
	if c.RetryWait <= 0 {
		c.RetryWait = time.Second
	}
	if c.StopTimeout <= 0 {
		c.StopTimeout = 5 * time.Second
	}
}

// Listener — фоновый слушатель потока: блокирующее чтение от курсора,
// диспетчеризация записей обработчику, восстановление после потери
// соединения. Ошибки внутри цикла не покидают его: они логируются и
// превращаются в повтор; завершить цикл может только Stop.
type Listener struct {
	client *Client
	cfg    ListenerConfig
	log    ports.Logger

	mu     sync.Mutex // защищает cancel/done между Start и Stop
	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}
}

func NewListener(client *Client, cfg ListenerConfig, log ports.Logger) *Listener {
	cfg.applyDefaults()
	return &Listener{client: client, cfg: cfg, log: log}
}

// Start — запускает цикл чтения в фоновой горутине.
// Инвариант одного слушателя: при уже работающем цикле — предупреждение
// в лог и ErrAlreadyRunning, второй цикл не создаётся.
func (l *Listener) Start(handler ports.EntryHandler) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.state.CompareAndSwap(stateIdle, stateRunning) {
		l.log.Warnf(context.Background(), "stream listener already running key=%s", l.client.StreamKey())
		return ErrAlreadyRunning
	}

	if handler == nil {
		handler = l.logEntry
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.done = make(chan struct{})

	go l.run(ctx, handler, l.done)

	l.log.Infof(ctx, "stream listener started key=%s cursor=%s", l.client.StreamKey(), l.cfg.StartID)
	return nil
}

// Stop — кооперативная остановка: снимает контекст цикла и ждёт выхода
// горутины не дольше StopTimeout. По истечении — предупреждение в лог и
// возврат (остановка best-effort, зависший обработчик не убивается).
// Повторный вызов и вызов без запущенного слушателя — no-op.
func (l *Listener) Stop() {
	l.mu.Lock()
	if !l.state.CompareAndSwap(stateRunning, stateStopping) {
		l.mu.Unlock()
		return
	}
	cancel, done := l.cancel, l.done
	l.mu.Unlock()

	cancel()

	select {
	case <-done:
		l.log.Infof(context.Background(), "stream listener stopped key=%s", l.client.StreamKey())
	case <-time.After(l.cfg.StopTimeout):
		l.log.Warnf(context.Background(), "stream listener did not stop within %s", l.cfg.StopTimeout)
	}
}

// Running — работает ли цикл сейчас.
func (l *Listener) Running() bool { return l.state.Load() == stateRunning }

// run — основной цикл:
//  1. нет подключения → установить (пауза ReconnectWait при неудаче);
//  2. курсор "$" → превратить в конкретный идентификатор последней записи,
//     чтобы позиция переживала реконнект;
//  3. блокирующее чтение от курсора; по каждой записи — обработчик;
//  4. курсор двигается после диспетчеризации: ошибка обработчика
//     логируется (и, при настроенном DeadLetterKey, запись копируется в
//     отдельный поток), но не останавливает цикл и не задерживает позицию —
//     семантика at-least-once действует между перезапусками процесса.
func (l *Listener) run(ctx context.Context, handler ports.EntryHandler, done chan struct{}) {
	// Состояние сбрасывается до закрытия done: к моменту, когда Stop
	// дождался выхода, слушатель уже можно запускать заново.
	defer func() {
		l.state.Store(stateIdle)
		close(done)
	}()

	streamKey := l.client.StreamKey()
	cursor := l.cfg.StartID

	for {
		if ctx.Err() != nil {
			return
		}

		conn := l.client.Conn()
		if conn == nil {
			if err := l.client.Connect(ctx); err != nil {
				if !l.sleep(ctx, l.cfg.ReconnectWait) {
					return
				}
			}
			continue
		}

		if cursor == "$" {
			id, err := lastEntryID(ctx, conn, streamKey)
			if err != nil {
				l.handleReadError(ctx, err)
				continue
			}
			cursor = id
			continue
		}

		res, err := conn.XRead(ctx, &redis.XReadArgs{
			Streams: []string{streamKey, cursor},
			Count:   l.cfg.ReadCount,
			Block:   l.cfg.BlockTimeout,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Таймаут блокировки, новых записей нет.
				continue
			}
			l.handleReadError(ctx, err)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				metrics.StreamEntriesConsumed.WithLabelValues(streamKey).Inc()

				fields := stringFields(msg.Values)
				if herr := l.dispatch(ctx, handler, msg.ID, fields); herr != nil {
					metrics.StreamEntriesFailed.WithLabelValues(streamKey).Inc()
					l.log.Errorf(ctx, "entry handler failed id=%s: %v", msg.ID, herr)
					l.deadLetter(ctx, msg.ID, fields, herr)
				} else {
					metrics.StreamEntriesProcessed.WithLabelValues(streamKey).Inc()
				}

				cursor = msg.ID
			}
		}
	}
}

// handleReadError — классификация ошибок чтения: потеря соединения →
// сброс подключения и пауза ReconnectWait; прочее → пауза RetryWait.
// Отменённый контекст паузу прерывает, цикл выходит на проверке сверху.
func (l *Listener) handleReadError(ctx context.Context, err error) {
	if ctx.Err() != nil {
		return
	}
	if isConnError(err) {
		l.log.Errorf(ctx, "stream read connection error: %v (reconnect in %s)", err, l.cfg.ReconnectWait)
		l.client.Drop()
		metrics.StreamReconnects.Inc()
		l.sleep(ctx, l.cfg.ReconnectWait)
		return
	}
	l.log.Errorf(ctx, "stream read unexpected error: %v (retry in %s)", err, l.cfg.RetryWait)
	l.sleep(ctx, l.cfg.RetryWait)
}

// dispatch — вызывает обработчик, перехватывая и ошибку, и панику:
// сбой на одной записи не должен ронять цикл.
func (l *Listener) dispatch(ctx context.Context, handler ports.EntryHandler, id string, fields map[string]string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctxmeta.WithEntryID(ctx, id), id, fields)
}

// deadLetter — копирует необработанную запись в отдельный поток
// (если он настроен) вместе с причиной и исходным идентификатором.
func (l *Listener) deadLetter(ctx context.Context, id string, fields map[string]string, herr error) {
	if l.cfg.DeadLetterKey == "" {
		return
	}
	conn := l.client.Conn()
	if conn == nil {
		l.log.Warnf(ctx, "dead letter skipped id=%s: not connected", id)
		return
	}

	values := make(map[string]interface{}, len(fields)+2)
	for k, v := range fields {
		values[k] = v
	}
	values["source_id"] = id
	values["error"] = herr.Error()

	if err := conn.XAdd(ctx, &redis.XAddArgs{Stream: l.cfg.DeadLetterKey, Values: values}).Err(); err != nil {
		l.log.Warnf(ctx, "dead letter publish failed id=%s: %v", id, err)
	}
}

// sleep — ждёт d или отмену контекста; false — контекст отменён.
func (l *Listener) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// logEntry — обработчик по умолчанию: просто фиксирует запись в логе.
func (l *Listener) logEntry(ctx context.Context, id string, fields map[string]string) error {
	l.log.Infof(ctx, "consume entry id=%s fields=%v", id, fields)
	return nil
}

// lastEntryID — идентификатор последней записи потока, "0-0" для пустого.
func lastEntryID(ctx context.Context, conn *redis.Client, key string) (string, error) {
	msgs, err := conn.XRevRangeN(ctx, key, "+", "-", 1).Result()
	if err != nil {
		return "", err
	}
	if len(msgs) == 0 {
		return "0-0", nil
	}
	return msgs[0].ID, nil
}

// stringFields — значения записи потока как строки.
func stringFields(values map[string]interface{}) map[string]string {
	fields := make(map[string]string, len(values))
	for k, v := range values {
		if s, ok := v.(string); ok {
			fields[k] = s
			continue
		}
		fields[k] = fmt.Sprint(v)
	}
	return fields
}
