package redisstream

import (
	"context"
	"fmt"

	"github.com/alexandr-bsu/memos-frorked/internal/ports"
	"github.com/alexandr-bsu/memos-frorked/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// Проверка, что Publisher удовлетворяет порту приложения.
var _ ports.StreamPublisher = (*Publisher)(nil)

// Publisher — добавление записей в поток.
// Предел ёмкости применяется на каждом XADD (MAXLEN), поэтому длина потока
// не превышает настроенную вне зависимости от порядка publish/trim.
type Publisher struct {
	client *Client
	log    ports.Logger
}

func NewPublisher(client *Client, log ports.Logger) *Publisher {
	return &Publisher{client: client, log: log}
}

// Publish — добавляет запись и возвращает идентификатор, присвоенный Redis.
// Без живого подключения возвращает ErrNotConnected: вызывающий обязан
// проверить подключение заранее или обработать отказ.
func (p *Publisher) Publish(ctx context.Context, fields map[string]string) (string, error) {
	conn := p.client.Conn()
	if conn == nil {
		return "", ErrNotConnected
	}

	values := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		values[k] = v
	}

	args := &redis.XAddArgs{
		Stream: p.client.StreamKey(),
		Values: values,
	}
	if cap := p.client.Capacity(); cap > 0 {
		args.MaxLen = cap
	}

	id, err := conn.XAdd(ctx, args).Result()
	if err != nil {
		p.log.Errorf(ctx, "stream publish failed key=%s: %v", p.client.StreamKey(), err)
		return "", fmt.Errorf("xadd: %w", err)
	}

	metrics.StreamEntriesPublished.WithLabelValues(p.client.StreamKey()).Inc()
	return id, nil
}
