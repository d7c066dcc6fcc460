package redisstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/alexandr-bsu/memos-frorked/internal/ports"
	"github.com/redis/go-redis/v9"
)

// ErrNotConnected — операция вызвана без живого подключения к Redis.
var ErrNotConnected = errors.New("redisstream: not connected")

// ClientConfig — адрес Redis и параметры потока.
type ClientConfig struct {
	Host     string
	Port     int
	DB       int
	Password string

	// StreamKey — логическое имя потока запросов.
	StreamKey string
	// Capacity — предел длины потока; при подключении поток обрезается
	// до этого значения (старые записи отбрасываются). 0 — без обрезки.
	Capacity int64
}

// Client — владелец подключения к Redis.
//
// Хэндл хранится в atomic.Pointer: реконнект подменяет его целиком,
// поэтому читатели (Publisher, цикл слушателя) видят либо старое рабочее
// подключение, либо новое — никогда полусобранное. Если Drop произошёл
// между чтением хэндла и командой, команда вернёт redis.ErrClosed, и
// вызывающий обработает это как обычную ошибку соединения.
type Client struct {
	cfg  ClientConfig
	log  ports.Logger
	conn atomic.Pointer[redis.Client]
}

// NewClient — конструктор; подключение устанавливается отдельным Connect.
func NewClient(cfg ClientConfig, log ports.Logger) *Client {
	return &Client{cfg: cfg, log: log}
}

// Connect — открывает подключение, проверяет его PING'ом и обрезает поток
// до настроенной ёмкости. При ошибке хэндл остаётся пустым, сервис не
// падает: вызывающие получают ErrNotConnected и решают сами (публикация —
// отказ, слушатель — повтор с паузой).
func (c *Client) Connect(ctx context.Context) error {
	conn := redis.NewClient(&redis.Options{
		Addr:     c.Addr(),
		DB:       c.cfg.DB,
		Password: c.cfg.Password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err := conn.Ping(pingCtx).Err()
	cancel()
	if err != nil {
		_ = conn.Close()
		c.log.Errorf(ctx, "redis connect failed addr=%s db=%d: %v", c.Addr(), c.cfg.DB, err)
		return fmt.Errorf("redis connect: %w", err)
	}

	if c.cfg.Capacity > 0 {
		if trimErr := conn.XTrimMaxLen(ctx, c.cfg.StreamKey, c.cfg.Capacity).Err(); trimErr != nil {
			c.log.Warnf(ctx, "stream trim failed key=%s maxlen=%d: %v", c.cfg.StreamKey, c.cfg.Capacity, trimErr)
		}
	}

	if old := c.conn.Swap(conn); old != nil {
		_ = old.Close()
	}
	c.log.Infof(ctx, "redis connected addr=%s db=%d stream=%s", c.Addr(), c.cfg.DB, c.cfg.StreamKey)
	return nil
}

// Conn — текущее подключение или nil, если его нет.
func (c *Client) Conn() *redis.Client { return c.conn.Load() }

// Ping — проверка живости подключения.
func (c *Client) Ping(ctx context.Context) error {
	conn := c.conn.Load()
	if conn == nil {
		return ErrNotConnected
	}
	return conn.Ping(ctx).Err()
}

// Trim — обрезает поток до настроенной ёмкости.
func (c *Client) Trim(ctx context.Context) error {
	conn := c.conn.Load()
	if conn == nil {
		return ErrNotConnected
	}
	if c.cfg.Capacity <= 0 {
		return nil
	}
	return conn.XTrimMaxLen(ctx, c.cfg.StreamKey, c.cfg.Capacity).Err()
}

// Drop — сбрасывает подключение после ошибки соединения;
// следующий виток цикла слушателя установит новое.
func (c *Client) Drop() {
	if old := c.conn.Swap(nil); old != nil {
		_ = old.Close()
	}
}

// Close — закрывает подключение; повторный вызов — no-op.
func (c *Client) Close() error {
	old := c.conn.Swap(nil)
	if old == nil {
		return nil
	}
	return old.Close()
}

// Addr — host:port хранилища.
func (c *Client) Addr() string { return net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port)) }

// StreamKey — логическое имя потока.
func (c *Client) StreamKey() string { return c.cfg.StreamKey }

// Capacity — настроенный предел длины потока.
func (c *Client) Capacity() int64 { return c.cfg.Capacity }
