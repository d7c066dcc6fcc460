//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexandr-bsu/memos-frorked/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// Мини-генератор валидного запроса. StreamID — в формате Redis "<ms>-<seq>",
// уникален в пределах процесса.
func MakeQuery(opts ...func(*domain.Query)) domain.Query {
	now := time.Now().UTC().Truncate(time.Millisecond)

	q := domain.Query{
		StreamID:   fmt.Sprintf("%d-%d", now.UnixMilli(), nextSeq()),
		Text:       "query-" + UniqSuffix(),
		UserID:     "user-" + UniqSuffix(),
		ReceivedAt: now,
	}

	for _, fn := range opts {
		fn(&q)
	}
	return q
}

var seqCounter atomic.Int64

func nextSeq() int64 { return seqCounter.Add(1) }

func WithText(text string) func(*domain.Query) {
	return func(q *domain.Query) { q.Text = text }
}

func WithUser(userID string) func(*domain.Query) {
	return func(q *domain.Query) { q.UserID = userID }
}

func WithStreamID(id string) func(*domain.Query) {
	return func(q *domain.Query) { q.StreamID = id }
}

func WithReceivedAt(ts time.Time) func(*domain.Query) {
	return func(q *domain.Query) { q.ReceivedAt = ts }
}
