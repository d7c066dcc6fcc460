package domain

import "time"

// Query — пользовательский запрос, прочитанный из потока.
// StreamID — идентификатор записи, присвоенный Redis (монотонно возрастает);
// по нему строится идемпотентность сохранения и позиция курсора.
type Query struct {
	StreamID   string    `json:"stream_id"`
	Text       string    `json:"text"`
	UserID     string    `json:"user_id,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// Поля записи в потоке.
const (
	FieldQuery  = "q"
	FieldUserID = "user_id"
)

// Fields — представление запроса в виде полей записи потока (для XADD).
func (q *Query) Fields() map[string]string {
	f := map[string]string{FieldQuery: q.Text}
	if q.UserID != "" {
		f[FieldUserID] = q.UserID
	}
	return f
}

// QueryFromFields — собирает запрос из полей записи потока.
func QueryFromFields(streamID string, fields map[string]string, receivedAt time.Time) *Query {
	return &Query{
		StreamID:   streamID,
		Text:       fields[FieldQuery],
		UserID:     fields[FieldUserID],
		ReceivedAt: receivedAt,
	}
}
