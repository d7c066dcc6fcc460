package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alexandr-bsu/memos-frorked/internal/domain"
	"github.com/alexandr-bsu/memos-frorked/internal/ports"
)

// Проверка, что QueryValidator удовлетворяет интерфейсу ports.QueryValidator.
var _ ports.QueryValidator = (*QueryValidator)(nil)

// ErrInvalidQuery — базовая (sentinel error) ошибка валидации.
var ErrInvalidQuery = errors.New("query validation failed")

// MaxTextLen — предел длины текста запроса в рунах.
const MaxTextLen = 8192

// QueryValidator — структура для валидации запроса.
// Возвращает ErrInvalidQuery (с обёрнутой причиной) при любой проблеме.
type QueryValidator struct{}

// NewQueryValidator — конструктор QueryValidator.
func NewQueryValidator() *QueryValidator { return &QueryValidator{} }

// Validate — проверяет корректность полей запроса.
// StreamID не обязателен: до публикации идентификатор ещё не присвоен.
func (v *QueryValidator) Validate(_ context.Context, query *domain.Query) error {
	if query == nil {
		return fmt.Errorf("%w: запрос не может быть nil", ErrInvalidQuery)
	}
	if strings.TrimSpace(query.Text) == "" {
		return fmt.Errorf("%w: text обязателен", ErrInvalidQuery)
	}
	if utf8.RuneCountInString(query.Text) > MaxTextLen {
		return fmt.Errorf("%w: text длиннее %d символов", ErrInvalidQuery, MaxTextLen)
	}
	if !utf8.ValidString(query.Text) {
		return fmt.Errorf("%w: text не является валидным UTF-8", ErrInvalidQuery)
	}
	return nil
}
