package validate

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/alexandr-bsu/memos-frorked/internal/domain"
	"github.com/alexandr-bsu/memos-frorked/internal/ports"
)

// Границы строк JSONL: типовая строка с запросом и потолок на аномально длинные.
const (
	jsonlInitialBuf = 64 * 1024
	jsonlMaxLine    = 10 * 1024 * 1024
)

// JSONLResult — итог прогона потока JSONL через валидатор.
type JSONLResult struct {
	ValidLinesCount   int
	InvalidLinesCount int
}

// Summary — сводка в формате "N valid / M invalid".
func (r JSONLResult) Summary() string {
	return fmt.Sprintf("%d valid / %d invalid", r.ValidLinesCount, r.InvalidLinesCount)
}

// ValidateJSONLStream читает JSONL из ir построчно; валидные записи пишет в ow
// каноническим JSON, невалидные считает и пропускает, не прерывая поток.
// Пустые строки игнорируются.
func ValidateJSONLStream(ctx context.Context, validator ports.QueryValidator, ir io.Reader, ow io.Writer) (JSONLResult, error) {
	var res JSONLResult

	scanner := bufio.NewScanner(ir)
	scanner.Buffer(make([]byte, 0, jsonlInitialBuf), jsonlMaxLine)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		query, err := ValidateQueryFromJSON(ctx, validator, line)
		if err != nil {
			res.InvalidLinesCount++
			continue
		}

		if err := writeJSONLine(ow, query); err != nil {
			return res, err
		}
		res.ValidLinesCount++
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	return res, nil
}

// writeJSONLine — запись компактным JSON плюс перевод строки.
func writeJSONLine(ow io.Writer, q *domain.Query) error {
	marshal, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal query: %w", err)
	}
	if _, err := ow.Write(append(marshal, '\n')); err != nil {
		return fmt.Errorf("write valid line: %w", err)
	}
	return nil
}
