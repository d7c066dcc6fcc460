package validate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexandr-bsu/memos-frorked/internal/ports"
)

// InputFormat — формат входного файла с запросами.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

// detectFormat — формат по расширению файла; неизвестное считаем JSON.
func detectFormat(filePath string) InputFormat {
	if strings.ToLower(filepath.Ext(filePath)) == ".jsonl" {
		return FormatJSONL
	}
	return FormatJSON
}

// ValidateFile валидирует файл с запросами (JSON или JSONL), пишет валидные
// записи каноническим JSON в ow и возвращает сводку "N valid / M invalid".
func ValidateFile(ctx context.Context, validator ports.QueryValidator, filePath string, format InputFormat, ow io.Writer) (string, error) {
	if format == FormatAuto {
		format = detectFormat(filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	switch format {
	case FormatJSON:
		return validateJSONFile(ctx, validator, file, ow)
	case FormatJSONL:
		result, err := ValidateJSONLStream(ctx, validator, file, ow)
		if err != nil {
			return "", err
		}
		return result.Summary(), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func validateJSONFile(ctx context.Context, validator ports.QueryValidator, file io.Reader, ow io.Writer) (string, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	query, err := ValidateQueryFromJSON(ctx, validator, raw)
	if err != nil {
		return "0 valid / 1 invalid", err
	}
	if err := writeJSONLine(ow, query); err != nil {
		return "", err
	}
	return "1 valid / 0 invalid", nil
}
