package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/alexandr-bsu/memos-frorked/config"
	"github.com/alexandr-bsu/memos-frorked/internal/redisstream"
	"github.com/alexandr-bsu/memos-frorked/pkg/validate"
)

// nopLogger — CLI пишет результат в stdout/stderr, структурный логгер не нужен.
type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// CLI-приложение для публикации запросов в поток.
// Вход: текст одним аргументом -text, либо файл JSON/JSONL через -in
// (пустой -in — чтение JSONL из stdin). Невалидные строки пропускаются.
func main() {
	inputPath := flag.String("in", "", "path to input (.json or .jsonl). If empty and -text is empty, reads jsonl from stdin.")
	formatStr := flag.String("format", "auto", "input format: auto|json|jsonl")
	text := flag.String("text", "", "publish a single query text and exit")
	userID := flag.String("user", "", "user id for -text mode")
	flag.Parse()

	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		fail("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := redisstream.NewClient(redisstream.ClientConfig{
		Host:      cfg.Redis.Host,
		Port:      cfg.Redis.Port,
		DB:        cfg.Redis.DB,
		Password:  cfg.Redis.Password,
		StreamKey: cfg.Stream.Key,
		Capacity:  cfg.Stream.Capacity,
	}, nopLogger{})
	if err := client.Connect(ctx); err != nil {
		fail("redis connect: %v", err)
	}
	defer client.Close()

	publisher := redisstream.NewPublisher(client, nopLogger{})
	queryValidator := validate.NewQueryValidator()

	// Режим одиночной публикации.
	if *text != "" {
		q, vErr := validate.ValidateQueryFromJSON(ctx, queryValidator,
			[]byte(fmt.Sprintf("{\"text\": %q, \"user_id\": %q}", *text, *userID)))
		if vErr != nil {
			fail("validation: %v", vErr)
		}
		id, pErr := publisher.Publish(ctx, q.Fields())
		if pErr != nil {
			fail("publish: %v", pErr)
		}
		fmt.Println(id)
		return
	}

	// Файловый режим: сначала валидация всего входа, затем публикация
	// валидных строк.
	format := validate.InputFormat(*formatStr)
	path := *inputPath
	if path == "" {
		path = "/dev/stdin"
		if format == validate.FormatAuto {
			format = validate.FormatJSONL
		}
	}

	var valid strings.Builder
	summary, err := validate.ValidateFile(ctx, queryValidator, path, format, &valid)
	if err != nil {
		fail("validation: %v (%s)", err, summary)
	}

	published := 0
	scanner := bufio.NewScanner(strings.NewReader(valid.String()))
	for scanner.Scan() {
		q, vErr := validate.ValidateQueryFromJSON(ctx, queryValidator, scanner.Bytes())
		if vErr != nil {
			continue
		}
		id, pErr := publisher.Publish(ctx, q.Fields())
		if pErr != nil {
			fail("publish: %v (published %d)", pErr, published)
		}
		fmt.Println(id)
		published++
	}

	fmt.Fprintf(os.Stderr, "published %d queries (%s)\n", published, summary)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
