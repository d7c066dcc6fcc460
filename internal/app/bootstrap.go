package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexandr-bsu/memos-frorked/config"
	cachemem "github.com/alexandr-bsu/memos-frorked/internal/cache/memory"
	"github.com/alexandr-bsu/memos-frorked/internal/ports"
	"github.com/alexandr-bsu/memos-frorked/internal/redisstream"
	"github.com/alexandr-bsu/memos-frorked/internal/repo/postgres"
	rest "github.com/alexandr-bsu/memos-frorked/internal/transport/http"
	"github.com/alexandr-bsu/memos-frorked/internal/usecase"
	"github.com/alexandr-bsu/memos-frorked/pkg/logger"
	"github.com/alexandr-bsu/memos-frorked/pkg/metrics"
	"github.com/alexandr-bsu/memos-frorked/pkg/telemetry"
	"github.com/alexandr-bsu/memos-frorked/pkg/validate"
)

// App — собранное приложение и его внешние интерфейсы (HTTP, слушатель потока).
type App struct {
	Logger          ports.Logger         // логгер
	HTTPServer      *http.Server         // HTTP-сервер
	Listener        ports.StreamListener // фоновый слушатель потока
	Service         *usecase.QueryService
	gracefulTimeout time.Duration // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
// Недоступный Redis не валит старт: слушатель сам переподключится,
// публикация до подключения вернёт ErrNotConnected.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd, cfg.Tracing.ServiceName)
	if err != nil {
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Пул подключений Postgres.
	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, err
	}

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	// Подключение к Redis. Ошибка здесь не фатальна: цикл слушателя
	// восстановит подключение, когда Redis станет доступен.
	streamClient := redisstream.NewClient(redisstream.ClientConfig{
		Host:      cfg.Redis.Host,
		Port:      cfg.Redis.Port,
		DB:        cfg.Redis.DB,
		Password:  cfg.Redis.Password,
		StreamKey: cfg.Stream.Key,
		Capacity:  cfg.Stream.Capacity,
	}, logg)
	if cErr := streamClient.Connect(ctx); cErr != nil {
		logg.Warnf(ctx, "redis connect failed (listener will retry): %v", cErr)
	}

	// Сборка зависимостей доменного слоя.
	queryCache := cachemem.NewLRUCacheTTL(cfg.Cache.Capacity, cfg.Cache.TTL)
	queryRepo := postgres.NewQueryRepository(pool)
	queryValidator := validate.NewQueryValidator()
	publisher := redisstream.NewPublisher(streamClient, logg)
	queryService := usecase.NewQueryService(queryRepo, queryCache, publisher, logg, queryValidator)

	// Прогрев кэша.
	if n := cfg.Cache.WarmUpN; n > 0 {
		if err := queryService.WarmUpCache(ctx, n); err != nil {
			logg.Warnf(ctx, "warm-up cache failed: %v", err)
		}
	}

	// Слушатель потока.
	listener := redisstream.NewListener(streamClient, redisstream.ListenerConfig{
		BlockTimeout:  cfg.Stream.BlockTimeout,
		ReadCount:     cfg.Stream.ReadCount,
		StartID:       cfg.Stream.StartID,
		ReconnectWait: cfg.Stream.ReconnectWait,
		RetryWait:     cfg.Stream.RetryWait,
		StopTimeout:   cfg.Stream.StopTimeout,
		DeadLetterKey: cfg.Stream.DeadLetterKey,
	}, logg)

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	httpHandler := rest.NewHandler(queryService, logg, cfg.HTTP.HandlerTimeout)
	router := rest.NewRouter(httpHandler, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		Listener:        listener,
		Service:         queryService,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		listener.Stop()
		if err := streamClient.Close(); err != nil {
			logg.Warnf(ctx, "redis close error: %v", err)
		}

		pool.Close()
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	return app, cleanup, nil
}

// Run — запускает слушатель потока и HTTP-сервер; ждёт отмены контекста
// или фоновой ошибки и останавливает всё в обратном порядке.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	// Запуск слушателя потока.
	a.Logger.Infof(ctx, "stream listener starting")
	if err := a.Listener.Start(a.Service.HandleEntry); err != nil {
		return err
	}

	// Запуск HTTP-сервера.
	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или фоновой ошибки.
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	// Остановка слушателя потока.
	a.Listener.Stop()

	a.Logger.Infof(ctx, "service stopped")
	return nil
}
