package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/alexandr-bsu/memos-frorked/internal/domain"
	"github.com/alexandr-bsu/memos-frorked/internal/ports"
	"github.com/alexandr-bsu/memos-frorked/pkg/httpx"
	"github.com/alexandr-bsu/memos-frorked/pkg/validate"
)

const (
	defaultLimit  = 20
	maxLimit      = 100
	defaultRecent = 10
)

// Handler — HTTP-обработчики поверх сервиса запросов.
type Handler struct {
	service ports.QueryService
	log     ports.Logger
	timeout time.Duration // 0 — без таймаута на запрос
}

func NewHandler(service ports.QueryService, log ports.Logger, timeout time.Duration) *Handler {
	return &Handler{service: service, log: log, timeout: timeout}
}

// NewRouter — собирает gin-роутер с middleware и маршрутами.
// serviceName используется для otelgin-спанов.
func NewRouter(h *Handler, serviceName string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(httpx.RequestIDMiddleware())
	if serviceName != "" {
		r.Use(otelgin.Middleware(serviceName))
	}
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/queries", h.submitQuery)
	r.GET("/queries/recent", h.recentQueries)
	r.GET("/queries/history", h.queryHistory)

	r.NoMethod(func(c *gin.Context) {
		c.Header("Allow", allowedMethods(r, c.Request.URL.Path))
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	return r
}

type submitRequest struct {
	Text   string `json:"text"`
	UserID string `json:"user_id"`
}

// submitQuery — POST /queries: публикация запроса в поток.
// Возвращает 202: запись принята, обработка произойдёт в фоне.
func (h *Handler) submitQuery(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	id, err := h.service.Submit(ctx, req.Text, req.UserID)
	if err != nil {
		if errors.Is(err, validate.ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Errorf(c.Request.Context(), "Submit failed user_id=%s err=%v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"stream_id": id})
}

// recentQueries — GET /queries/recent?n=10: последние запросы из кэша.
func (h *Handler) recentQueries(c *gin.Context) {
	n := httpx.ParseCount(c, "n", defaultRecent, maxLimit)

	ctx, cancel := h.requestContext(c)
	defer cancel()

	c.JSON(http.StatusOK, h.service.Recent(ctx, n))
}

// queryHistory — GET /queries/history?limit=20&offset=0: история из БД.
func (h *Handler) queryHistory(c *gin.Context) {
	limit, offset := httpx.ParseLimitOffset(c, defaultLimit, maxLimit)

	ctx, cancel := h.requestContext(c)
	defer cancel()

	queries, err := h.service.History(ctx, limit, offset)
	if err != nil {
		h.log.Errorf(c.Request.Context(), "History failed limit=%d offset=%d err=%v", limit, offset, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if queries == nil {
		queries = []*domain.Query{} // пустая история — [], не null
	}

	c.JSON(http.StatusOK, queries)
}

// requestContext — контекст запроса, при h.timeout > 0 с дедлайном.
func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	ctx := c.Request.Context()
	if h.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.timeout)
}

// allowedMethods — какие методы зарегистрированы для пути (для заголовка Allow).
func allowedMethods(r *gin.Engine, path string) string {
	var methods []string
	for _, route := range r.Routes() {
		if route.Path == path || matchPath(route.Path, path) {
			methods = append(methods, route.Method)
		}
	}
	if len(methods) == 0 {
		return ""
	}
	return strings.Join(methods, ", ")
}

// matchPath — грубое сравнение пути с шаблоном gin (":param" — одна секция).
func matchPath(pattern, path string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") || strings.HasPrefix(ps[i], "*") {
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}
