package logger

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Порог, после которого запрос считается медленным. Мобильный клиент
// повторяет действия из очереди пачками, затянувшиеся ответы API
// растягивают всю волну обработки.
const slowThreshold = 500 * time.Millisecond

// Logger middleware для логирования входящих HTTP запросов
type Logger struct {
	log *slog.Logger
}

// New создает новый экземпляр Logger middleware
func New(log *slog.Logger) *Logger {
	return &Logger{
		log: log.With(slog.String("component", "http_logger")),
	}
}

// Middleware возвращает middleware функцию для логирования HTTP запросов
func (l *Logger) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		// Запоминаем атрибуты запроса до обработки
		method := ctx.Method()
		path := ctx.URL().Path
		remoteAddr := ctx.RemoteAddr()
		userAgent := ctx.Header("User-Agent")

		next(ctx)

		duration := time.Since(start)
		status := ctx.Status()

		attrs := []any{
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("duration", duration),
			slog.String("remote_addr", remoteAddr),
			slog.String("user_agent", userAgent),
		}

		if duration > slowThreshold {
			l.log.Warn("slow HTTP request", attrs...)
			return
		}

		l.log.Info("HTTP request", attrs...)
	}
}
