package logger

import (
	"os"

	"golang.org/x/exp/slog"

	"coachfit/internal/app/server/config"
)

// New создает логгер с уровнем и форматом, зависящими от окружения.
// Сервер и клиент пишут в общую агрегацию, поэтому JSON-логи несут
// имя процесса. Локально используется читаемый текстовый вывод.
func New(env, service string) *slog.Logger {
	switch env {
	case config.EnvDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})).With(slog.String("service", service))
	case config.EnvProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})).With(slog.String("service", service))
	default:
		return setupPrettySlog()
	}
}

func setupPrettySlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
