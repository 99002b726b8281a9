package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) healthCheckOp() huma.Operation {
	return huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/v1/health",
		Summary:     "Проверка доступности сервиса",
		Description: "Эндпоинт для проверки доступности. Клиентское приложение опрашивает его, чтобы отличать офлайн от онлайна.",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
	}
}
