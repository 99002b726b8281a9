package feed

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) sendOp() huma.Operation {
	return huma.Operation{
		OperationID: "message-send",
		Method:      http.MethodPost,
		Path:        "/api/v1/messages",
		Summary:     "Отправить сообщение тренеру",
		Tags:        []string{"feed"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) markReadOp() huma.Operation {
	return huma.Operation{
		OperationID: "message-read",
		Method:      http.MethodPost,
		Path:        "/api/v1/messages/{id}/read",
		Summary:     "Отметить сообщение прочитанным",
		Tags:        []string{"feed"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "message-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/messages",
		Summary:     "История переписки",
		Tags:        []string{"feed"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
