package plan

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) currentOp() huma.Operation {
	return huma.Operation{
		OperationID: "plan-current",
		Method:      http.MethodGet,
		Path:        "/api/v1/plan",
		Summary:     "Текущий план с задачами и целями",
		Tags:        []string{"plan"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listTasksOp() huma.Operation {
	return huma.Operation{
		OperationID: "task-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/tasks",
		Summary:     "Задачи текущего плана",
		Tags:        []string{"plan"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listGoalsOp() huma.Operation {
	return huma.Operation{
		OperationID: "goal-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/goals",
		Summary:     "Цели клиента",
		Tags:        []string{"plan"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) completeTaskOp() huma.Operation {
	return huma.Operation{
		OperationID: "task-complete",
		Method:      http.MethodPost,
		Path:        "/api/v1/tasks/{id}/complete",
		Summary:     "Отметить задачу выполненной",
		Tags:        []string{"plan"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateGoalOp() huma.Operation {
	return huma.Operation{
		OperationID: "goal-update",
		Method:      http.MethodPatch,
		Path:        "/api/v1/goals/{id}",
		Summary:     "Обновить прогресс цели",
		Tags:        []string{"plan"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) completeGoalOp() huma.Operation {
	return huma.Operation{
		OperationID: "goal-complete",
		Method:      http.MethodPost,
		Path:        "/api/v1/goals/{id}/complete",
		Summary:     "Отметить цель достигнутой",
		Tags:        []string{"plan"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
