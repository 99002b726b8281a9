package activity

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) createWorkoutOp() huma.Operation {
	return huma.Operation{
		OperationID: "workout-create",
		Method:      http.MethodPost,
		Path:        "/api/v1/workouts",
		Summary:     "Записать тренировку",
		Tags:        []string{"activity"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listWorkoutsOp() huma.Operation {
	return huma.Operation{
		OperationID: "workout-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/workouts",
		Summary:     "Список тренировок",
		Tags:        []string{"activity"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) uploadMealOp() huma.Operation {
	return huma.Operation{
		OperationID: "meal-upload",
		Method:      http.MethodPost,
		Path:        "/api/v1/meals",
		Summary:     "Загрузить фото приема пищи",
		Tags:        []string{"activity"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listMealsOp() huma.Operation {
	return huma.Operation{
		OperationID: "meal-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/meals",
		Summary:     "Список приемов пищи",
		Tags:        []string{"activity"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
