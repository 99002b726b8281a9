package activity

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"coachfit/internal/app/server/api/http/middleware/auth"
	"coachfit/internal/domain/activity"
)

type Handler struct {
	service    activity.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service activity.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.createWorkoutOp(), h.createWorkout)
	huma.Register(api, h.listWorkoutsOp(), h.listWorkouts)
	huma.Register(api, h.uploadMealOp(), h.uploadMeal)
	huma.Register(api, h.listMealsOp(), h.listMeals)
}

func (h *Handler) createWorkout(ctx context.Context, input *createWorkoutInput) (*workoutOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return &workoutOutput{Body: WorkoutResponse{Status: "Error", Error: "Unauthorized"}}, nil
	}

	workout, err := h.service.LogWorkout(ctx, userID, input.Body)
	if err != nil {
		return &workoutOutput{Body: WorkoutResponse{Status: "Error", Error: err.Error()}}, nil
	}

	return &workoutOutput{Body: WorkoutResponse{Status: "Ok", Workout: workout}}, nil
}

func (h *Handler) listWorkouts(ctx context.Context, input *listWorkoutsInput) (*listWorkoutsOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return &listWorkoutsOutput{Body: ListWorkoutsResponse{Status: "Error", Error: "Unauthorized"}}, nil
	}

	workouts, err := h.service.ListWorkouts(ctx, userID, input.Limit)
	if err != nil {
		return &listWorkoutsOutput{Body: ListWorkoutsResponse{Status: "Error", Error: err.Error()}}, nil
	}

	return &listWorkoutsOutput{Body: ListWorkoutsResponse{
		Status:   "Ok",
		Workouts: workouts,
		Total:    len(workouts),
	}}, nil
}

func (h *Handler) uploadMeal(ctx context.Context, input *uploadMealInput) (*mealOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return &mealOutput{Body: MealResponse{Status: "Error", Error: "Unauthorized"}}, nil
	}

	meal, err := h.service.UploadMeal(ctx, userID, input.Body)
	if err != nil {
		return &mealOutput{Body: MealResponse{Status: "Error", Error: err.Error()}}, nil
	}

	return &mealOutput{Body: MealResponse{Status: "Ok", Meal: meal}}, nil
}

func (h *Handler) listMeals(ctx context.Context, input *listMealsInput) (*listMealsOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return &listMealsOutput{Body: ListMealsResponse{Status: "Error", Error: "Unauthorized"}}, nil
	}

	meals, err := h.service.ListMeals(ctx, userID, input.Limit)
	if err != nil {
		return &listMealsOutput{Body: ListMealsResponse{Status: "Error", Error: err.Error()}}, nil
	}

	return &listMealsOutput{Body: ListMealsResponse{
		Status: "Ok",
		Meals:  meals,
		Total:  len(meals),
	}}, nil
}
