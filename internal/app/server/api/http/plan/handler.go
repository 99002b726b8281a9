package plan

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"coachfit/internal/app/server/api/http/middleware/auth"
	"coachfit/internal/domain/plan"
)

type Handler struct {
	service    plan.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service plan.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.currentOp(), h.current)
	huma.Register(api, h.listTasksOp(), h.listTasks)
	huma.Register(api, h.listGoalsOp(), h.listGoals)
	huma.Register(api, h.completeTaskOp(), h.completeTask)
	huma.Register(api, h.updateGoalOp(), h.updateGoal)
	huma.Register(api, h.completeGoalOp(), h.completeGoal)
}

func (h *Handler) current(ctx context.Context, _ *currentInput) (*currentOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return &currentOutput{Body: CurrentResponse{Status: "Error", Error: "Unauthorized"}}, nil
	}

	view, err := h.service.Current(ctx, userID)
	if err != nil {
		return &currentOutput{Body: CurrentResponse{Status: "Error", Error: err.Error()}}, nil
	}

	return &currentOutput{Body: CurrentResponse{Status: "Ok", Plan: view}}, nil
}

func (h *Handler) listTasks(ctx context.Context, _ *listTasksInput) (*listTasksOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return &listTasksOutput{Body: ListTasksResponse{Status: "Error", Error: "Unauthorized"}}, nil
	}

	tasks, err := h.service.Tasks(ctx, userID)
	if err != nil {
		return &listTasksOutput{Body: ListTasksResponse{Status: "Error", Error: err.Error()}}, nil
	}

	return &listTasksOutput{Body: ListTasksResponse{Status: "Ok", Tasks: tasks}}, nil
}

func (h *Handler) listGoals(ctx context.Context, _ *listGoalsInput) (*listGoalsOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return &listGoalsOutput{Body: ListGoalsResponse{Status: "Error", Error: "Unauthorized"}}, nil
	}

	goals, err := h.service.Goals(ctx, userID)
	if err != nil {
		return &listGoalsOutput{Body: ListGoalsResponse{Status: "Error", Error: err.Error()}}, nil
	}

	return &listGoalsOutput{Body: ListGoalsResponse{Status: "Ok", Goals: goals}}, nil
}

func (h *Handler) completeTask(ctx context.Context, input *completeTaskInput) (*taskOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return &taskOutput{Body: TaskResponse{Status: "Error", Error: "Unauthorized"}}, nil
	}

	task, err := h.service.CompleteTask(ctx, userID, input.ID, input.Body.CompletedAt)
	if err != nil {
		if errors.Is(err, plan.ErrNotFound) {
			return nil, huma.Error404NotFound("task not found")
		}
		return &taskOutput{Body: TaskResponse{Status: "Error", Error: err.Error()}}, nil
	}

	return &taskOutput{Body: TaskResponse{Status: "Ok", Task: task}}, nil
}

func (h *Handler) updateGoal(ctx context.Context, input *updateGoalInput) (*goalOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return &goalOutput{Body: GoalResponse{Status: "Error", Error: "Unauthorized"}}, nil
	}

	goal, err := h.service.UpdateGoal(ctx, userID, input.ID, input.Body.Progress, input.Body.Note)
	if err != nil {
		if errors.Is(err, plan.ErrNotFound) {
			return nil, huma.Error404NotFound("goal not found")
		}
		return &goalOutput{Body: GoalResponse{Status: "Error", Error: err.Error()}}, nil
	}

	return &goalOutput{Body: GoalResponse{Status: "Ok", Goal: goal}}, nil
}

func (h *Handler) completeGoal(ctx context.Context, input *completeGoalInput) (*goalOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return &goalOutput{Body: GoalResponse{Status: "Error", Error: "Unauthorized"}}, nil
	}

	goal, err := h.service.CompleteGoal(ctx, userID, input.ID)
	if err != nil {
		if errors.Is(err, plan.ErrNotFound) {
			return nil, huma.Error404NotFound("goal not found")
		}
		return &goalOutput{Body: GoalResponse{Status: "Error", Error: err.Error()}}, nil
	}

	return &goalOutput{Body: GoalResponse{Status: "Ok", Goal: goal}}, nil
}
