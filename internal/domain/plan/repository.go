package plan

import (
	"context"
	"time"
)

type Repository interface {
	GetCurrentPlan(ctx context.Context, userID int) (*Plan, error)
	ListTasks(ctx context.Context, userID int) ([]Task, error)
	GetTask(ctx context.Context, userID, taskID int) (*Task, error)
	CompleteTask(ctx context.Context, userID, taskID int, completedAt time.Time) error

	ListGoals(ctx context.Context, userID int) ([]Goal, error)
	GetGoal(ctx context.Context, userID, goalID int) (*Goal, error)
	UpdateGoal(ctx context.Context, goal *Goal) error
}
