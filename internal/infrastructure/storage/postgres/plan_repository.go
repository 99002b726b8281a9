package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"coachfit/internal/domain/plan"
)

type PlanRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewPlanRepository(db *Storage, log *slog.Logger) *PlanRepository {
	return &PlanRepository{
		db:  db,
		log: log.With("component", "plan_repository"),
	}
}

func (r *PlanRepository) GetCurrentPlan(ctx context.Context, userID int) (*plan.Plan, error) {
	const query = `
		SELECT id, user_id, title, week_start, created_at, updated_at
		FROM plans
		WHERE user_id = $1
		ORDER BY week_start DESC
		LIMIT 1`

	var p plan.Plan
	err := r.db.Pool().QueryRow(ctx, query, userID).
		Scan(&p.ID, &p.UserID, &p.Title, &p.WeekStart, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, plan.ErrNotFound
		}
		r.log.Error("failed to get current plan", "user_id", userID, "error", err)
		return nil, fmt.Errorf("get current plan: %w", err)
	}

	return &p, nil
}

func (r *PlanRepository) ListTasks(ctx context.Context, userID int) ([]plan.Task, error) {
	const query = `
		SELECT id, plan_id, user_id, title, due_date, done, completed_at, created_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		r.log.Error("failed to list tasks", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []plan.Task
	for rows.Next() {
		var t plan.Task
		if err := rows.Scan(&t.ID, &t.PlanID, &t.UserID, &t.Title,
			&t.DueDate, &t.Done, &t.CompletedAt, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

func (r *PlanRepository) GetTask(ctx context.Context, userID, taskID int) (*plan.Task, error) {
	const query = `
		SELECT id, plan_id, user_id, title, due_date, done, completed_at, created_at
		FROM tasks
		WHERE id = $1 AND user_id = $2`

	var t plan.Task
	err := r.db.Pool().QueryRow(ctx, query, taskID, userID).
		Scan(&t.ID, &t.PlanID, &t.UserID, &t.Title, &t.DueDate, &t.Done, &t.CompletedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, plan.ErrNotFound
		}
		r.log.Error("failed to get task", "task_id", taskID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("get task: %w", err)
	}

	return &t, nil
}

func (r *PlanRepository) CompleteTask(ctx context.Context, userID, taskID int, completedAt time.Time) error {
	const query = `
		UPDATE tasks
		SET done = TRUE, completed_at = $3
		WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Pool().Exec(ctx, query, taskID, userID, completedAt)
	if err != nil {
		r.log.Error("failed to complete task", "task_id", taskID, "user_id", userID, "error", err)
		return fmt.Errorf("complete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return plan.ErrNotFound
	}

	return nil
}

func (r *PlanRepository) ListGoals(ctx context.Context, userID int) ([]plan.Goal, error) {
	const query = `
		SELECT id, user_id, title, target, progress, note, done, completed_at, created_at, updated_at
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		r.log.Error("failed to list goals", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []plan.Goal
	for rows.Next() {
		var g plan.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.Target, &g.Progress,
			&g.Note, &g.Done, &g.CompletedAt, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}

	return goals, rows.Err()
}

func (r *PlanRepository) GetGoal(ctx context.Context, userID, goalID int) (*plan.Goal, error) {
	const query = `
		SELECT id, user_id, title, target, progress, note, done, completed_at, created_at, updated_at
		FROM goals
		WHERE id = $1 AND user_id = $2`

	var g plan.Goal
	err := r.db.Pool().QueryRow(ctx, query, goalID, userID).
		Scan(&g.ID, &g.UserID, &g.Title, &g.Target, &g.Progress,
			&g.Note, &g.Done, &g.CompletedAt, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, plan.ErrNotFound
		}
		r.log.Error("failed to get goal", "goal_id", goalID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("get goal: %w", err)
	}

	return &g, nil
}

func (r *PlanRepository) UpdateGoal(ctx context.Context, goal *plan.Goal) error {
	const query = `
		UPDATE goals
		SET progress = $3, note = $4, done = $5, completed_at = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Pool().Exec(ctx, query,
		goal.ID, goal.UserID, goal.Progress, goal.Note, goal.Done, goal.CompletedAt, goal.UpdatedAt)
	if err != nil {
		r.log.Error("failed to update goal", "goal_id", goal.ID, "user_id", goal.UserID, "error", err)
		return fmt.Errorf("update goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return plan.ErrNotFound
	}

	return nil
}
