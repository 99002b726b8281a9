package postgres

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"coachfit/internal/domain/activity"
)

type ActivityRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewActivityRepository(db *Storage, log *slog.Logger) *ActivityRepository {
	return &ActivityRepository{
		db:  db,
		log: log.With("component", "activity_repository"),
	}
}

func (r *ActivityRepository) CreateWorkout(ctx context.Context, w *activity.Workout) (int, error) {
	const query = `
		INSERT INTO workouts (user_id, plan_day, duration_minutes, exercises, notes, feedback, performed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.Pool().QueryRow(ctx, query,
		w.UserID, w.PlanDay, w.Duration, w.Exercises, w.Notes, w.Feedback, w.PerformedAt,
	).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		r.log.Error("failed to create workout", "user_id", w.UserID, "error", err)
		return 0, fmt.Errorf("create workout: %w", err)
	}

	return w.ID, nil
}

func (r *ActivityRepository) ListWorkouts(ctx context.Context, userID, limit int) ([]activity.Workout, error) {
	const query = `
		SELECT id, user_id, plan_day, duration_minutes, exercises, notes, feedback, performed_at, created_at
		FROM workouts
		WHERE user_id = $1
		ORDER BY performed_at DESC
		LIMIT $2`

	rows, err := r.db.Pool().Query(ctx, query, userID, limit)
	if err != nil {
		r.log.Error("failed to list workouts", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	var workouts []activity.Workout
	for rows.Next() {
		var w activity.Workout
		if err := rows.Scan(&w.ID, &w.UserID, &w.PlanDay, &w.Duration,
			&w.Exercises, &w.Notes, &w.Feedback, &w.PerformedAt, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		workouts = append(workouts, w)
	}

	return workouts, rows.Err()
}

func (r *ActivityRepository) CreateMeal(ctx context.Context, m *activity.Meal) (int, error) {
	const query = `
		INSERT INTO meals (user_id, photo, caption, feedback, taken_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.Pool().QueryRow(ctx, query,
		m.UserID, m.Photo, m.Caption, m.Feedback, m.TakenAt,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		r.log.Error("failed to create meal", "user_id", m.UserID, "error", err)
		return 0, fmt.Errorf("create meal: %w", err)
	}

	return m.ID, nil
}

func (r *ActivityRepository) ListMeals(ctx context.Context, userID, limit int) ([]activity.Meal, error) {
	const query = `
		SELECT id, user_id, photo, caption, feedback, taken_at, created_at
		FROM meals
		WHERE user_id = $1
		ORDER BY taken_at DESC
		LIMIT $2`

	rows, err := r.db.Pool().Query(ctx, query, userID, limit)
	if err != nil {
		r.log.Error("failed to list meals", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	var meals []activity.Meal
	for rows.Next() {
		var m activity.Meal
		if err := rows.Scan(&m.ID, &m.UserID, &m.Photo, &m.Caption, &m.Feedback, &m.TakenAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		meals = append(meals, m)
	}

	return meals, rows.Err()
}
