package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"coachfit/internal/domain/event"
)

const defaultListLimit = 50

type Servicer interface {
	LogWorkout(ctx context.Context, userID int, req CreateWorkoutRequest) (*Workout, error)
	ListWorkouts(ctx context.Context, userID, limit int) ([]Workout, error)
	UploadMeal(ctx context.Context, userID int, req UploadMealRequest) (*Meal, error)
	ListMeals(ctx context.Context, userID, limit int) ([]Meal, error)
}

type CreateWorkoutRequest struct {
	PlanDay     string          `json:"planDay,omitempty"`
	Duration    int             `json:"duration"`
	Exercises   json.RawMessage `json:"exercises,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	PerformedAt time.Time       `json:"performedAt,omitempty"`
}

type UploadMealRequest struct {
	Photo   string    `json:"photo"` // base64
	Caption string    `json:"caption,omitempty"`
	TakenAt time.Time `json:"takenAt,omitempty"`
}

type Service struct {
	repo Repository
	pub  event.Publisher
	log  *slog.Logger
}

func NewService(repo Repository, pub event.Publisher, log *slog.Logger) Servicer {
	return &Service{
		repo: repo,
		pub:  pub,
		log:  log.With("component", "activity_service"),
	}
}

func (s *Service) LogWorkout(ctx context.Context, userID int, req CreateWorkoutRequest) (*Workout, error) {
	if req.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}

	performedAt := req.PerformedAt
	if performedAt.IsZero() {
		performedAt = time.Now()
	}

	workout := &Workout{
		UserID:      userID,
		PlanDay:     req.PlanDay,
		Duration:    req.Duration,
		Exercises:   req.Exercises,
		Notes:       req.Notes,
		PerformedAt: performedAt,
	}
	workout.Feedback = workoutFeedback(workout)

	id, err := s.repo.CreateWorkout(ctx, workout)
	if err != nil {
		s.log.Error("failed to create workout", "user_id", userID, "error", err)
		return nil, fmt.Errorf("create workout: %w", err)
	}
	workout.ID = id

	s.log.Info("workout logged", "workout_id", id, "user_id", userID, "duration", req.Duration)
	s.publish(userID, event.TypeWorkoutFeedback, workout)

	return workout, nil
}

func (s *Service) ListWorkouts(ctx context.Context, userID, limit int) ([]Workout, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	workouts, err := s.repo.ListWorkouts(ctx, userID, limit)
	if err != nil {
		s.log.Error("failed to list workouts", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	return workouts, nil
}

func (s *Service) UploadMeal(ctx context.Context, userID int, req UploadMealRequest) (*Meal, error) {
	if req.Photo == "" {
		return nil, fmt.Errorf("%w: photo is required", ErrInvalidInput)
	}

	takenAt := req.TakenAt
	if takenAt.IsZero() {
		takenAt = time.Now()
	}

	meal := &Meal{
		UserID:  userID,
		Photo:   req.Photo,
		Caption: req.Caption,
		TakenAt: takenAt,
	}
	meal.Feedback = mealFeedback(meal)

	id, err := s.repo.CreateMeal(ctx, meal)
	if err != nil {
		s.log.Error("failed to create meal", "user_id", userID, "error", err)
		return nil, fmt.Errorf("create meal: %w", err)
	}
	meal.ID = id

	s.log.Info("meal uploaded", "meal_id", id, "user_id", userID)
	s.publish(userID, event.TypeMealFeedback, meal)

	return meal, nil
}

func (s *Service) ListMeals(ctx context.Context, userID, limit int) ([]Meal, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	meals, err := s.repo.ListMeals(ctx, userID, limit)
	if err != nil {
		s.log.Error("failed to list meals", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list meals: %w", err)
	}
	return meals, nil
}

func (s *Service) publish(userID int, eventType string, payload any) {
	if s.pub == nil {
		return
	}

	env, err := event.NewEnvelope(eventType, payload)
	if err != nil {
		s.log.Warn("failed to build event envelope", "type", eventType, "error", err)
		return
	}
	s.pub.Publish(userID, env)
}
