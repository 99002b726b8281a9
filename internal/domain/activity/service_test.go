package activity

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"coachfit/internal/domain/event"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateWorkout(ctx context.Context, workout *Workout) (int, error) {
	args := m.Called(ctx, workout)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) ListWorkouts(ctx context.Context, userID, limit int) ([]Workout, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Workout), args.Error(1)
}

func (m *MockRepository) CreateMeal(ctx context.Context, meal *Meal) (int, error) {
	args := m.Called(ctx, meal)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) ListMeals(ctx context.Context, userID, limit int) ([]Meal, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Meal), args.Error(1)
}

type capturingPublisher struct {
	events []event.Envelope
}

func (p *capturingPublisher) Publish(_ int, env event.Envelope) {
	p.events = append(p.events, env)
}

func newTestService(repo Repository, pub event.Publisher) Servicer {
	log := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	return NewService(repo, pub, log)
}

func TestService_LogWorkout(t *testing.T) {
	repo := new(MockRepository)
	pub := &capturingPublisher{}
	service := newTestService(repo, pub)

	repo.On("CreateWorkout", mock.Anything, mock.AnythingOfType("*activity.Workout")).Return(42, nil)

	req := CreateWorkoutRequest{
		PlanDay:   "понедельник",
		Duration:  45,
		Exercises: json.RawMessage(`[{"name":"присед","sets":3}]`),
	}

	workout, err := service.LogWorkout(context.Background(), 7, req)
	require.NoError(t, err)
	assert.Equal(t, 42, workout.ID)
	assert.Equal(t, 7, workout.UserID)
	assert.False(t, workout.PerformedAt.IsZero())
	assert.NotEmpty(t, workout.Feedback)

	require.Len(t, pub.events, 1)
	assert.Equal(t, event.TypeWorkoutFeedback, pub.events[0].Type)
	repo.AssertExpectations(t)
}

func TestService_LogWorkout_InvalidDuration(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	_, err := service.LogWorkout(context.Background(), 7, CreateWorkoutRequest{Duration: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
	repo.AssertNotCalled(t, "CreateWorkout", mock.Anything, mock.Anything)
}

func TestService_ListWorkouts_DefaultLimit(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	repo.On("ListWorkouts", mock.Anything, 7, defaultListLimit).Return([]Workout{{ID: 1}}, nil)

	workouts, err := service.ListWorkouts(context.Background(), 7, 0)
	require.NoError(t, err)
	assert.Len(t, workouts, 1)
	repo.AssertExpectations(t)
}

func TestService_UploadMeal(t *testing.T) {
	repo := new(MockRepository)
	pub := &capturingPublisher{}
	service := newTestService(repo, pub)

	repo.On("CreateMeal", mock.Anything, mock.AnythingOfType("*activity.Meal")).Return(9, nil)

	taken := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)
	meal, err := service.UploadMeal(context.Background(), 7, UploadMealRequest{
		Photo:   "aGVsbG8=",
		Caption: "обед",
		TakenAt: taken,
	})
	require.NoError(t, err)
	assert.Equal(t, 9, meal.ID)
	assert.Equal(t, taken, meal.TakenAt)

	require.Len(t, pub.events, 1)
	assert.Equal(t, event.TypeMealFeedback, pub.events[0].Type)
}

func TestService_UploadMeal_MissingPhoto(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	_, err := service.UploadMeal(context.Background(), 7, UploadMealRequest{Caption: "обед"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWorkoutFeedback(t *testing.T) {
	tests := []struct {
		name     string
		workout  Workout
		contains string
	}{
		{
			name:     "short workout",
			workout:  Workout{Duration: 10},
			contains: "Короткая",
		},
		{
			name:     "too long workout",
			workout:  Workout{Duration: 120},
			contains: "восстановлением",
		},
		{
			name:     "no exercises listed",
			workout:  Workout{Duration: 45},
			contains: "упражнения",
		},
		{
			name:     "normal workout",
			workout:  Workout{Duration: 45, Exercises: []byte(`[{"name":"присед"}]`)},
			contains: "Хорошая работа",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, workoutFeedback(&tt.workout), tt.contains)
		})
	}
}

func TestMealFeedback(t *testing.T) {
	assert.Contains(t, mealFeedback(&Meal{}), "Подпишите")
	assert.Contains(t, mealFeedback(&Meal{Caption: "Бургер"}), "читмил")
	assert.Contains(t, mealFeedback(&Meal{Caption: "овсянка с ягодами"}), "сбалансированно")
}

func TestService_ListMeals_RepositoryError(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	repo.On("ListMeals", mock.Anything, 7, 10).Return(nil, errors.New("database error"))

	_, err := service.ListMeals(context.Background(), 7, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
}
