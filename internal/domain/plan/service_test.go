package plan

import (
	"context"
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

func (m *MockRepository) GetCurrentPlan(ctx context.Context, userID int) (*Plan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockRepository) ListTasks(ctx context.Context, userID int) ([]Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Task), args.Error(1)
}

func (m *MockRepository) GetTask(ctx context.Context, userID, taskID int) (*Task, error) {
	args := m.Called(ctx, userID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Task), args.Error(1)
}

func (m *MockRepository) CompleteTask(ctx context.Context, userID, taskID int, completedAt time.Time) error {
	args := m.Called(ctx, userID, taskID, completedAt)
	return args.Error(0)
}

func (m *MockRepository) ListGoals(ctx context.Context, userID int) ([]Goal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Goal), args.Error(1)
}

func (m *MockRepository) GetGoal(ctx context.Context, userID, goalID int) (*Goal, error) {
	args := m.Called(ctx, userID, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Goal), args.Error(1)
}

func (m *MockRepository) UpdateGoal(ctx context.Context, goal *Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

type capturingPublisher struct {
	events []event.Envelope
	users  []int
}

func (p *capturingPublisher) Publish(userID int, env event.Envelope) {
	p.users = append(p.users, userID)
	p.events = append(p.events, env)
}

func newTestService(repo Repository, pub event.Publisher) Servicer {
	log := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	return NewService(repo, pub, log)
}

func TestService_Current(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	current := &Plan{ID: 1, UserID: 7, Title: "Неделя 1"}
	tasks := []Task{{ID: 1, PlanID: 1, UserID: 7, Title: "Кардио 30 минут"}}
	goals := []Goal{{ID: 2, UserID: 7, Title: "Вес 80 кг", Target: 80}}

	repo.On("GetCurrentPlan", mock.Anything, 7).Return(current, nil)
	repo.On("ListTasks", mock.Anything, 7).Return(tasks, nil)
	repo.On("ListGoals", mock.Anything, 7).Return(goals, nil)

	view, err := service.Current(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, current, view.Plan)
	assert.Equal(t, tasks, view.Tasks)
	assert.Equal(t, goals, view.Goals)
	repo.AssertExpectations(t)
}

func TestService_Current_NoPlanAssigned(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	repo.On("GetCurrentPlan", mock.Anything, 7).Return(nil, ErrNotFound)
	repo.On("ListTasks", mock.Anything, 7).Return([]Task{}, nil)
	repo.On("ListGoals", mock.Anything, 7).Return([]Goal{}, nil)

	view, err := service.Current(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, view.Plan)
}

func TestService_CompleteTask(t *testing.T) {
	repo := new(MockRepository)
	pub := &capturingPublisher{}
	service := newTestService(repo, pub)

	task := &Task{ID: 3, UserID: 7, Title: "Силовая"}
	repo.On("GetTask", mock.Anything, 7, 3).Return(task, nil)
	repo.On("CompleteTask", mock.Anything, 7, 3, mock.AnythingOfType("time.Time")).Return(nil)

	got, err := service.CompleteTask(context.Background(), 7, 3, time.Time{})
	require.NoError(t, err)
	assert.True(t, got.Done)
	require.NotNil(t, got.CompletedAt)

	require.Len(t, pub.events, 1)
	assert.Equal(t, event.TypeTaskUpdated, pub.events[0].Type)
	assert.Equal(t, []int{7}, pub.users)
	repo.AssertExpectations(t)
}

func TestService_CompleteTask_AlreadyDoneIsIdempotent(t *testing.T) {
	repo := new(MockRepository)
	pub := &capturingPublisher{}
	service := newTestService(repo, pub)

	done := time.Now().Add(-time.Hour)
	task := &Task{ID: 3, UserID: 7, Done: true, CompletedAt: &done}
	repo.On("GetTask", mock.Anything, 7, 3).Return(task, nil)

	got, err := service.CompleteTask(context.Background(), 7, 3, time.Now())
	require.NoError(t, err)
	assert.True(t, got.Done)

	// Повторная отметка не пишет в репозиторий и не рассылает событие
	repo.AssertNotCalled(t, "CompleteTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, pub.events)
}

func TestService_CompleteTask_NotFound(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	repo.On("GetTask", mock.Anything, 7, 99).Return(nil, ErrNotFound)

	_, err := service.CompleteTask(context.Background(), 7, 99, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_UpdateGoal(t *testing.T) {
	repo := new(MockRepository)
	pub := &capturingPublisher{}
	service := newTestService(repo, pub)

	goal := &Goal{ID: 5, UserID: 7, Title: "Вес 80 кг", Target: 80, Progress: 85}
	repo.On("GetGoal", mock.Anything, 7, 5).Return(goal, nil)
	repo.On("UpdateGoal", mock.Anything, mock.AnythingOfType("*plan.Goal")).Return(nil)

	got, err := service.UpdateGoal(context.Background(), 7, 5, 83.5, "минус полтора")
	require.NoError(t, err)
	assert.Equal(t, 83.5, got.Progress)
	assert.Equal(t, "минус полтора", got.Note)

	require.Len(t, pub.events, 1)
	assert.Equal(t, event.TypeGoalUpdated, pub.events[0].Type)
}

func TestService_UpdateGoal_NegativeProgress(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	_, err := service.UpdateGoal(context.Background(), 7, 5, -1, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	repo.AssertNotCalled(t, "GetGoal", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CompleteGoal(t *testing.T) {
	repo := new(MockRepository)
	pub := &capturingPublisher{}
	service := newTestService(repo, pub)

	goal := &Goal{ID: 5, UserID: 7, Title: "Вес 80 кг"}
	repo.On("GetGoal", mock.Anything, 7, 5).Return(goal, nil)
	repo.On("UpdateGoal", mock.Anything, mock.AnythingOfType("*plan.Goal")).Return(nil)

	got, err := service.CompleteGoal(context.Background(), 7, 5)
	require.NoError(t, err)
	assert.True(t, got.Done)
	require.NotNil(t, got.CompletedAt)

	require.Len(t, pub.events, 1)
	assert.Equal(t, event.TypeGoalUpdated, pub.events[0].Type)
}

func TestService_CompleteGoal_AlreadyCompleted(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	goal := &Goal{ID: 5, UserID: 7, Done: true}
	repo.On("GetGoal", mock.Anything, 7, 5).Return(goal, nil)

	_, err := service.CompleteGoal(context.Background(), 7, 5)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestService_UpdateGoal_RepositoryError(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	goal := &Goal{ID: 5, UserID: 7}
	repo.On("GetGoal", mock.Anything, 7, 5).Return(goal, nil)
	repo.On("UpdateGoal", mock.Anything, mock.Anything).Return(errors.New("database error"))

	_, err := service.UpdateGoal(context.Background(), 7, 5, 10, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
}
