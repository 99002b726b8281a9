package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"coachfit/internal/domain/event"
)

type Servicer interface {
	Current(ctx context.Context, userID int) (View, error)
	Tasks(ctx context.Context, userID int) ([]Task, error)
	CompleteTask(ctx context.Context, userID, taskID int, completedAt time.Time) (*Task, error)
	Goals(ctx context.Context, userID int) ([]Goal, error)
	UpdateGoal(ctx context.Context, userID, goalID int, progress float64, note string) (*Goal, error)
	CompleteGoal(ctx context.Context, userID, goalID int) (*Goal, error)
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
		log:  log.With("component", "plan_service"),
	}
}

// Current возвращает текущий план клиента вместе с задачами и целями
func (s *Service) Current(ctx context.Context, userID int) (View, error) {
	view := View{Tasks: []Task{}, Goals: []Goal{}}

	current, err := s.repo.GetCurrentPlan(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Error("failed to get current plan", "user_id", userID, "error", err)
		return view, fmt.Errorf("get current plan: %w", err)
	}
	view.Plan = current

	tasks, err := s.repo.ListTasks(ctx, userID)
	if err != nil {
		s.log.Error("failed to list tasks", "user_id", userID, "error", err)
		return view, fmt.Errorf("list tasks: %w", err)
	}
	view.Tasks = tasks

	goals, err := s.repo.ListGoals(ctx, userID)
	if err != nil {
		s.log.Error("failed to list goals", "user_id", userID, "error", err)
		return view, fmt.Errorf("list goals: %w", err)
	}
	view.Goals = goals

	return view, nil
}

// Tasks возвращает задачи текущего плана
func (s *Service) Tasks(ctx context.Context, userID int) ([]Task, error) {
	tasks, err := s.repo.ListTasks(ctx, userID)
	if err != nil {
		s.log.Error("failed to list tasks", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Goals возвращает цели клиента
func (s *Service) Goals(ctx context.Context, userID int) ([]Goal, error) {
	goals, err := s.repo.ListGoals(ctx, userID)
	if err != nil {
		s.log.Error("failed to list goals", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

func (s *Service) CompleteTask(ctx context.Context, userID, taskID int, completedAt time.Time) (*Task, error) {
	task, err := s.repo.GetTask(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	if task.Done {
		// Повторная отметка не ошибка, клиент мог отправить действие дважды
		return task, nil
	}

	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	if err := s.repo.CompleteTask(ctx, userID, taskID, completedAt); err != nil {
		s.log.Error("failed to complete task", "task_id", taskID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("complete task: %w", err)
	}

	task.Done = true
	task.CompletedAt = &completedAt

	s.log.Info("task completed", "task_id", taskID, "user_id", userID)
	s.publish(userID, event.TypeTaskUpdated, task)

	return task, nil
}

func (s *Service) UpdateGoal(ctx context.Context, userID, goalID int, progress float64, note string) (*Goal, error) {
	if progress < 0 {
		return nil, fmt.Errorf("%w: progress must be non-negative", ErrInvalidInput)
	}

	goal, err := s.repo.GetGoal(ctx, userID, goalID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}

	goal.Progress = progress
	if note != "" {
		goal.Note = note
	}
	goal.UpdatedAt = time.Now()

	if err := s.repo.UpdateGoal(ctx, goal); err != nil {
		s.log.Error("failed to update goal", "goal_id", goalID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("update goal: %w", err)
	}

	s.log.Info("goal updated", "goal_id", goalID, "user_id", userID, "progress", progress)
	s.publish(userID, event.TypeGoalUpdated, goal)

	return goal, nil
}

func (s *Service) CompleteGoal(ctx context.Context, userID, goalID int) (*Goal, error) {
	goal, err := s.repo.GetGoal(ctx, userID, goalID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}

	if goal.Done {
		return nil, ErrAlreadyCompleted
	}

	now := time.Now()
	goal.Done = true
	goal.CompletedAt = &now
	goal.UpdatedAt = now

	if err := s.repo.UpdateGoal(ctx, goal); err != nil {
		s.log.Error("failed to complete goal", "goal_id", goalID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("complete goal: %w", err)
	}

	s.log.Info("goal completed", "goal_id", goalID, "user_id", userID)
	s.publish(userID, event.TypeGoalUpdated, goal)

	return goal, nil
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
