package plan

import (
	"time"

	"coachfit/internal/domain/plan"
)

type currentInput struct{}

type currentOutput struct {
	Body CurrentResponse
}

type CurrentResponse struct {
	Status string    `json:"status"`
	Plan   plan.View `json:"plan"`
	Error  string    `json:"error,omitempty"`
}

type listTasksInput struct{}

type listTasksOutput struct {
	Body ListTasksResponse
}

type ListTasksResponse struct {
	Status string      `json:"status"`
	Tasks  []plan.Task `json:"tasks"`
	Error  string      `json:"error,omitempty"`
}

type listGoalsInput struct{}

type listGoalsOutput struct {
	Body ListGoalsResponse
}

type ListGoalsResponse struct {
	Status string      `json:"status"`
	Goals  []plan.Goal `json:"goals"`
	Error  string      `json:"error,omitempty"`
}

type completeTaskInput struct {
	ID   int `path:"id" example:"1" doc:"ID задачи"`
	Body struct {
		CompletedAt time.Time `json:"completedAt,omitempty"`
	}
}

type taskOutput struct {
	Body TaskResponse
}

type TaskResponse struct {
	Status string     `json:"status"`
	Task   *plan.Task `json:"task,omitempty"`
	Error  string     `json:"error,omitempty"`
}

type updateGoalInput struct {
	ID   int `path:"id" example:"1" doc:"ID цели"`
	Body struct {
		Progress float64 `json:"progress"`
		Note     string  `json:"note,omitempty"`
	}
}

type completeGoalInput struct {
	ID int `path:"id" example:"1" doc:"ID цели"`
}

type goalOutput struct {
	Body GoalResponse
}

type GoalResponse struct {
	Status string     `json:"status"`
	Goal   *plan.Goal `json:"goal,omitempty"`
	Error  string     `json:"error,omitempty"`
}
