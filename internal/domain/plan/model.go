package plan

import "time"

// Plan недельный план тренера для клиента
type Plan struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Title     string    `json:"title"`
	WeekStart time.Time `json:"week_start"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Task задача в рамках плана
type Task struct {
	ID          int        `json:"id"`
	PlanID      int        `json:"plan_id"`
	UserID      int        `json:"user_id"`
	Title       string     `json:"title"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Done        bool       `json:"done"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Goal долгосрочная цель клиента
type Goal struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	Title       string     `json:"title"`
	Target      float64    `json:"target"`
	Progress    float64    `json:"progress"`
	Note        string     `json:"note,omitempty"`
	Done        bool       `json:"done"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// View план вместе с задачами и целями
type View struct {
	Plan  *Plan  `json:"plan,omitempty"`
	Tasks []Task `json:"tasks"`
	Goals []Goal `json:"goals"`
}
