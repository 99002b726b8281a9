package activity

import (
	"encoding/json"
	"time"
)

// Workout запись о выполненной тренировке
type Workout struct {
	ID          int             `json:"id"`
	UserID      int             `json:"user_id"`
	PlanDay     string          `json:"plan_day,omitempty"`
	Duration    int             `json:"duration_minutes"`
	Exercises   json.RawMessage `json:"exercises,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Feedback    string          `json:"feedback,omitempty"`
	PerformedAt time.Time       `json:"performed_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Meal фотография приема пищи с подписью
type Meal struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Photo     string    `json:"photo"` // base64
	Caption   string    `json:"caption,omitempty"`
	Feedback  string    `json:"feedback,omitempty"`
	TakenAt   time.Time `json:"taken_at"`
	CreatedAt time.Time `json:"created_at"`
}
