package client

import (
	"sync"
	"time"
)

// WorkoutEntry запись о выполненной тренировке
type WorkoutEntry struct {
	WorkoutID   string        `json:"workoutId"`
	PlanDay     string        `json:"planDay,omitempty"`
	Duration    int           `json:"duration"` // минуты
	Exercises   []ExerciseSet `json:"exercises,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	PerformedAt time.Time     `json:"performedAt"`
}

// ExerciseSet подход в рамках тренировки
type ExerciseSet struct {
	Name   string  `json:"name"`
	Sets   int     `json:"sets"`
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight,omitempty"`
}

// MealPhoto фотография приема пищи
type MealPhoto struct {
	MealID    string    `json:"mealId"`
	PhotoPath string    `json:"photoPath"`
	Caption   string    `json:"caption,omitempty"`
	TakenAt   time.Time `json:"takenAt"`
}

// TaskCompletion отметка о выполнении задачи
type TaskCompletion struct {
	TaskID      string    `json:"taskId"`
	CompletedAt time.Time `json:"completedAt,omitempty"`
}

// GoalUpdate прогресс по цели
type GoalUpdate struct {
	GoalID   string  `json:"goalId"`
	Progress float64 `json:"progress,omitempty"`
	Note     string  `json:"note,omitempty"`
}

// ChatMessage сообщение тренеру
type ChatMessage struct {
	ThreadID string `json:"threadId,omitempty"`
	Text     string `json:"text"`
}

// AppState сохраняемое состояние клиента
type AppState struct {
	UserID    int       `json:"user_id"`
	Login     string    `json:"login"`
	LastSeen  time.Time `json:"last_seen"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemoryStorage - временное in-memory хранилище
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		values: make(map[string][]byte),
	}
}

func (m *MemoryStorage) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, exists := m.values[key]
	if !exists {
		return nil, false, nil
	}

	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, true, nil
}

func (m *MemoryStorage) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)
	m.values[key] = cp
	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
