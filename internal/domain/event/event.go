package event

import (
	"encoding/json"
	"time"
)

// Типы событий realtime-канала, закрытый словарь подписок.
// Служебные ping/pong обрабатываются транспортом и до подписчиков
// не доходят.
const (
	TypePing = "ping"
	TypePong = "pong"

	TypeNewMessage      = "new_message"
	TypeMessageRead     = "message_read"
	TypePlanUpdated     = "plan_updated"
	TypeTaskUpdated     = "task_updated"
	TypeGoalUpdated     = "goal_updated"
	TypeWorkoutFeedback = "workout_feedback"
	TypeMealFeedback    = "meal_feedback"
	TypeNotification    = "new_notification"
)

// Envelope кадр realtime-канала
type Envelope struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
}

// NewEnvelope собирает кадр с текущим временем
func NewEnvelope(eventType string, payload any) (Envelope, error) {
	env := Envelope{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Envelope{}, err
		}
		env.Data = data
	}
	return env, nil
}

// Publisher доставляет события подключенным клиентам пользователя
type Publisher interface {
	Publish(userID int, env Envelope)
}
