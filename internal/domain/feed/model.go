package feed

import "time"

// Отправитель сообщения
const (
	SenderClient = "client"
	SenderCoach  = "coach"
)

// Message сообщение в переписке клиента с тренером
type Message struct {
	ID        int        `json:"id"`
	UserID    int        `json:"user_id"`
	ThreadID  string     `json:"thread_id,omitempty"`
	Sender    string     `json:"sender"`
	Text      string     `json:"text"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Notification уведомление для клиента
type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
