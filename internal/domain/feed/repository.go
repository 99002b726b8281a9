package feed

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, msg *Message) (int, error)
	List(ctx context.Context, userID, limit int) ([]Message, error)
	GetMessage(ctx context.Context, userID, messageID int) (*Message, error)
	MarkRead(ctx context.Context, userID, messageID int, readAt time.Time) error

	CreateNotification(ctx context.Context, n *Notification) (int, error)
}
