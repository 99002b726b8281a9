package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"coachfit/internal/domain/feed"
)

type FeedRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewFeedRepository(db *Storage, log *slog.Logger) *FeedRepository {
	return &FeedRepository{
		db:  db,
		log: log.With("component", "feed_repository"),
	}
}

func (r *FeedRepository) Create(ctx context.Context, msg *feed.Message) (int, error) {
	const query = `
		INSERT INTO messages (user_id, thread_id, sender, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.Pool().QueryRow(ctx, query,
		msg.UserID, msg.ThreadID, msg.Sender, msg.Text,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		r.log.Error("failed to create message", "user_id", msg.UserID, "error", err)
		return 0, fmt.Errorf("create message: %w", err)
	}

	return msg.ID, nil
}

func (r *FeedRepository) List(ctx context.Context, userID, limit int) ([]feed.Message, error) {
	const query = `
		SELECT id, user_id, thread_id, sender, text, read, read_at, created_at
		FROM messages
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Pool().Query(ctx, query, userID, limit)
	if err != nil {
		r.log.Error("failed to list messages", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []feed.Message
	for rows.Next() {
		var m feed.Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.ThreadID, &m.Sender, &m.Text, &m.Read, &m.ReadAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

func (r *FeedRepository) GetMessage(ctx context.Context, userID, messageID int) (*feed.Message, error) {
	const query = `
		SELECT id, user_id, thread_id, sender, text, read, read_at, created_at
		FROM messages
		WHERE id = $1 AND user_id = $2`

	var m feed.Message
	err := r.db.Pool().QueryRow(ctx, query, messageID, userID).Scan(
		&m.ID, &m.UserID, &m.ThreadID, &m.Sender, &m.Text, &m.Read, &m.ReadAt, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, feed.ErrNotFound
		}
		return nil, fmt.Errorf("get message: %w", err)
	}

	return &m, nil
}

func (r *FeedRepository) MarkRead(ctx context.Context, userID, messageID int, readAt time.Time) error {
	const query = `
		UPDATE messages
		SET read = TRUE, read_at = $3
		WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Pool().Exec(ctx, query, messageID, userID, readAt)
	if err != nil {
		r.log.Error("failed to mark message read", "message_id", messageID, "error", err)
		return fmt.Errorf("mark message read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return feed.ErrNotFound
	}

	return nil
}

func (r *FeedRepository) CreateNotification(ctx context.Context, n *feed.Notification) (int, error) {
	const query = `
		INSERT INTO notifications (user_id, title, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.Pool().QueryRow(ctx, query, n.UserID, n.Title, n.Body).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		r.log.Error("failed to create notification", "user_id", n.UserID, "error", err)
		return 0, fmt.Errorf("create notification: %w", err)
	}

	return n.ID, nil
}
