package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"coachfit/internal/domain/event"
)

const defaultListLimit = 100

type Servicer interface {
	Send(ctx context.Context, userID int, threadID, sender, text string) (*Message, error)
	List(ctx context.Context, userID, limit int) ([]Message, error)
	MarkRead(ctx context.Context, userID, messageID int) (*Message, error)
	Notify(ctx context.Context, userID int, title, body string) (*Notification, error)
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
		log:  log.With("component", "feed_service"),
	}
}

func (s *Service) Send(ctx context.Context, userID int, threadID, sender, text string) (*Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	if sender != SenderClient && sender != SenderCoach {
		return nil, fmt.Errorf("%w: unknown sender %q", ErrInvalidInput, sender)
	}

	msg := &Message{
		UserID:    userID,
		ThreadID:  threadID,
		Sender:    sender,
		Text:      text,
		CreatedAt: time.Now(),
	}

	id, err := s.repo.Create(ctx, msg)
	if err != nil {
		s.log.Error("failed to create message", "user_id", userID, "error", err)
		return nil, fmt.Errorf("create message: %w", err)
	}
	msg.ID = id

	s.log.Info("message sent", "message_id", id, "user_id", userID, "sender", sender)
	s.publish(userID, event.TypeNewMessage, msg)

	return msg, nil
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

// MarkRead помечает сообщение прочитанным. Повторная отметка не ошибка.
func (s *Service) MarkRead(ctx context.Context, userID, messageID int) (*Message, error) {
	msg, err := s.repo.GetMessage(ctx, userID, messageID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get message: %w", err)
	}

	if msg.Read {
		return msg, nil
	}

	readAt := time.Now()
	if err := s.repo.MarkRead(ctx, userID, messageID, readAt); err != nil {
		s.log.Error("failed to mark message read", "message_id", messageID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("mark message read: %w", err)
	}

	msg.Read = true
	msg.ReadAt = &readAt

	s.log.Info("message read", "message_id", messageID, "user_id", userID)
	s.publish(userID, event.TypeMessageRead, msg)

	return msg, nil
}

// Notify создает уведомление для клиента и рассылает его в realtime-канал
func (s *Service) Notify(ctx context.Context, userID int, title, body string) (*Notification, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	n := &Notification{
		UserID:    userID,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now(),
	}

	id, err := s.repo.CreateNotification(ctx, n)
	if err != nil {
		s.log.Error("failed to create notification", "user_id", userID, "error", err)
		return nil, fmt.Errorf("create notification: %w", err)
	}
	n.ID = id

	s.log.Info("notification created", "notification_id", id, "user_id", userID)
	s.publish(userID, event.TypeNotification, n)

	return n, nil
}

func (s *Service) List(ctx context.Context, userID, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	messages, err := s.repo.List(ctx, userID, limit)
	if err != nil {
		s.log.Error("failed to list messages", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}
