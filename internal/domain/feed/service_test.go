package feed

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"coachfit/internal/domain/event"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, msg *Message) (int, error) {
	args := m.Called(ctx, msg)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, userID, limit int) ([]Message, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Message), args.Error(1)
}

func (m *MockRepository) GetMessage(ctx context.Context, userID, messageID int) (*Message, error) {
	args := m.Called(ctx, userID, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Message), args.Error(1)
}

func (m *MockRepository) MarkRead(ctx context.Context, userID, messageID int, readAt time.Time) error {
	args := m.Called(ctx, userID, messageID, readAt)
	return args.Error(0)
}

func (m *MockRepository) CreateNotification(ctx context.Context, n *Notification) (int, error) {
	args := m.Called(ctx, n)
	return args.Int(0), args.Error(1)
}

type capturingPublisher struct {
	events []event.Envelope
}

func (p *capturingPublisher) Publish(_ int, env event.Envelope) {
	p.events = append(p.events, env)
}

func newTestService(repo Repository, pub event.Publisher) Servicer {
	log := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	return NewService(repo, pub, log)
}

func TestService_Send(t *testing.T) {
	repo := new(MockRepository)
	pub := &capturingPublisher{}
	service := newTestService(repo, pub)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*feed.Message")).Return(11, nil)

	msg, err := service.Send(context.Background(), 7, "t-1", SenderClient, "как самочувствие?")
	require.NoError(t, err)
	assert.Equal(t, 11, msg.ID)
	assert.Equal(t, "t-1", msg.ThreadID)
	assert.False(t, msg.CreatedAt.IsZero())

	require.Len(t, pub.events, 1)
	assert.Equal(t, event.TypeNewMessage, pub.events[0].Type)
	repo.AssertExpectations(t)
}

func TestService_Send_EmptyText(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	_, err := service.Send(context.Background(), 7, "", SenderClient, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Send_UnknownSender(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	_, err := service.Send(context.Background(), 7, "", "bot", "привет")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_MarkRead(t *testing.T) {
	repo := new(MockRepository)
	pub := &capturingPublisher{}
	service := newTestService(repo, pub)

	msg := &Message{ID: 11, UserID: 7, Sender: SenderCoach, Text: "не забудьте чек-ин"}
	repo.On("GetMessage", mock.Anything, 7, 11).Return(msg, nil)
	repo.On("MarkRead", mock.Anything, 7, 11, mock.AnythingOfType("time.Time")).Return(nil)

	got, err := service.MarkRead(context.Background(), 7, 11)
	require.NoError(t, err)
	assert.True(t, got.Read)
	require.NotNil(t, got.ReadAt)

	require.Len(t, pub.events, 1)
	assert.Equal(t, event.TypeMessageRead, pub.events[0].Type)
	repo.AssertExpectations(t)
}

func TestService_MarkRead_AlreadyReadIsIdempotent(t *testing.T) {
	repo := new(MockRepository)
	pub := &capturingPublisher{}
	service := newTestService(repo, pub)

	readAt := time.Now().Add(-time.Hour)
	msg := &Message{ID: 11, UserID: 7, Read: true, ReadAt: &readAt}
	repo.On("GetMessage", mock.Anything, 7, 11).Return(msg, nil)

	got, err := service.MarkRead(context.Background(), 7, 11)
	require.NoError(t, err)
	assert.True(t, got.Read)

	repo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, pub.events)
}

func TestService_MarkRead_NotFound(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	repo.On("GetMessage", mock.Anything, 7, 99).Return(nil, ErrNotFound)

	_, err := service.MarkRead(context.Background(), 7, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Notify(t *testing.T) {
	repo := new(MockRepository)
	pub := &capturingPublisher{}
	service := newTestService(repo, pub)

	repo.On("CreateNotification", mock.Anything, mock.AnythingOfType("*feed.Notification")).Return(3, nil)

	n, err := service.Notify(context.Background(), 7, "Новый план", "Тренер обновил план на неделю")
	require.NoError(t, err)
	assert.Equal(t, 3, n.ID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, event.TypeNotification, pub.events[0].Type)
}

func TestService_Notify_EmptyTitle(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	_, err := service.Notify(context.Background(), 7, "  ", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
}

func TestService_List_DefaultLimit(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	repo.On("List", mock.Anything, 7, defaultListLimit).Return([]Message{{ID: 1}, {ID: 2}}, nil)

	messages, err := service.List(context.Background(), 7, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
	repo.AssertExpectations(t)
}

func TestService_List_RepositoryError(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo, nil)

	repo.On("List", mock.Anything, 7, 20).Return(nil, errors.New("database error"))

	_, err := service.List(context.Background(), 7, 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
}
