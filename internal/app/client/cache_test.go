package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"

	"coachfit/internal/domain/action"
	"coachfit/internal/domain/event"
)

func TestCacheRegistry_InvalidateNotifiesSubscribers(t *testing.T) {
	cache := NewCacheRegistry(slog.Default())

	var workouts, meals int
	cache.Subscribe(CacheWorkouts, func() { workouts++ })
	cache.Subscribe(CacheMeals, func() { meals++ })

	cache.Invalidate(CacheWorkouts)

	assert.Equal(t, 1, workouts)
	assert.Equal(t, 0, meals, "подписчик другой партиции не затронут")

	cache.Invalidate(CacheWorkouts, CacheMeals)

	assert.Equal(t, 2, workouts)
	assert.Equal(t, 1, meals)
}

func TestCacheRegistry_UnsubscribeStopsNotifications(t *testing.T) {
	cache := NewCacheRegistry(slog.Default())

	var calls int
	unsubscribe := cache.Subscribe(CacheMessages, func() { calls++ })

	cache.Invalidate(CacheMessages)
	unsubscribe()
	cache.Invalidate(CacheMessages)

	assert.Equal(t, 1, calls)
}

func TestCacheRegistry_InvalidateWithoutSubscribers(t *testing.T) {
	cache := NewCacheRegistry(slog.Default())

	assert.NotPanics(t, func() {
		cache.Invalidate(CachePlan, CacheNotifications)
	})
}

func TestActionPartitions(t *testing.T) {
	tests := []struct {
		kind action.Kind
		verb action.Verb
		want []string
	}{
		{action.KindWorkout, action.VerbCreate, []string{CacheWorkouts}},
		{action.KindMeal, action.VerbUpload, []string{CacheMeals}},
		{action.KindTask, action.VerbComplete, []string{CacheTasks, CachePlan}},
		{action.KindGoal, action.VerbUpdate, []string{CacheGoals, CachePlan}},
		{action.KindMessage, action.VerbSend, []string{CacheMessages}},
		{"unknown", "verb", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, actionPartitions(tt.kind, tt.verb), "kind=%s", tt.kind)
	}
}

func TestEventPartitions(t *testing.T) {
	tests := []struct {
		eventType string
		want      []string
	}{
		{event.TypeNewMessage, []string{CacheMessages}},
		{event.TypeMessageRead, []string{CacheMessages}},
		{event.TypePlanUpdated, []string{CachePlan, CacheTasks, CacheGoals}},
		{event.TypeTaskUpdated, []string{CacheTasks, CachePlan}},
		{event.TypeGoalUpdated, []string{CacheGoals}},
		{event.TypeWorkoutFeedback, []string{CacheWorkouts}},
		{event.TypeMealFeedback, []string{CacheMeals}},
		{event.TypeNotification, []string{CacheNotifications}},
		{event.TypePing, nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, eventPartitions(tt.eventType), "type=%s", tt.eventType)
	}
}
