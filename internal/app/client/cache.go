package client

import (
	"sync"

	"golang.org/x/exp/slog"

	"coachfit/internal/domain/action"
	"coachfit/internal/domain/event"
)

// Партиции локального кеша. Инвалидация партиции означает, что
// закешированные данные этой категории устарели и требуют перезапроса.
const (
	CachePlan          = "plan"
	CacheTasks         = "tasks"
	CacheGoals         = "goals"
	CacheWorkouts      = "workouts"
	CacheMeals         = "meals"
	CacheMessages      = "messages"
	CacheNotifications = "notifications"
)

// CacheRegistry хранит подписчиков на инвалидацию партиций кеша.
// Успешное выполнение отложенного действия и входящее событие
// realtime-канала сходятся в одной точке: обе ветки инвалидируют
// партиции своей категории, а интерфейс перезапрашивает данные.
type CacheRegistry struct {
	log    *slog.Logger
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]func()
}

func NewCacheRegistry(log *slog.Logger) *CacheRegistry {
	return &CacheRegistry{
		log:  log.With("component", "cache"),
		subs: make(map[string]map[int]func()),
	}
}

// Subscribe регистрирует обработчик инвалидации партиции.
// Возвращает функцию отписки.
func (c *CacheRegistry) Subscribe(partition string, fn func()) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	if c.subs[partition] == nil {
		c.subs[partition] = make(map[int]func())
	}
	c.subs[partition][id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs[partition], id)
		c.mu.Unlock()
	}
}

// Invalidate помечает партиции устаревшими и уведомляет подписчиков.
// Обработчики вызываются вне блокировки, подписка и отписка из
// обработчика безопасны.
func (c *CacheRegistry) Invalidate(partitions ...string) {
	var fns []func()

	c.mu.RLock()
	for _, p := range partitions {
		for _, fn := range c.subs[p] {
			fns = append(fns, fn)
		}
	}
	c.mu.RUnlock()

	if len(partitions) > 0 {
		c.log.Debug("Инвалидация кеша", "partitions", partitions)
	}

	for _, fn := range fns {
		fn()
	}
}

// actionPartitions сопоставляет выполненное действие с партициями,
// которые оно делает устаревшими.
func actionPartitions(kind action.Kind, verb action.Verb) []string {
	switch kind {
	case action.KindWorkout:
		return []string{CacheWorkouts}
	case action.KindMeal:
		return []string{CacheMeals}
	case action.KindTask:
		return []string{CacheTasks, CachePlan}
	case action.KindGoal:
		return []string{CacheGoals, CachePlan}
	case action.KindMessage:
		return []string{CacheMessages}
	}
	return nil
}

// eventPartitions сопоставляет тип входящего события с партициями кеша
func eventPartitions(eventType string) []string {
	switch eventType {
	case event.TypeNewMessage, event.TypeMessageRead:
		return []string{CacheMessages}
	case event.TypePlanUpdated:
		return []string{CachePlan, CacheTasks, CacheGoals}
	case event.TypeTaskUpdated:
		return []string{CacheTasks, CachePlan}
	case event.TypeGoalUpdated:
		return []string{CacheGoals}
	case event.TypeWorkoutFeedback:
		return []string{CacheWorkouts}
	case event.TypeMealFeedback:
		return []string{CacheMeals}
	case event.TypeNotification:
		return []string{CacheNotifications}
	}
	return nil
}
