// internal/app/client/queue.go
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"coachfit/internal/domain/action"
)

// ActionExecutor выполняет отложенное действие против сервера
type ActionExecutor interface {
	ExecuteAction(ctx context.Context, act action.Queued) error
}

// QueueService управляет очередью отложенных действий.
// Действия накапливаются офлайн и выполняются строго в порядке
// постановки при восстановлении связи.
type QueueService struct {
	storage  Storage
	executor ActionExecutor
	online   func() bool
	log      *slog.Logger

	maxRetries int

	mu           sync.Mutex
	isProcessing bool

	subMu       sync.RWMutex
	nextSubID   int
	changeSubs  map[int]func(pending int)
	droppedSubs []func(action.Failed)
}

// QueueStats статистика очереди
type QueueStats struct {
	Pending     int        `json:"pending"`
	Failed      int        `json:"failed"`
	OldestSince *time.Time `json:"oldest_since,omitempty"`
}

// NewQueueService создает сервис очереди отложенных действий
func NewQueueService(storage Storage, executor ActionExecutor, online func() bool, maxRetries int, log *slog.Logger) *QueueService {
	if maxRetries <= 0 {
		maxRetries = action.MaxRetries
	}
	if online == nil {
		online = func() bool { return true }
	}

	return &QueueService{
		storage:    storage,
		executor:   executor,
		online:     online,
		log:        log.With("component", "queue"),
		maxRetries: maxRetries,
		changeSubs: make(map[int]func(pending int)),
	}
}

// Enqueue ставит действие в очередь. Неизвестная пара (тип, операция)
// отклоняется сразу, до записи в хранилище. Ошибка записи возвращается
// вызывающему, действие при этом в очередь не попадает.
func (s *QueueService) Enqueue(kind action.Kind, verb action.Verb, data json.RawMessage) (action.Queued, error) {
	if err := action.Validate(kind, verb); err != nil {
		return action.Queued{}, err
	}

	s.mu.Lock()

	queue, err := s.loadQueue()
	if err != nil {
		s.mu.Unlock()
		return action.Queued{}, err
	}

	act := action.New(kind, verb, data)
	queue = append(queue, act)

	if err := s.saveQueue(queue); err != nil {
		s.mu.Unlock()
		return action.Queued{}, fmt.Errorf("ошибка сохранения очереди: %w", err)
	}
	s.mu.Unlock()

	s.log.Info("Действие добавлено в очередь",
		"id", act.ID,
		"type", act.Kind,
		"action", act.Verb,
		"pending", len(queue),
	)

	s.notifyChanged(len(queue))

	return act, nil
}

// GetQueue возвращает текущую очередь в порядке постановки.
// Поврежденное хранилище читается как пустая очередь, приложение
// не должно блокироваться на битом кеше.
func (s *QueueService) GetQueue() ([]action.Queued, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadQueue()
}

// Count возвращает число отложенных действий
func (s *QueueService) Count() (int, error) {
	queue, err := s.GetQueue()
	if err != nil {
		return 0, err
	}
	return len(queue), nil
}

// FailedActions возвращает действия, окончательно удаленные после
// исчерпания попыток
func (s *QueueService) FailedActions() ([]action.Failed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadFailed()
}

// ClearQueue полностью очищает очередь
func (s *QueueService) ClearQueue() error {
	s.mu.Lock()
	if err := s.storage.Delete(keyQueue); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("ошибка очистки очереди: %w", err)
	}
	s.mu.Unlock()

	s.notifyChanged(0)
	return nil
}

// ClearFailed очищает журнал окончательно отброшенных действий
func (s *QueueService) ClearFailed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(keyFailed); err != nil {
		return fmt.Errorf("ошибка очистки журнала отказов: %w", err)
	}
	return nil
}

// Subscribe регистрирует обработчик изменения очереди: постановка,
// обработка, очистка. Обработчик получает актуальное число отложенных
// действий. Возвращает функцию отписки.
func (s *QueueService) Subscribe(fn func(pending int)) func() {
	s.subMu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.changeSubs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.changeSubs, id)
		s.subMu.Unlock()
	}
}

// SubscribeDropped регистрирует обработчик окончательного отказа.
// Пользователь должен узнать о потерянном действии, тихих потерь нет.
func (s *QueueService) SubscribeDropped(fn func(action.Failed)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.droppedSubs = append(s.droppedSubs, fn)
}

// Stats возвращает статистику очереди
func (s *QueueService) Stats() (QueueStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue, err := s.loadQueue()
	if err != nil {
		return QueueStats{}, err
	}
	failed, err := s.loadFailed()
	if err != nil {
		return QueueStats{}, err
	}

	stats := QueueStats{
		Pending: len(queue),
		Failed:  len(failed),
	}
	if len(queue) > 0 {
		oldest := queue[0].Timestamp
		stats.OldestSince = &oldest
	}

	return stats, nil
}

// ProcessQueue выполняет накопленные действия строго по порядку.
// Повторный вызов во время обработки и вызов в офлайне ничего не делают.
// Неудавшееся действие получает инкремент счетчика попыток и остается
// в голове очереди, обработка волны на нем останавливается. После
// исчерпания попыток действие переносится в журнал отказов.
func (s *QueueService) ProcessQueue(ctx context.Context) error {
	s.mu.Lock()
	if s.isProcessing {
		s.mu.Unlock()
		s.log.Debug("Обработка очереди уже выполняется")
		return nil
	}
	if !s.online() {
		s.mu.Unlock()
		s.log.Debug("Очередь не обрабатывается в офлайне")
		return nil
	}
	s.isProcessing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isProcessing = false
		s.mu.Unlock()
	}()

	return s.process(ctx)
}

func (s *QueueService) process(ctx context.Context) error {
	s.mu.Lock()
	queue, err := s.loadQueue()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if len(queue) == 0 {
		return nil
	}

	s.log.Info("Начало обработки очереди", "pending", len(queue))

	processed := 0
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			break
		}
		if !s.online() {
			s.log.Warn("Связь потеряна во время обработки очереди")
			break
		}

		head := queue[0]
		if err := s.executor.ExecuteAction(ctx, head); err != nil {
			queue, err = s.handleFailure(queue, head, err)
			if err != nil {
				return err
			}
			// После переноса в журнал отказов обработка продолжается
			// со следующего действия, иначе волна останавливается
			if len(queue) > 0 && queue[0].ID == head.ID {
				break
			}
			continue
		}

		queue = queue[1:]
		processed++

		s.mu.Lock()
		err := s.saveQueue(queue)
		s.mu.Unlock()
		if err != nil {
			return fmt.Errorf("ошибка сохранения очереди: %w", err)
		}

		s.log.Info("Действие выполнено",
			"id", head.ID,
			"type", head.Kind,
			"action", head.Verb,
		)
	}

	s.log.Info("Обработка очереди завершена",
		"processed", processed,
		"pending", len(queue),
	)

	s.notifyChanged(len(queue))

	return nil
}

// handleFailure обрабатывает неудачу действия: инкремент счетчика либо,
// при исчерпании попыток, перенос в журнал отказов
func (s *QueueService) handleFailure(queue []action.Queued, head action.Queued, cause error) ([]action.Queued, error) {
	// Действие отбрасывается только когда неудача случилась при уже
	// исчерпанном счетчике: после неудачи с retryCount == max действие
	// еще раз остается в очереди и удаляется на следующей волне
	if head.RetryCount >= s.maxRetries {
		s.log.Error("Действие отброшено после исчерпания попыток",
			"id", head.ID,
			"type", head.Kind,
			"action", head.Verb,
			"retries", head.RetryCount,
			"error", cause,
		)

		failed := action.Failed{
			Action:   head,
			Reason:   cause.Error(),
			FailedAt: time.Now().UTC(),
		}

		queue = queue[1:]

		s.mu.Lock()
		if err := s.saveQueue(queue); err != nil {
			s.mu.Unlock()
			return nil, fmt.Errorf("ошибка сохранения очереди: %w", err)
		}
		if err := s.appendFailed(failed); err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.mu.Unlock()

		s.notifyDropped(failed)
		return queue, nil
	}

	retried := head.WithRetry()

	s.log.Warn("Действие не выполнено, попытка будет повторена",
		"id", head.ID,
		"retry", retried.RetryCount,
		"max_retries", s.maxRetries,
		"error", cause,
	)

	queue[0] = retried

	s.mu.Lock()
	err := s.saveQueue(queue)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения очереди: %w", err)
	}

	return queue, nil
}

func (s *QueueService) notifyChanged(pending int) {
	s.subMu.RLock()
	subs := make([]func(int), 0, len(s.changeSubs))
	for _, fn := range s.changeSubs {
		subs = append(subs, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range subs {
		fn(pending)
	}
}

func (s *QueueService) notifyDropped(failed action.Failed) {
	s.subMu.RLock()
	subs := make([]func(action.Failed), len(s.droppedSubs))
	copy(subs, s.droppedSubs)
	s.subMu.RUnlock()

	for _, fn := range subs {
		fn(failed)
	}
}

func (s *QueueService) loadQueue() ([]action.Queued, error) {
	data, ok, err := s.storage.Get(keyQueue)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения очереди: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var queue []action.Queued
	if err := json.Unmarshal(data, &queue); err != nil {
		// Нечитаемая очередь считается пустой, ошибка не поднимается:
		// приложение не должно застревать на битом кеше
		s.log.Error("Очередь в хранилище повреждена, считается пустой", "error", err)
		return nil, nil
	}

	return queue, nil
}

func (s *QueueService) saveQueue(queue []action.Queued) error {
	if len(queue) == 0 {
		return s.storage.Delete(keyQueue)
	}

	data, err := json.Marshal(queue)
	if err != nil {
		return fmt.Errorf("ошибка маршалинга очереди: %w", err)
	}

	return s.storage.Set(keyQueue, data)
}

func (s *QueueService) loadFailed() ([]action.Failed, error) {
	data, ok, err := s.storage.Get(keyFailed)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения журнала отказов: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var failed []action.Failed
	if err := json.Unmarshal(data, &failed); err != nil {
		s.log.Error("Журнал отказов поврежден, считается пустым", "error", err)
		return nil, nil
	}

	return failed, nil
}

func (s *QueueService) appendFailed(entry action.Failed) error {
	failed, err := s.loadFailed()
	if err != nil {
		return err
	}

	failed = append(failed, entry)

	data, err := json.Marshal(failed)
	if err != nil {
		return fmt.Errorf("ошибка маршалинга журнала отказов: %w", err)
	}

	if err := s.storage.Set(keyFailed, data); err != nil {
		return fmt.Errorf("ошибка сохранения журнала отказов: %w", err)
	}

	return nil
}
