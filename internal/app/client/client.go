package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"coachfit/internal/app/client/config"
	"coachfit/internal/domain/action"
	"coachfit/internal/domain/activity"
	"coachfit/internal/domain/event"
	"coachfit/internal/domain/feed"
	"coachfit/internal/domain/plan"
	"coachfit/internal/domain/user"
)

type App struct {
	config        *config.Config
	log           *slog.Logger
	httpClient    *httpClient
	storage       Storage
	queue         *QueueService
	realtime      *RealtimeChannel
	cache         *CacheRegistry
	netmon        *NetworkMonitor
	state         *AppState
	authenticated bool
	wg            sync.WaitGroup
	cancel        context.CancelFunc
	mu            sync.RWMutex
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	// Инициализируем HTTP клиент
	httpCl, err := NewHTTPClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации HTTP клиента: %w", err)
	}

	// Инициализируем локальное хранилище (используем SQLite)
	var storage Storage
	sqliteStorage, err := NewSQLiteStorage(cfg.QueueDBPath)
	if err != nil {
		log.Warn("Не удалось инициализировать SQLite, используем память", "error", err)
		storage = NewMemoryStorage()
	} else {
		storage = sqliteStorage
	}

	app := &App{
		config:     cfg,
		log:        log,
		httpClient: httpCl,
		storage:    storage,
	}

	state, err := app.loadAppState()
	if err != nil {
		log.Warn("Не удалось загрузить состояние приложения", "error", err)
		state = &AppState{}
	}
	app.state = state

	// Сетевой монитор следит за доступностью сервера
	app.netmon = NewNetworkMonitor(httpCl, cfg.NetProbeInterval, log)

	// Очередь отложенных действий, само приложение выполняет действия
	app.queue = NewQueueService(storage, app, app.netmon.IsOnline, cfg.MaxRetries, log)

	// Realtime-канал событий от сервера
	app.realtime = NewRealtimeChannel(cfg, log)

	// Реестр партиций кеша. Входящие события помечают данные своей
	// категории устаревшими, успешный повтор из очереди делает то же
	app.cache = NewCacheRegistry(log)
	for _, eventType := range []string{
		event.TypeNewMessage,
		event.TypeMessageRead,
		event.TypePlanUpdated,
		event.TypeTaskUpdated,
		event.TypeGoalUpdated,
		event.TypeWorkoutFeedback,
		event.TypeMealFeedback,
		event.TypeNotification,
	} {
		app.realtime.On(eventType, func(env event.Envelope) {
			app.cache.Invalidate(eventPartitions(env.Type)...)
		})
	}

	// Восстановление связи запускает обработку накопленной очереди
	// и переподключение realtime-канала
	app.netmon.Subscribe(func(online bool) {
		if !online {
			return
		}
		go func() {
			if err := app.queue.ProcessQueue(context.Background()); err != nil {
				app.log.Error("Ошибка обработки очереди", "error", err)
			}
		}()
		app.realtime.Connect()
	})

	// Загружаем токен если он есть
	if token, err := app.GetToken(); err == nil && token != "" {
		httpCl.SetToken(token)
		app.realtime.SetToken(token)
		app.mu.Lock()
		app.authenticated = true
		app.mu.Unlock()
		log.Debug("Токен загружен из файла")
	}

	return app, nil
}

func (a *App) loadAppState() (*AppState, error) {
	data, ok, err := a.storage.Get(keyState)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &AppState{}, nil
	}

	var state AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}

	return &state, nil
}

func (a *App) saveAppState() error {
	a.state.UpdatedAt = time.Now()

	data, err := json.Marshal(a.state)
	if err != nil {
		return err
	}

	return a.storage.Set(keyState, data)
}

func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	go a.handleSignals()

	a.netmon.Start(ctx)

	if a.IsAuthenticated() {
		a.realtime.Connect()

		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := a.queue.ProcessQueue(ctx); err != nil {
				a.log.Error("Ошибка обработки очереди при запуске", "error", err)
			}
		}()
	}

	a.log.Info("Клиент запущен",
		"server", a.config.ServerAddress,
		"env", a.config.Env,
	)

	<-ctx.Done()
	a.wg.Wait()
	return nil
}

// Queue возвращает сервис очереди отложенных действий
func (a *App) Queue() *QueueService {
	return a.queue
}

// Realtime возвращает realtime-канал событий
func (a *App) Realtime() *RealtimeChannel {
	return a.realtime
}

// Cache возвращает реестр партиций кеша
func (a *App) Cache() *CacheRegistry {
	return a.cache
}

// IsOnline возвращает последнее известное состояние сети
func (a *App) IsOnline() bool {
	return a.netmon.IsOnline()
}

// CheckConnection проверяет соединение с сервером
func (a *App) CheckConnection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := a.httpClient.HealthCheck(ctx)
	a.netmon.SetOnline(err == nil)
	return err
}

func (a *App) handleSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	sig := <-sigChan
	a.log.Info("Получен сигнал завершения", "signal", sig.String())

	if a.cancel != nil {
		a.cancel()
	}
}

func (a *App) Shutdown() {
	a.log.Info("Завершение работы клиента...")

	if a.cancel != nil {
		a.cancel()
	}

	a.realtime.Close()
	a.wg.Wait()

	if err := a.storage.Close(); err != nil {
		a.log.Warn("Ошибка закрытия хранилища", "error", err)
	}

	a.log.Info("Клиент завершил работу")
}

// IsAuthenticated проверяет, аутентифицирован ли пользователь
func (a *App) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.authenticated {
		token, err := a.GetToken()
		if err == nil && token != "" {
			a.authenticated = true
		}
	}

	return a.authenticated
}

// GetToken возвращает сохраненный токен
func (a *App) GetToken() (string, error) {
	tokenBytes, err := os.ReadFile(a.config.TokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("токен не найден. Выполните вход: coachfit auth login")
		}
		return "", fmt.Errorf("ошибка чтения токена: %w", err)
	}
	return string(tokenBytes), nil
}

// SaveToken сохраняет токен аутентификации
func (a *App) SaveToken(token string) error {
	if err := os.WriteFile(a.config.TokenPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}

	a.httpClient.SetToken(token)
	a.realtime.SetToken(token)

	return nil
}

// ClearToken удаляет токен
func (a *App) ClearToken() error {
	a.mu.Lock()
	a.authenticated = false
	a.state.UserID = 0
	a.state.Login = ""

	if err := os.Remove(a.config.TokenPath); err != nil && !os.IsNotExist(err) {
		a.mu.Unlock()
		return fmt.Errorf("ошибка удаления токена: %w", err)
	}

	if err := a.saveAppState(); err != nil {
		a.mu.Unlock()
		return fmt.Errorf("ошибка сохранения состояния: %w", err)
	}
	a.mu.Unlock()

	a.httpClient.SetToken("")
	a.realtime.SetToken("")

	return nil
}

// Register регистрирует нового пользователя
func (a *App) Register(ctx context.Context, req user.BaseRequest) error {
	if err := a.httpClient.Register(ctx, req.Login, req.Password); err != nil {
		return err
	}

	a.log.Info("Пользователь успешно зарегистрирован", "login", req.Login)
	return nil
}

// Login выполняет вход пользователя
func (a *App) Login(ctx context.Context, req user.BaseRequest) (string, error) {
	token, err := a.httpClient.Login(ctx, req.Login, req.Password)
	if err != nil {
		return "", err
	}

	if err = a.SaveToken(token); err != nil {
		return "", fmt.Errorf("ошибка сохранения токена: %w", err)
	}

	a.mu.Lock()
	a.authenticated = true
	a.state.Login = req.Login
	a.state.LastSeen = time.Now()

	if err = a.saveAppState(); err != nil {
		a.log.Warn("Не удалось сохранить состояние", "error", err)
	}
	a.mu.Unlock()

	a.realtime.Connect()

	a.log.Info("Вход выполнен успешно", "login", req.Login)
	return token, nil
}

// Logout завершает сессию: отзывает токен на сервере, закрывает
// realtime-канал и очищает локальную очередь
func (a *App) Logout(ctx context.Context) error {
	if err := a.httpClient.Logout(ctx); err != nil {
		a.log.Warn("Не удалось отозвать сессию на сервере", "error", err)
	}

	a.realtime.Close()

	if err := a.queue.ClearQueue(); err != nil {
		a.log.Warn("Не удалось очистить очередь", "error", err)
	}

	if err := a.ClearToken(); err != nil {
		return err
	}

	a.log.Info("Выход выполнен")
	return nil
}

// ==================== Действия клиента ====================

// LogWorkout записывает тренировку. В офлайне действие откладывается
// в очередь и выполняется при восстановлении связи.
func (a *App) LogWorkout(ctx context.Context, entry WorkoutEntry) (bool, error) {
	if !a.IsAuthenticated() {
		return false, fmt.Errorf("требуется аутентификация. Выполните: coachfit auth login")
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return false, fmt.Errorf("ошибка сериализации данных: %w", err)
	}

	if a.netmon.IsOnline() {
		if err := a.ExecuteAction(ctx, action.Queued{Kind: action.KindWorkout, Verb: action.VerbCreate, Data: data}); err == nil {
			return true, nil
		}
		a.log.Warn("Не удалось отправить тренировку, откладываем в очередь")
		a.netmon.SetOnline(false)
	}

	if _, err := a.queue.Enqueue(action.KindWorkout, action.VerbCreate, data); err != nil {
		return false, err
	}
	return false, nil
}

// UploadMeal откладывает или отправляет фото приема пищи
func (a *App) UploadMeal(ctx context.Context, photo MealPhoto) (bool, error) {
	if !a.IsAuthenticated() {
		return false, fmt.Errorf("требуется аутентификация. Выполните: coachfit auth login")
	}

	data, err := json.Marshal(photo)
	if err != nil {
		return false, fmt.Errorf("ошибка сериализации данных: %w", err)
	}

	if a.netmon.IsOnline() {
		if err := a.ExecuteAction(ctx, action.Queued{Kind: action.KindMeal, Verb: action.VerbUpload, Data: data}); err == nil {
			return true, nil
		}
		a.log.Warn("Не удалось загрузить фото, откладываем в очередь")
		a.netmon.SetOnline(false)
	}

	if _, err := a.queue.Enqueue(action.KindMeal, action.VerbUpload, data); err != nil {
		return false, err
	}
	return false, nil
}

// CompleteTask отмечает задачу плана выполненной
func (a *App) CompleteTask(ctx context.Context, taskID string) (bool, error) {
	if !a.IsAuthenticated() {
		return false, fmt.Errorf("требуется аутентификация. Выполните: coachfit auth login")
	}

	completion := TaskCompletion{
		TaskID:      taskID,
		CompletedAt: time.Now(),
	}
	data, err := json.Marshal(completion)
	if err != nil {
		return false, fmt.Errorf("ошибка сериализации данных: %w", err)
	}

	if a.netmon.IsOnline() {
		if err := a.ExecuteAction(ctx, action.Queued{Kind: action.KindTask, Verb: action.VerbComplete, Data: data}); err == nil {
			return true, nil
		}
		a.log.Warn("Не удалось отметить задачу, откладываем в очередь")
		a.netmon.SetOnline(false)
	}

	if _, err := a.queue.Enqueue(action.KindTask, action.VerbComplete, data); err != nil {
		return false, err
	}
	return false, nil
}

// UpdateGoal обновляет прогресс по цели
func (a *App) UpdateGoal(ctx context.Context, update GoalUpdate) (bool, error) {
	if !a.IsAuthenticated() {
		return false, fmt.Errorf("требуется аутентификация. Выполните: coachfit auth login")
	}

	data, err := json.Marshal(update)
	if err != nil {
		return false, fmt.Errorf("ошибка сериализации данных: %w", err)
	}

	if a.netmon.IsOnline() {
		if err := a.ExecuteAction(ctx, action.Queued{Kind: action.KindGoal, Verb: action.VerbUpdate, Data: data}); err == nil {
			return true, nil
		}
		a.log.Warn("Не удалось обновить цель, откладываем в очередь")
		a.netmon.SetOnline(false)
	}

	if _, err := a.queue.Enqueue(action.KindGoal, action.VerbUpdate, data); err != nil {
		return false, err
	}
	return false, nil
}

// CompleteGoal закрывает цель
func (a *App) CompleteGoal(ctx context.Context, goalID string) (bool, error) {
	if !a.IsAuthenticated() {
		return false, fmt.Errorf("требуется аутентификация. Выполните: coachfit auth login")
	}

	data, err := json.Marshal(GoalUpdate{GoalID: goalID})
	if err != nil {
		return false, fmt.Errorf("ошибка сериализации данных: %w", err)
	}

	if a.netmon.IsOnline() {
		if err := a.ExecuteAction(ctx, action.Queued{Kind: action.KindGoal, Verb: action.VerbComplete, Data: data}); err == nil {
			return true, nil
		}
		a.log.Warn("Не удалось закрыть цель, откладываем в очередь")
		a.netmon.SetOnline(false)
	}

	if _, err := a.queue.Enqueue(action.KindGoal, action.VerbComplete, data); err != nil {
		return false, err
	}
	return false, nil
}

// SendMessage отправляет сообщение тренеру
func (a *App) SendMessage(ctx context.Context, msg ChatMessage) (bool, error) {
	if !a.IsAuthenticated() {
		return false, fmt.Errorf("требуется аутентификация. Выполните: coachfit auth login")
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return false, fmt.Errorf("ошибка сериализации данных: %w", err)
	}

	if a.netmon.IsOnline() {
		if err := a.ExecuteAction(ctx, action.Queued{Kind: action.KindMessage, Verb: action.VerbSend, Data: data}); err == nil {
			return true, nil
		}
		a.log.Warn("Не удалось отправить сообщение, откладываем в очередь")
		a.netmon.SetOnline(false)
	}

	if _, err := a.queue.Enqueue(action.KindMessage, action.VerbSend, data); err != nil {
		return false, err
	}
	return false, nil
}

// GetPlan запрашивает текущий план с задачами и целями
func (a *App) GetPlan(ctx context.Context) (*plan.View, error) {
	return a.httpClient.GetPlan(ctx)
}

// ListWorkouts запрашивает журнал тренировок
func (a *App) ListWorkouts(ctx context.Context, limit int) ([]activity.Workout, error) {
	return a.httpClient.ListWorkouts(ctx, limit)
}

// ListMeals запрашивает журнал питания
func (a *App) ListMeals(ctx context.Context, limit int) ([]activity.Meal, error) {
	return a.httpClient.ListMeals(ctx, limit)
}

// ListMessages запрашивает историю переписки
func (a *App) ListMessages(ctx context.Context, limit int) ([]feed.Message, error) {
	return a.httpClient.ListMessages(ctx, limit)
}

// MarkRead отмечает сообщение прочитанным
func (a *App) MarkRead(ctx context.Context, messageID int) error {
	if err := a.httpClient.MarkRead(ctx, messageID); err != nil {
		return err
	}

	a.cache.Invalidate(CacheMessages)
	return nil
}

// OnEvent подписывается на события realtime-канала
func (a *App) OnEvent(eventType string, fn func(event.Envelope)) *Subscription {
	return a.realtime.On(eventType, fn)
}

// ==================== Диспетчер действий ====================

// ExecuteAction выполняет отложенное действие против сервера.
// Незарегистрированная пара (тип, операция) возвращает ошибку,
// действие не выполняется молча.
func (a *App) ExecuteAction(ctx context.Context, act action.Queued) error {
	var err error

	switch {
	case act.Kind == action.KindWorkout && act.Verb == action.VerbCreate:
		err = a.executeWorkoutCreate(ctx, act.Data)
	case act.Kind == action.KindMeal && act.Verb == action.VerbUpload:
		err = a.executeMealUpload(ctx, act.Data)
	case act.Kind == action.KindTask && act.Verb == action.VerbComplete:
		err = a.executeTaskComplete(ctx, act.Data)
	case act.Kind == action.KindGoal && act.Verb == action.VerbUpdate:
		err = a.executeGoalUpdate(ctx, act.Data)
	case act.Kind == action.KindGoal && act.Verb == action.VerbComplete:
		err = a.executeGoalComplete(ctx, act.Data)
	case act.Kind == action.KindMessage && act.Verb == action.VerbSend:
		err = a.executeMessageSend(ctx, act.Data)
	default:
		return &action.UnknownActionError{Kind: act.Kind, Verb: act.Verb}
	}

	if err != nil {
		return err
	}

	// Выполненное действие делает устаревшими кешированные данные
	// своей категории
	a.cache.Invalidate(actionPartitions(act.Kind, act.Verb)...)
	return nil
}

func (a *App) executeWorkoutCreate(ctx context.Context, data json.RawMessage) error {
	var entry WorkoutEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return fmt.Errorf("ошибка разбора данных тренировки: %w", err)
	}

	var exercises json.RawMessage
	if len(entry.Exercises) > 0 {
		encoded, err := json.Marshal(entry.Exercises)
		if err != nil {
			return fmt.Errorf("ошибка сериализации упражнений: %w", err)
		}
		exercises = encoded
	}

	return a.httpClient.CreateWorkout(ctx, activity.CreateWorkoutRequest{
		PlanDay:     entry.PlanDay,
		Duration:    entry.Duration,
		Exercises:   exercises,
		Notes:       entry.Notes,
		PerformedAt: entry.PerformedAt,
	})
}

func (a *App) executeMealUpload(ctx context.Context, data json.RawMessage) error {
	var photo MealPhoto
	if err := json.Unmarshal(data, &photo); err != nil {
		return fmt.Errorf("ошибка разбора данных фото: %w", err)
	}

	// Файл остается на диске пока действие ждет в очереди,
	// читаем и кодируем его в момент отправки
	raw, err := os.ReadFile(photo.PhotoPath)
	if err != nil {
		return fmt.Errorf("ошибка чтения фото: %w", err)
	}

	return a.httpClient.UploadMeal(ctx, activity.UploadMealRequest{
		Photo:   base64.StdEncoding.EncodeToString(raw),
		Caption: photo.Caption,
		TakenAt: photo.TakenAt,
	})
}

func (a *App) executeTaskComplete(ctx context.Context, data json.RawMessage) error {
	var completion TaskCompletion
	if err := json.Unmarshal(data, &completion); err != nil {
		return fmt.Errorf("ошибка разбора данных задачи: %w", err)
	}

	return a.httpClient.CompleteTask(ctx, completion.TaskID, completion.CompletedAt)
}

func (a *App) executeGoalUpdate(ctx context.Context, data json.RawMessage) error {
	var update GoalUpdate
	if err := json.Unmarshal(data, &update); err != nil {
		return fmt.Errorf("ошибка разбора данных цели: %w", err)
	}

	return a.httpClient.UpdateGoal(ctx, update.GoalID, update.Progress, update.Note)
}

func (a *App) executeGoalComplete(ctx context.Context, data json.RawMessage) error {
	var update GoalUpdate
	if err := json.Unmarshal(data, &update); err != nil {
		return fmt.Errorf("ошибка разбора данных цели: %w", err)
	}

	return a.httpClient.CompleteGoal(ctx, update.GoalID)
}

func (a *App) executeMessageSend(ctx context.Context, data json.RawMessage) error {
	var msg ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("ошибка разбора данных сообщения: %w", err)
	}

	return a.httpClient.SendMessage(ctx, msg.ThreadID, msg.Text)
}
