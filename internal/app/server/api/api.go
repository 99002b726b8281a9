//регистрация, аутентификация и авторизация пользователей;
//текущий план тренировок, задачи и цели клиента;
//журнал тренировок и фото приемов пищи;
//переписка клиента с тренером;
//доставка событий подключенным клиентам по websocket.

//POST  /api/v1/auth/register          # Регистрация (публичный)
//POST  /api/v1/auth/login             # Логин (публичный)
//POST  /api/v1/auth/logout            # Выход (auth)
//GET   /api/v1/plan                   # Текущий план с задачами и целями (auth)
//POST  /api/v1/tasks/{id}/complete    # Отметить задачу выполненной (auth)
//PATCH /api/v1/goals/{id}             # Обновить прогресс цели (auth)
//POST  /api/v1/goals/{id}/complete    # Закрыть цель (auth)
//POST  /api/v1/workouts               # Записать тренировку (auth)
//GET   /api/v1/workouts               # Журнал тренировок (auth)
//POST  /api/v1/meals                  # Загрузить фото еды (auth)
//GET   /api/v1/meals                  # Журнал питания (auth)
//POST  /api/v1/messages               # Сообщение тренеру (auth)
//GET   /api/v1/messages               # История переписки (auth)
//GET   /api/v1/ws                     # Websocket-канал событий (token в query)

package api

import (
	activityAPI "coachfit/internal/app/server/api/http/activity"
	feedAPI "coachfit/internal/app/server/api/http/feed"
	healthAPI "coachfit/internal/app/server/api/http/health"
	"coachfit/internal/app/server/api/http/middleware"
	"coachfit/internal/app/server/api/http/middleware/auth"
	"coachfit/internal/app/server/api/http/middleware/logger"
	planAPI "coachfit/internal/app/server/api/http/plan"
	userAPI "coachfit/internal/app/server/api/http/user"
	"coachfit/internal/app/server/ws"
	"coachfit/internal/domain/activity"
	"coachfit/internal/domain/feed"
	"coachfit/internal/domain/plan"
	"coachfit/internal/domain/session"
	"coachfit/internal/domain/user"
	"coachfit/internal/infrastructure/storage/postgres"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health   *healthAPI.Handler
	User     *userAPI.Handler
	Plan     *planAPI.Handler
	Activity *activityAPI.Handler
	Feed     *feedAPI.Handler
	Hub      *ws.Hub
}

// New создает *chi.Mux с ВСЕМИ операциями через huma.Register
// и websocket-маршрутом поверх того же mux
func New(storage *postgres.Storage, log *slog.Logger) (*chi.Mux, *ws.Hub) {
	mux := chi.NewMux()

	config := huma.DefaultConfig("CoachFit API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(storage, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Plan.SetupRoutes(API)
	h.Activity.SetupRoutes(API)
	h.Feed.SetupRoutes(API)

	mux.Get("/api/v1/ws", h.Hub.Handler())

	return mux, h.Hub
}

func handlers(storage *postgres.Storage, log *slog.Logger) *Handlers {
	sessionRepo := postgres.NewSessionRepository(storage, log)
	sessionService := session.NewService(sessionRepo, log)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	hub := ws.NewHub(sessionService, log)

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	userRepo := postgres.NewUserRepository(storage, log)
	userService := user.NewService(userRepo, log)
	validator := user.NewCredentialsValidator()
	middlewares.Add(loggerMW.Middleware())
	userHandler := userAPI.NewHandler(userService, sessionService, validator, log, middlewares.GetAllAndClear(), huma.Middlewares{authMW.Middleware()})

	planRepo := postgres.NewPlanRepository(storage, log)
	planService := plan.NewService(planRepo, hub, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	planHandler := planAPI.NewHandler(planService, log, middlewares.GetAllAndClear())

	activityRepo := postgres.NewActivityRepository(storage, log)
	activityService := activity.NewService(activityRepo, hub, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	activityHandler := activityAPI.NewHandler(activityService, log, middlewares.GetAllAndClear())

	feedRepo := postgres.NewFeedRepository(storage, log)
	feedService := feed.NewService(feedRepo, hub, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	feedHandler := feedAPI.NewHandler(feedService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:   healthHandler,
		User:     userHandler,
		Plan:     planHandler,
		Activity: activityHandler,
		Feed:     feedHandler,
		Hub:      hub,
	}
}
