package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/exp/slog"

	"coachfit/internal/app/client/config"
	"coachfit/internal/app/server/api/http/activity"
	"coachfit/internal/app/server/api/http/feed"
	planapi "coachfit/internal/app/server/api/http/plan"
	userapi "coachfit/internal/app/server/api/http/user"
	activitydomain "coachfit/internal/domain/activity"
	feeddomain "coachfit/internal/domain/feed"
	"coachfit/internal/domain/plan"
	"coachfit/internal/domain/user"
)

type httpClient struct {
	client    *http.Client
	config    *config.Config
	log       *slog.Logger
	baseURL   string
	token     string
	userAgent string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) (*httpClient, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			DisableCompression:  false,
			DisableKeepAlives:   false,
			MaxIdleConnsPerHost: 10,
		},
	}

	// Определяем протокол
	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
	}
	baseURL := scheme + cfg.ServerAddress

	return &httpClient{
		client:    client,
		config:    cfg,
		log:       log,
		baseURL:   baseURL,
		userAgent: "CoachFit-Client/1.0",
	}, nil
}

// SetToken устанавливает токен аутентификации
func (h *httpClient) SetToken(token string) {
	h.token = token
}

// HealthCheck проверяет доступность сервера
func (h *httpClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", h.baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("сервер вернул статус: %d", resp.StatusCode)
	}

	return nil
}

func (h *httpClient) Register(ctx context.Context, login, password string) error {
	req := user.BaseRequest{
		Login:    login,
		Password: password,
	}

	resp, err := h.doRequest(ctx, "POST", "/api/v1/auth/register", req)
	if err != nil {
		return err
	}

	var registerResp userapi.RegisterResponse
	if err := h.parseResponse(resp, &registerResp); err != nil {
		return err
	}

	if registerResp.Status == "Error" {
		return fmt.Errorf("ошибка сервера: %s", registerResp.Error)
	}

	return nil
}

func (h *httpClient) Login(ctx context.Context, login, password string) (string, error) {
	req := user.BaseRequest{
		Login:    login,
		Password: password,
	}

	resp, err := h.doRequest(ctx, "POST", "/api/v1/auth/login", req)
	if err != nil {
		return "", err
	}

	var loginResp userapi.LoginResponse
	if err := h.parseResponse(resp, &loginResp); err != nil {
		return "", err
	}

	if loginResp.Status == "Error" {
		return "", fmt.Errorf("ошибка сервера: %s", loginResp.Error)
	}

	h.SetToken(loginResp.Token)
	return loginResp.Token, nil
}

func (h *httpClient) Logout(ctx context.Context) error {
	resp, err := h.doRequest(ctx, "POST", "/api/v1/auth/logout", nil)
	if err != nil {
		return err
	}

	var logoutResp userapi.LogoutResponse
	if err := h.parseResponse(resp, &logoutResp); err != nil {
		return err
	}

	if logoutResp.Status == "Error" {
		return fmt.Errorf("ошибка сервера: %s", logoutResp.Error)
	}

	h.SetToken("")
	return nil
}

// GetPlan запрашивает текущий план с задачами и целями
func (h *httpClient) GetPlan(ctx context.Context) (*plan.View, error) {
	resp, err := h.doRequest(ctx, "GET", "/api/v1/plan", nil)
	if err != nil {
		return nil, err
	}

	var planResp planapi.CurrentResponse
	if err := h.parseResponse(resp, &planResp); err != nil {
		return nil, err
	}

	if planResp.Status == "Error" {
		return nil, fmt.Errorf("ошибка сервера: %s", planResp.Error)
	}

	return &planResp.Plan, nil
}

// CompleteTask отмечает задачу плана выполненной
func (h *httpClient) CompleteTask(ctx context.Context, taskID string, completedAt time.Time) error {
	req := struct {
		CompletedAt time.Time `json:"completedAt,omitempty"`
	}{
		CompletedAt: completedAt,
	}

	resp, err := h.doRequest(ctx, "POST", "/api/v1/tasks/"+taskID+"/complete", req)
	if err != nil {
		return err
	}

	var taskResp planapi.TaskResponse
	if err := h.parseResponse(resp, &taskResp); err != nil {
		return err
	}

	if taskResp.Status == "Error" {
		return fmt.Errorf("ошибка сервера: %s", taskResp.Error)
	}

	return nil
}

// UpdateGoal обновляет прогресс цели
func (h *httpClient) UpdateGoal(ctx context.Context, goalID string, progress float64, note string) error {
	req := struct {
		Progress float64 `json:"progress"`
		Note     string  `json:"note,omitempty"`
	}{
		Progress: progress,
		Note:     note,
	}

	resp, err := h.doRequest(ctx, "PATCH", "/api/v1/goals/"+goalID, req)
	if err != nil {
		return err
	}

	var goalResp planapi.GoalResponse
	if err := h.parseResponse(resp, &goalResp); err != nil {
		return err
	}

	if goalResp.Status == "Error" {
		return fmt.Errorf("ошибка сервера: %s", goalResp.Error)
	}

	return nil
}

// CompleteGoal закрывает цель
func (h *httpClient) CompleteGoal(ctx context.Context, goalID string) error {
	resp, err := h.doRequest(ctx, "POST", "/api/v1/goals/"+goalID+"/complete", nil)
	if err != nil {
		return err
	}

	var goalResp planapi.GoalResponse
	if err := h.parseResponse(resp, &goalResp); err != nil {
		return err
	}

	if goalResp.Status == "Error" {
		return fmt.Errorf("ошибка сервера: %s", goalResp.Error)
	}

	return nil
}

// CreateWorkout записывает тренировку на сервере
func (h *httpClient) CreateWorkout(ctx context.Context, req activitydomain.CreateWorkoutRequest) error {
	resp, err := h.doRequest(ctx, "POST", "/api/v1/workouts", req)
	if err != nil {
		return err
	}

	var workoutResp activity.WorkoutResponse
	if err := h.parseResponse(resp, &workoutResp); err != nil {
		return err
	}

	if workoutResp.Status == "Error" {
		return fmt.Errorf("ошибка сервера: %s", workoutResp.Error)
	}

	return nil
}

// ListWorkouts запрашивает журнал тренировок
func (h *httpClient) ListWorkouts(ctx context.Context, limit int) ([]activitydomain.Workout, error) {
	resp, err := h.doRequest(ctx, "GET", "/api/v1/workouts?limit="+strconv.Itoa(limit), nil)
	if err != nil {
		return nil, err
	}

	var listResp activity.ListWorkoutsResponse
	if err := h.parseResponse(resp, &listResp); err != nil {
		return nil, err
	}

	if listResp.Status == "Error" {
		return nil, fmt.Errorf("ошибка сервера: %s", listResp.Error)
	}

	return listResp.Workouts, nil
}

// UploadMeal загружает фото приема пищи
func (h *httpClient) UploadMeal(ctx context.Context, req activitydomain.UploadMealRequest) error {
	resp, err := h.doRequest(ctx, "POST", "/api/v1/meals", req)
	if err != nil {
		return err
	}

	var mealResp activity.MealResponse
	if err := h.parseResponse(resp, &mealResp); err != nil {
		return err
	}

	if mealResp.Status == "Error" {
		return fmt.Errorf("ошибка сервера: %s", mealResp.Error)
	}

	return nil
}

// ListMeals запрашивает журнал питания
func (h *httpClient) ListMeals(ctx context.Context, limit int) ([]activitydomain.Meal, error) {
	resp, err := h.doRequest(ctx, "GET", "/api/v1/meals?limit="+strconv.Itoa(limit), nil)
	if err != nil {
		return nil, err
	}

	var listResp activity.ListMealsResponse
	if err := h.parseResponse(resp, &listResp); err != nil {
		return nil, err
	}

	if listResp.Status == "Error" {
		return nil, fmt.Errorf("ошибка сервера: %s", listResp.Error)
	}

	return listResp.Meals, nil
}

// SendMessage отправляет сообщение тренеру
func (h *httpClient) SendMessage(ctx context.Context, threadID, text string) error {
	req := feed.SendRequest{
		ThreadID: threadID,
		Text:     text,
	}

	resp, err := h.doRequest(ctx, "POST", "/api/v1/messages", req)
	if err != nil {
		return err
	}

	var msgResp feed.MessageResponse
	if err := h.parseResponse(resp, &msgResp); err != nil {
		return err
	}

	if msgResp.Status == "Error" {
		return fmt.Errorf("ошибка сервера: %s", msgResp.Error)
	}

	return nil
}

// MarkRead отмечает сообщение прочитанным
func (h *httpClient) MarkRead(ctx context.Context, messageID int) error {
	resp, err := h.doRequest(ctx, "POST", "/api/v1/messages/"+strconv.Itoa(messageID)+"/read", nil)
	if err != nil {
		return err
	}

	var msgResp feed.MessageResponse
	if err := h.parseResponse(resp, &msgResp); err != nil {
		return err
	}

	if msgResp.Status == "Error" {
		return fmt.Errorf("ошибка сервера: %s", msgResp.Error)
	}

	return nil
}

// ListMessages запрашивает историю переписки
func (h *httpClient) ListMessages(ctx context.Context, limit int) ([]feeddomain.Message, error) {
	resp, err := h.doRequest(ctx, "GET", "/api/v1/messages?limit="+strconv.Itoa(limit), nil)
	if err != nil {
		return nil, err
	}

	var listResp feed.ListResponse
	if err := h.parseResponse(resp, &listResp); err != nil {
		return nil, err
	}

	if listResp.Status == "Error" {
		return nil, fmt.Errorf("ошибка сервера: %s", listResp.Error)
	}

	return listResp.Messages, nil
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	// Добавляем заголовки
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	h.log.Debug("Получен ответ",
		"status", resp.StatusCode,
		"body", string(body),
	)

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil {
			if errResp.Error != "" {
				return fmt.Errorf("ошибка сервера: %s", errResp.Error)
			}
			if errResp.Detail != "" {
				return fmt.Errorf("ошибка сервера: %s", errResp.Detail)
			}
		}
		return fmt.Errorf("ошибка сервера: статус %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}

	return nil
}
