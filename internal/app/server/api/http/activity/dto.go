package activity

import (
	"coachfit/internal/domain/activity"
)

type createWorkoutInput struct {
	Body activity.CreateWorkoutRequest
}

type workoutOutput struct {
	Body WorkoutResponse
}

type WorkoutResponse struct {
	Status  string            `json:"status"`
	Workout *activity.Workout `json:"workout,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type listWorkoutsInput struct {
	Limit int `query:"limit" example:"20" doc:"Максимум записей"`
}

type listWorkoutsOutput struct {
	Body ListWorkoutsResponse
}

type ListWorkoutsResponse struct {
	Status   string             `json:"status"`
	Workouts []activity.Workout `json:"workouts"`
	Total    int                `json:"total"`
	Error    string             `json:"error,omitempty"`
}

type uploadMealInput struct {
	Body activity.UploadMealRequest
}

type mealOutput struct {
	Body MealResponse
}

type MealResponse struct {
	Status string         `json:"status"`
	Meal   *activity.Meal `json:"meal,omitempty"`
	Error  string         `json:"error,omitempty"`
}

type listMealsInput struct {
	Limit int `query:"limit" example:"20" doc:"Максимум записей"`
}

type listMealsOutput struct {
	Body ListMealsResponse
}

type ListMealsResponse struct {
	Status string          `json:"status"`
	Meals  []activity.Meal `json:"meals"`
	Total  int             `json:"total"`
	Error  string          `json:"error,omitempty"`
}
