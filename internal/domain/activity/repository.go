package activity

import "context"

type Repository interface {
	CreateWorkout(ctx context.Context, workout *Workout) (int, error)
	ListWorkouts(ctx context.Context, userID, limit int) ([]Workout, error)

	CreateMeal(ctx context.Context, meal *Meal) (int, error)
	ListMeals(ctx context.Context, userID, limit int) ([]Meal, error)
}
