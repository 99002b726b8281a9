// cmd/client/cmd/init.go
package cmd

import (
	"coachfit/cmd/client/cmd/auth"
	"coachfit/cmd/client/cmd/goal"
	"coachfit/cmd/client/cmd/meal"
	"coachfit/cmd/client/cmd/msg"
	"coachfit/cmd/client/cmd/plan"
	"coachfit/cmd/client/cmd/queue"
	"coachfit/cmd/client/cmd/task"
	"coachfit/cmd/client/cmd/workout"
)

func init() {
	// Команды аутентификации
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)

	// План, задачи и цели
	rootCmd.AddCommand(plan.PlanCmd)
	rootCmd.AddCommand(task.TaskCmd)
	rootCmd.AddCommand(goal.GoalCmd)

	// Журналы тренировок и питания
	rootCmd.AddCommand(workout.WorkoutCmd)
	rootCmd.AddCommand(meal.MealCmd)

	// Переписка с тренером
	rootCmd.AddCommand(msg.MsgCmd)

	// Очередь отложенных действий и наблюдение за событиями
	rootCmd.AddCommand(queue.QueueCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statusCmd)
}
