// cmd/client/cmd/workout/workout.go
package workout

import (
	"fmt"

	"github.com/spf13/cobra"

	"coachfit/cmd/client/cmd/types"
	"coachfit/internal/app/client"
)

var (
	planDay  string
	duration int
	notes    string
	limit    int
)

// WorkoutCmd - родительская команда для журнала тренировок
var WorkoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Журнал тренировок",
	Long:  `Запись выполненных тренировок и просмотр журнала.`,
}

var LogCmd = &cobra.Command{
	Use:   "log",
	Short: "Записать тренировку",
	Long: `Записывает выполненную тренировку. Без сети запись
откладывается в очередь и отправляется при восстановлении связи.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		if duration <= 0 {
			return fmt.Errorf("длительность должна быть положительной")
		}

		sent, err := app.LogWorkout(cmd.Context(), client.WorkoutEntry{
			PlanDay:  planDay,
			Duration: duration,
			Notes:    notes,
		})
		if err != nil {
			return fmt.Errorf("ошибка записи тренировки: %w", err)
		}

		if sent {
			fmt.Println("✅ Тренировка записана")
		} else {
			fmt.Println("📥 Нет сети, тренировка отложена в очередь")
		}

		return nil
	},
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать журнал тренировок",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		workouts, err := app.ListWorkouts(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("ошибка получения журнала: %w", err)
		}

		if len(workouts) == 0 {
			fmt.Println("Журнал тренировок пуст")
			return nil
		}

		fmt.Println("=== Журнал тренировок ===")
		for _, w := range workouts {
			fmt.Printf("#%d %s, %d мин", w.ID, w.PerformedAt.Format("02.01.2006 15:04"), w.Duration)
			if w.PlanDay != "" {
				fmt.Printf(" (день плана: %s)", w.PlanDay)
			}
			if w.Notes != "" {
				fmt.Printf("\n    %s", w.Notes)
			}
			fmt.Println()
		}

		return nil
	},
}

func init() {
	LogCmd.Flags().StringVarP(&planDay, "day", "d", "", "день плана")
	LogCmd.Flags().IntVarP(&duration, "duration", "t", 0, "длительность в минутах")
	LogCmd.Flags().StringVarP(&notes, "notes", "n", "", "заметки")
	_ = LogCmd.MarkFlagRequired("duration")

	ListCmd.Flags().IntVarP(&limit, "limit", "l", 20, "максимум записей")

	WorkoutCmd.AddCommand(LogCmd)
	WorkoutCmd.AddCommand(ListCmd)
}
