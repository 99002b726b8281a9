// cmd/client/cmd/goal/goal.go
package goal

import (
	"fmt"

	"github.com/spf13/cobra"

	"coachfit/cmd/client/cmd/types"
	"coachfit/internal/app/client"
)

var (
	progress float64
	note     string
)

// GoalCmd - родительская команда для операций с целями
var GoalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Цели",
	Long:  `Обновление прогресса и закрытие целей.`,
}

var UpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Обновить прогресс цели",
	Long: `Записывает текущий прогресс по цели. Без сети обновление
откладывается в очередь.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		sent, err := app.UpdateGoal(cmd.Context(), client.GoalUpdate{
			GoalID:   args[0],
			Progress: progress,
			Note:     note,
		})
		if err != nil {
			return fmt.Errorf("ошибка обновления цели: %w", err)
		}

		if sent {
			fmt.Printf("✅ Прогресс цели %s обновлен\n", args[0])
		} else {
			fmt.Printf("📥 Нет сети, обновление цели %s отложено в очередь\n", args[0])
		}

		return nil
	},
}

var CompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Закрыть цель",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		sent, err := app.CompleteGoal(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("ошибка закрытия цели: %w", err)
		}

		if sent {
			fmt.Printf("✅ Цель %s закрыта\n", args[0])
		} else {
			fmt.Printf("📥 Нет сети, закрытие цели %s отложено в очередь\n", args[0])
		}

		return nil
	},
}

func init() {
	UpdateCmd.Flags().Float64VarP(&progress, "progress", "p", 0, "текущее значение прогресса")
	UpdateCmd.Flags().StringVarP(&note, "note", "n", "", "комментарий к прогрессу")
	_ = UpdateCmd.MarkFlagRequired("progress")

	GoalCmd.AddCommand(UpdateCmd)
	GoalCmd.AddCommand(CompleteCmd)
}
