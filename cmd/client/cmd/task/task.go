// cmd/client/cmd/task/task.go
package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"coachfit/cmd/client/cmd/types"
	"coachfit/internal/app/client"
)

// TaskCmd - родительская команда для операций с задачами плана
var TaskCmd = &cobra.Command{
	Use:   "task",
	Short: "Задачи плана",
	Long:  `Отметка выполнения задач, назначенных тренером.`,
}

var CompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Отметить задачу выполненной",
	Long: `Отмечает задачу плана выполненной. Без сети отметка
откладывается в очередь и отправляется при восстановлении связи.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		sent, err := app.CompleteTask(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("ошибка отметки задачи: %w", err)
		}

		if sent {
			fmt.Printf("✅ Задача %s отмечена выполненной\n", args[0])
		} else {
			fmt.Printf("📥 Нет сети, отметка задачи %s отложена в очередь\n", args[0])
		}

		return nil
	},
}

func init() {
	TaskCmd.AddCommand(CompleteCmd)
}
