// cmd/client/cmd/queue/queue.go
package queue

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"coachfit/cmd/client/cmd/types"
	"coachfit/internal/app/client"
)

var clearFailed bool

// QueueCmd - родительская команда для очереди отложенных действий
var QueueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Очередь отложенных действий",
	Long: `Просмотр и управление очередью действий, накопленных
в офлайне. Очередь отправляется автоматически при восстановлении
связи, команда process запускает отправку вручную.`,
}

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Показать содержимое очереди",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		pending, err := app.Queue().GetQueue()
		if err != nil {
			return fmt.Errorf("ошибка чтения очереди: %w", err)
		}

		bold := color.New(color.Bold)
		yellow := color.New(color.FgYellow)
		red := color.New(color.FgRed)

		bold.Println("=== Очередь отложенных действий ===")
		if len(pending) == 0 {
			fmt.Println("Очередь пуста")
		}
		for i, act := range pending {
			fmt.Printf("%d. %s/%s от %s", i+1, act.Kind, act.Verb, act.Timestamp.Format("02.01 15:04:05"))
			if act.RetryCount > 0 {
				yellow.Printf(" (попыток: %d)", act.RetryCount)
			}
			fmt.Println()
		}

		failed, err := app.Queue().FailedActions()
		if err != nil {
			return fmt.Errorf("ошибка чтения журнала отказов: %w", err)
		}
		if len(failed) > 0 {
			fmt.Println()
			red.Println("Отброшенные действия:")
			for _, f := range failed {
				fmt.Printf("  %s/%s: %s\n", f.Action.Kind, f.Action.Verb, f.Reason)
			}
		}

		return nil
	},
}

var ProcessCmd = &cobra.Command{
	Use:   "process",
	Short: "Отправить очередь вручную",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		if err := app.CheckConnection(); err != nil {
			return fmt.Errorf("сервер недоступен: %w", err)
		}

		stats, err := app.Queue().Stats()
		if err != nil {
			return fmt.Errorf("ошибка чтения очереди: %w", err)
		}
		if stats.Pending == 0 {
			fmt.Println("Очередь пуста")
			return nil
		}

		fmt.Printf("Отправка %d действий...\n", stats.Pending)
		if err := app.Queue().ProcessQueue(cmd.Context()); err != nil {
			return fmt.Errorf("ошибка обработки очереди: %w", err)
		}

		stats, err = app.Queue().Stats()
		if err != nil {
			return fmt.Errorf("ошибка чтения очереди: %w", err)
		}

		if stats.Pending == 0 {
			fmt.Println("✅ Очередь обработана")
		} else {
			fmt.Printf("⚠️  В очереди осталось %d действий\n", stats.Pending)
		}

		return nil
	},
}

var ClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Очистить очередь",
	Long:  `Удаляет все отложенные действия. Операция необратима.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		if clearFailed {
			if err := app.Queue().ClearFailed(); err != nil {
				return fmt.Errorf("ошибка очистки журнала отказов: %w", err)
			}
			fmt.Println("✅ Журнал отказов очищен")
			return nil
		}

		if err := app.Queue().ClearQueue(); err != nil {
			return fmt.Errorf("ошибка очистки очереди: %w", err)
		}

		fmt.Println("✅ Очередь очищена")
		return nil
	},
}

func init() {
	ClearCmd.Flags().BoolVar(&clearFailed, "failed", false, "очистить журнал отказов вместо очереди")

	QueueCmd.AddCommand(StatusCmd)
	QueueCmd.AddCommand(ProcessCmd)
	QueueCmd.AddCommand(ClearCmd)
}
