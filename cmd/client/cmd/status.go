// cmd/client/cmd/status.go
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"coachfit/cmd/client/cmd/types"
	"coachfit/internal/app/client"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Состояние клиента",
	Long:  `Показывает соединение с сервером, аутентификацию и очередь.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		green := color.New(color.FgGreen)
		red := color.New(color.FgRed)

		fmt.Println("=== Состояние CoachFit ===")

		fmt.Print("Сервер: ")
		if err := app.CheckConnection(); err != nil {
			red.Printf("недоступен (%v)\n", err)
		} else {
			green.Println("доступен")
		}

		fmt.Print("Аутентификация: ")
		if app.IsAuthenticated() {
			green.Println("выполнена")
		} else {
			red.Println("требуется вход")
		}

		fmt.Printf("Realtime-канал: %s\n", app.Realtime().State())

		stats, err := app.Queue().Stats()
		if err != nil {
			return fmt.Errorf("ошибка чтения очереди: %w", err)
		}
		fmt.Printf("Очередь: %d отложенных", stats.Pending)
		if stats.OldestSince != nil {
			fmt.Printf(" (старейшее от %s)", stats.OldestSince.Format("02.01 15:04"))
		}
		fmt.Println()
		if stats.Failed > 0 {
			red.Printf("Отброшено действий: %d\n", stats.Failed)
		}

		return nil
	},
}
