// cmd/client/cmd/watch.go
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"coachfit/cmd/client/cmd/types"
	"coachfit/internal/app/client"
	"coachfit/internal/domain/event"
)

// Типы событий, которые печатает watch
var watchedEvents = []string{
	event.TypeNewMessage,
	event.TypeMessageRead,
	event.TypePlanUpdated,
	event.TypeTaskUpdated,
	event.TypeGoalUpdated,
	event.TypeWorkoutFeedback,
	event.TypeMealFeedback,
	event.TypeNotification,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Следить за событиями в реальном времени",
	Long: `Подключается к realtime-каналу и печатает входящие события:
обновления плана, сообщения тренера, запросы чек-ина. Завершение по Ctrl+C.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		if !app.IsAuthenticated() {
			return fmt.Errorf("требуется аутентификация. Выполните: coachfit auth login")
		}

		cyan := color.New(color.FgCyan)

		for _, eventType := range watchedEvents {
			app.OnEvent(eventType, func(env event.Envelope) {
				cyan.Printf("[%s] %s", env.Timestamp.Format("15:04:05"), env.Type)
				if len(env.Data) > 0 {
					compact, err := json.Marshal(json.RawMessage(env.Data))
					if err == nil {
						fmt.Printf(" %s", compact)
					}
				}
				fmt.Println()
			})
		}

		app.Realtime().Connect()

		fmt.Println("Ожидание событий, Ctrl+C для выхода...")

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop

		app.Realtime().Close()
		return nil
	},
}
