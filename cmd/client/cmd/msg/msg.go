// cmd/client/cmd/msg/msg.go
package msg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"coachfit/cmd/client/cmd/types"
	"coachfit/internal/app/client"
	"coachfit/internal/domain/feed"
)

var (
	threadID string
	limit    int
)

// MsgCmd - родительская команда для переписки с тренером
var MsgCmd = &cobra.Command{
	Use:   "msg",
	Short: "Переписка с тренером",
	Long:  `Отправка сообщений тренеру и просмотр истории.`,
}

var SendCmd = &cobra.Command{
	Use:   "send <текст>",
	Short: "Отправить сообщение",
	Long: `Отправляет сообщение тренеру. Без сети сообщение
откладывается в очередь и уходит при восстановлении связи.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		text := strings.Join(args, " ")
		sent, err := app.SendMessage(cmd.Context(), client.ChatMessage{
			ThreadID: threadID,
			Text:     text,
		})
		if err != nil {
			return fmt.Errorf("ошибка отправки сообщения: %w", err)
		}

		if sent {
			fmt.Println("✅ Сообщение отправлено")
		} else {
			fmt.Println("📥 Нет сети, сообщение отложено в очередь")
		}

		return nil
	},
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать историю переписки",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		messages, err := app.ListMessages(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("ошибка получения истории: %w", err)
		}

		if len(messages) == 0 {
			fmt.Println("Сообщений пока нет")
			return nil
		}

		coach := color.New(color.FgCyan)
		for _, m := range messages {
			prefix := "Вы"
			if m.Sender == feed.SenderCoach {
				prefix = coach.Sprint("Тренер")
			}
			fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Format("02.01 15:04"), prefix, m.Text)
		}

		return nil
	},
}

var ReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Отметить сообщение прочитанным",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		messageID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("некорректный идентификатор сообщения: %s", args[0])
		}

		if err := app.MarkRead(cmd.Context(), messageID); err != nil {
			return fmt.Errorf("ошибка отметки сообщения: %w", err)
		}

		fmt.Println("✅ Сообщение отмечено прочитанным")
		return nil
	},
}

func init() {
	SendCmd.Flags().StringVar(&threadID, "thread", "", "идентификатор треда")
	ListCmd.Flags().IntVarP(&limit, "limit", "l", 50, "максимум сообщений")

	MsgCmd.AddCommand(SendCmd)
	MsgCmd.AddCommand(ListCmd)
	MsgCmd.AddCommand(ReadCmd)
}
