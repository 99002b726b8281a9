// cmd/client/cmd/auth/login.go
package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"coachfit/cmd/client/cmd/types"
	"coachfit/internal/app/client"
	"coachfit/internal/domain/user"
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти в систему CoachFit",
	Long: `Аутентификация на сервере CoachFit.

После входа токен сохраняется локально для последующих операций,
открывается realtime-канал событий и отправляются действия,
накопленные в офлайн-очереди.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		fmt.Println("=== Вход в систему ===")
		fmt.Println()

		// Запрашиваем логин
		fmt.Print("Login: ")
		var login string
		_, _ = fmt.Scanln(&login)

		// Запрашиваем пароль
		fmt.Print("Пароль: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения пароля: %w", err)
		}
		fmt.Println()

		// Выполняем вход
		fmt.Println("Аутентификация...")
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		_, err = app.Login(ctx, user.BaseRequest{
			Login:    login,
			Password: string(password),
		})
		if err != nil {
			return fmt.Errorf("ошибка аутентификации: %w", err)
		}

		fmt.Println()
		fmt.Println("✅ Вход выполнен успешно!")

		// Отправляем отложенные действия если они накопились
		stats, err := app.Queue().Stats()
		if err == nil && stats.Pending > 0 {
			fmt.Printf("Отправка отложенных действий (%d)...\n", stats.Pending)
			if err := app.Queue().ProcessQueue(ctx); err != nil {
				fmt.Printf("⚠️  Предупреждение: ошибка обработки очереди: %v\n", err)
			} else {
				fmt.Println("✓ Очередь обработана")
			}
		}

		return nil
	},
}
