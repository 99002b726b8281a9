// cmd/client/cmd/auth/logout.go
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"coachfit/cmd/client/cmd/types"
	"coachfit/internal/app/client"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти из системы",
	Long: `Завершение сессии: отзыв токена на сервере, закрытие
realtime-канала и очистка локальной очереди действий.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		if !app.IsAuthenticated() {
			fmt.Println("Вы не авторизованы")
			return nil
		}

		stats, err := app.Queue().Stats()
		if err == nil && stats.Pending > 0 {
			fmt.Printf("⚠️  В очереди %d неотправленных действий, они будут удалены\n", stats.Pending)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.Logout(ctx); err != nil {
			return fmt.Errorf("ошибка выхода: %w", err)
		}

		fmt.Println("✅ Выход выполнен")
		return nil
	},
}
