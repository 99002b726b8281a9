// cmd/client/cmd/meal/meal.go
package meal

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"coachfit/cmd/client/cmd/types"
	"coachfit/internal/app/client"
)

var (
	caption string
	limit   int
)

// MealCmd - родительская команда для журнала питания
var MealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Журнал питания",
	Long:  `Загрузка фото приемов пищи и просмотр журнала.`,
}

var UploadCmd = &cobra.Command{
	Use:   "upload <путь к фото>",
	Short: "Загрузить фото приема пищи",
	Long: `Загружает фото приема пищи на сервер. Без сети загрузка
откладывается в очередь, файл должен оставаться на диске до отправки.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		if _, err := os.Stat(args[0]); err != nil {
			return fmt.Errorf("файл недоступен: %w", err)
		}

		sent, err := app.UploadMeal(cmd.Context(), client.MealPhoto{
			PhotoPath: args[0],
			Caption:   caption,
			TakenAt:   time.Now(),
		})
		if err != nil {
			return fmt.Errorf("ошибка загрузки фото: %w", err)
		}

		if sent {
			fmt.Println("✅ Фото загружено")
		} else {
			fmt.Println("📥 Нет сети, загрузка отложена в очередь")
		}

		return nil
	},
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать журнал питания",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		meals, err := app.ListMeals(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("ошибка получения журнала: %w", err)
		}

		if len(meals) == 0 {
			fmt.Println("Журнал питания пуст")
			return nil
		}

		fmt.Println("=== Журнал питания ===")
		for _, m := range meals {
			fmt.Printf("#%d %s", m.ID, m.TakenAt.Format("02.01.2006 15:04"))
			if m.Caption != "" {
				fmt.Printf(" %s", m.Caption)
			}
			fmt.Println()
		}

		return nil
	},
}

func init() {
	UploadCmd.Flags().StringVarP(&caption, "caption", "c", "", "подпись к фото")
	ListCmd.Flags().IntVarP(&limit, "limit", "l", 20, "максимум записей")

	MealCmd.AddCommand(UploadCmd)
	MealCmd.AddCommand(ListCmd)
}
