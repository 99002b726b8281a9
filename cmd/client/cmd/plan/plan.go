// cmd/client/cmd/plan/plan.go
package plan

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"coachfit/cmd/client/cmd/types"
	"coachfit/internal/app/client"
)

// PlanCmd показывает текущий план с задачами и целями
var PlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Текущий план тренировок",
	Long:  `Показывает назначенный тренером план, задачи и цели.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		view, err := app.GetPlan(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка получения плана: %w", err)
		}

		if view.Plan == nil {
			fmt.Println("План пока не назначен. Дождитесь тренера.")
			return nil
		}

		bold := color.New(color.Bold)
		green := color.New(color.FgGreen)

		bold.Printf("=== %s ===\n", view.Plan.Title)
		fmt.Printf("Неделя с %s\n", view.Plan.WeekStart.Format("02.01.2006"))
		fmt.Println()

		if len(view.Tasks) > 0 {
			bold.Println("Задачи:")
			for _, task := range view.Tasks {
				mark := "[ ]"
				if task.Done {
					mark = green.Sprint("[x]")
				}
				fmt.Printf("  %s #%d %s", mark, task.ID, task.Title)
				if task.DueDate != nil {
					fmt.Printf(" (до %s)", task.DueDate.Format("02.01.2006"))
				}
				fmt.Println()
			}
			fmt.Println()
		}

		if len(view.Goals) > 0 {
			bold.Println("Цели:")
			for _, goal := range view.Goals {
				mark := "[ ]"
				if goal.Done {
					mark = green.Sprint("[x]")
				}
				fmt.Printf("  %s #%d %s: %.1f из %.1f\n", mark, goal.ID, goal.Title, goal.Progress, goal.Target)
			}
		}

		return nil
	},
}
