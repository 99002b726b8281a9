package activity

import "strings"

// Пороги длительности тренировки в минутах
const (
	shortWorkoutMin = 20
	longWorkoutMax  = 90
)

// workoutFeedback формирует отклик тренера на тренировку по простым
// правилам. Заглушка на месте внешнего анализа, формат отклика тот же.
func workoutFeedback(w *Workout) string {
	switch {
	case w.Duration < shortWorkoutMin:
		return "Короткая тренировка. Постарайтесь довести до 20 минут и больше."
	case w.Duration > longWorkoutMax:
		return "Больше полутора часов. Следите за восстановлением, не перегружайтесь."
	case len(w.Exercises) == 0:
		return "Тренировка засчитана. Добавьте упражнения, чтобы тренер видел нагрузку."
	default:
		return "Хорошая работа! Тренировка засчитана в план."
	}
}

// mealFeedback формирует отклик на прием пищи
func mealFeedback(m *Meal) string {
	caption := strings.ToLower(m.Caption)
	switch {
	case caption == "":
		return "Фото получено. Подпишите блюдо, чтобы отклик был точнее."
	case strings.Contains(caption, "фастфуд") || strings.Contains(caption, "бургер"):
		return "Фастфуд лучше оставить на читмил. Завтра вернемся к плану питания."
	default:
		return "Фото получено, выглядит сбалансированно. Так держать!"
	}
}
