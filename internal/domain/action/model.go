package action

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Kind домен действия
type Kind string

// Verb операция над доменом
type Verb string

const (
	KindWorkout Kind = "workout"
	KindMeal    Kind = "meal"
	KindTask    Kind = "task"
	KindGoal    Kind = "goal"
	KindMessage Kind = "message"
)

const (
	VerbCreate   Verb = "create"
	VerbUpload   Verb = "upload"
	VerbComplete Verb = "complete"
	VerbUpdate   Verb = "update"
	VerbSend     Verb = "send"
)

// MaxRetries максимальное число повторных попыток перед окончательным отказом
const MaxRetries = 3

// dispatchTable закрытая таблица допустимых пар (домен, операция).
// Новый тип действия регистрируется здесь и получает обработчик в диспетчере,
// иначе Validate вернет ErrUnknownAction.
var dispatchTable = map[Kind][]Verb{
	KindWorkout: {VerbCreate},
	KindMeal:    {VerbUpload},
	KindTask:    {VerbComplete},
	KindGoal:    {VerbUpdate, VerbComplete},
	KindMessage: {VerbSend},
}

// Queued отложенное действие в очереди
type Queued struct {
	ID         string          `json:"id"`
	Kind       Kind            `json:"type"`
	Verb       Verb            `json:"action"`
	Data       json.RawMessage `json:"data"`
	Timestamp  time.Time       `json:"timestamp"`
	RetryCount int             `json:"retryCount"`
}

// Failed действие, окончательно удаленное из очереди после исчерпания попыток
type Failed struct {
	Action   Queued    `json:"action"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}

// New создает новое действие с уникальным идентификатором и текущим временем
func New(kind Kind, verb Verb, data json.RawMessage) Queued {
	return Queued{
		ID:        uuid.NewString(),
		Kind:      kind,
		Verb:      verb,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// WithRetry возвращает копию действия с увеличенным счетчиком попыток.
// Исходная запись не изменяется.
func (q Queued) WithRetry() Queued {
	next := q
	next.RetryCount++
	return next
}

// Exhausted сообщает, исчерпаны ли попытки выполнения
func (q Queued) Exhausted() bool {
	return q.RetryCount >= MaxRetries
}

// Validate проверяет, что пара (домен, операция) зарегистрирована
func Validate(kind Kind, verb Verb) error {
	verbs, ok := dispatchTable[kind]
	if !ok {
		return &UnknownActionError{Kind: kind, Verb: verb}
	}
	for _, v := range verbs {
		if v == verb {
			return nil
		}
	}
	return &UnknownActionError{Kind: kind, Verb: verb}
}

// Kinds возвращает все зарегистрированные домены действий
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(dispatchTable))
	for k := range dispatchTable {
		kinds = append(kinds, k)
	}
	return kinds
}
