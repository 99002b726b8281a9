package health

import "time"

type Input struct{}

type Output struct {
	Body Response
}

// Response несет имя сервиса и серверное время: клиент использует его
// для контроля расхождения часов при простановке меток в очереди
type Response struct {
	Status  string    `json:"status" example:"Ok" doc:"Состояние сервиса"`
	Service string    `json:"service" example:"coachfit" doc:"Имя сервиса"`
	Time    time.Time `json:"time" doc:"Серверное время UTC"`
}
