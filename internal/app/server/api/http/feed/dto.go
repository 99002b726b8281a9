package feed

import (
	"coachfit/internal/domain/feed"
)

type sendInput struct {
	Body SendRequest
}

type SendRequest struct {
	ThreadID string `json:"threadId,omitempty"`
	Text     string `json:"text"`
}

type sendOutput struct {
	Body MessageResponse
}

type MessageResponse struct {
	Status  string        `json:"status"`
	Message *feed.Message `json:"message,omitempty"`
	Error   string        `json:"error,omitempty"`
}

type markReadInput struct {
	ID int `path:"id" doc:"Идентификатор сообщения"`
}

type markReadOutput struct {
	Body MessageResponse
}

type listInput struct {
	Limit int `query:"limit" example:"50" doc:"Максимум сообщений"`
}

type listOutput struct {
	Body ListResponse
}

type ListResponse struct {
	Status   string         `json:"status"`
	Messages []feed.Message `json:"messages"`
	Total    int            `json:"total"`
	Error    string         `json:"error,omitempty"`
}
