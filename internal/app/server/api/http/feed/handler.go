package feed

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"coachfit/internal/app/server/api/http/middleware/auth"
	"coachfit/internal/domain/feed"
)

type Handler struct {
	service    feed.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service feed.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.sendOp(), h.send)
	huma.Register(api, h.markReadOp(), h.markRead)
	huma.Register(api, h.listOp(), h.list)
}

func (h *Handler) send(ctx context.Context, input *sendInput) (*sendOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return &sendOutput{Body: MessageResponse{Status: "Error", Error: "Unauthorized"}}, nil
	}

	msg, err := h.service.Send(ctx, userID, input.Body.ThreadID, feed.SenderClient, input.Body.Text)
	if err != nil {
		return &sendOutput{Body: MessageResponse{Status: "Error", Error: err.Error()}}, nil
	}

	return &sendOutput{Body: MessageResponse{Status: "Ok", Message: msg}}, nil
}

func (h *Handler) markRead(ctx context.Context, input *markReadInput) (*markReadOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return &markReadOutput{Body: MessageResponse{Status: "Error", Error: "Unauthorized"}}, nil
	}

	msg, err := h.service.MarkRead(ctx, userID, input.ID)
	if err != nil {
		return &markReadOutput{Body: MessageResponse{Status: "Error", Error: err.Error()}}, nil
	}

	return &markReadOutput{Body: MessageResponse{Status: "Ok", Message: msg}}, nil
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return &listOutput{Body: ListResponse{Status: "Error", Error: "Unauthorized"}}, nil
	}

	messages, err := h.service.List(ctx, userID, input.Limit)
	if err != nil {
		return &listOutput{Body: ListResponse{Status: "Error", Error: err.Error()}}, nil
	}

	return &listOutput{Body: ListResponse{
		Status:   "Ok",
		Messages: messages,
		Total:    len(messages),
	}}, nil
}
