package user

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"coachfit/internal/app/server/api/http/middleware/auth"
	"coachfit/internal/domain/session"
	"coachfit/internal/domain/user"
)

type Handler struct {
	service    user.Servicer
	session    session.Servicer
	validator  user.Validator
	log        *slog.Logger
	middleware huma.Middlewares
	authMW     huma.Middlewares
}

func NewHandler(service user.Servicer, session session.Servicer, validator user.Validator, log *slog.Logger, middleware, authMW huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		session:    session,
		validator:  validator,
		log:        log,
		middleware: middleware,
		authMW:     authMW,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.registerOp(), h.register)
	huma.Register(api, h.loginOp(), h.login)
	huma.Register(api, h.logoutOp(), h.logout)
}

func (h *Handler) register(ctx context.Context, input *registerInput) (*registerOutput, error) {
	if err := h.validator.ValidateRegister(input.Body.Login, input.Body.Password); err != nil {
		return &registerOutput{
			Body: RegisterResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	userID, err := h.service.Register(ctx, input.Body.Login, input.Body.Password)
	if err != nil {
		return &registerOutput{
			Body: RegisterResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &registerOutput{
		Body: RegisterResponse{ID: userID, Status: "Ok"},
	}, nil
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	u, err := h.service.Authenticate(ctx, input.Body.Login, input.Body.Password)
	if err != nil {
		return &loginOutput{
			Body: LoginResponse{
				Status: "Error",
				Error:  "Invalid credentials",
			},
		}, nil
	}

	token, err := h.session.Create(ctx, u.ID)
	if err != nil {
		h.log.Error("failed to create session", "user_id", u.ID, "error", err)
		return &loginOutput{
			Body: LoginResponse{
				Status: "Error",
				Error:  "Session creation failed",
			},
		}, nil
	}

	return &loginOutput{
		Body: LoginResponse{
			UserID: u.ID,
			Token:  token,
			Status: "Ok",
		},
	}, nil
}

func (h *Handler) logout(ctx context.Context, _ *logoutInput) (*logoutOutput, error) {
	token, ok := auth.GetToken(ctx)
	if !ok {
		return &logoutOutput{
			Body: LogoutResponse{Status: "Error", Error: "Unauthorized"},
		}, nil
	}

	if err := h.session.Revoke(ctx, token); err != nil {
		h.log.Error("failed to revoke session", "error", err)
		return &logoutOutput{
			Body: LogoutResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &logoutOutput{
		Body: LogoutResponse{Status: "Ok"},
	}, nil
}
