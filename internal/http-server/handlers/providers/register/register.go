package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"gira-service/api"
	"gira-service/internal/core"
	"gira-service/pkg/response"
	"gira-service/pkg/sl"
)

type ProviderRegistrar interface {
	RegisterProvider(ctx context.Context, req *api.ProviderRequest) (*api.ProviderResponse, error)
}

type Request struct {
	api.ProviderRequest
}

type Response struct {
	response.Response
	Provider api.ProviderResponse `json:"provider,omitempty"`
}

func New(log *slog.Logger, registrar ProviderRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.providers.register.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		if err := validator.New().Struct(req.ProviderRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		provider, err := registrar.RegisterProvider(r.Context(), &req.ProviderRequest)

		if errors.Is(err, core.ErrDuplicate) {
			log.Error("Duplicate slot name", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.DUPLICATE), err.Error()))
			return
		}

		if errors.Is(err, core.ErrValidation) {
			log.Error("Invalid provider", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), err.Error()))
			return
		}

		if err != nil {
			log.Error("Failed to register provider", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to register provider"))
			return
		}

		log.Info("Provider registered", slog.String("provider_id", provider.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Provider: *provider})
	}
}
