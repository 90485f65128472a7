package edit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"gira-service/api"
	"gira-service/internal/core"
	"gira-service/pkg/response"
	"gira-service/pkg/sl"
)

type ProviderEditor interface {
	EditProvider(ctx context.Context, providerID string, req *api.ProviderEditRequest) (*api.ProviderResponse, error)
}

type Request struct {
	api.ProviderEditRequest
}

type Response struct {
	response.Response
	Provider api.ProviderResponse `json:"provider,omitempty"`
}

func New(log *slog.Logger, editor ProviderEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.providers.edit.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		providerID := chi.URLParam(r, "providerId")

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		if err := validator.New().Struct(req.ProviderEditRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		provider, err := editor.EditProvider(r.Context(), providerID, &req.ProviderEditRequest)

		if errors.Is(err, core.ErrNotFound) {
			log.Error("Provider not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), err.Error()))
			return
		}

		if errors.Is(err, core.ErrConflict) {
			log.Error("Edit would orphan clients", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFLICT), err.Error()))
			return
		}

		if errors.Is(err, core.ErrCapacity) {
			log.Error("Capacity below occupancy", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CAPACITY_BLOCKED), err.Error()))
			return
		}

		if errors.Is(err, core.ErrDuplicate) {
			log.Error("Duplicate slot name", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.DUPLICATE), err.Error()))
			return
		}

		if errors.Is(err, core.ErrValidation) {
			log.Error("Invalid edit", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), err.Error()))
			return
		}

		if err != nil {
			log.Error("Failed to edit provider", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to edit provider"))
			return
		}

		log.Info("Provider edited", slog.String("provider_id", provider.ID))

		render.JSON(w, r, Response{Provider: *provider})
	}
}
