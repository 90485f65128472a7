package status

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

type StatusSetter interface {
	SetClientStatus(ctx context.Context, providerID, slotID, clientID string, status string) (*api.ClientResponse, error)
}

type Request struct {
	api.StatusRequest
}

type Response struct {
	response.Response
	Client api.ClientResponse `json:"client,omitempty"`
}

func New(log *slog.Logger, setter StatusSetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.clients.status.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		providerID := chi.URLParam(r, "providerId")
		slotID := chi.URLParam(r, "slotId")
		clientID := chi.URLParam(r, "clientId")

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		if err := validator.New().Struct(req.StatusRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		client, err := setter.SetClientStatus(r.Context(), providerID, slotID, clientID, req.Status)

		if errors.Is(err, core.ErrNotFound) {
			log.Error("Client not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), err.Error()))
			return
		}

		if errors.Is(err, core.ErrValidation) {
			log.Error("Unknown status", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), err.Error()))
			return
		}

		if err != nil {
			log.Error("Failed to set status", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to set status"))
			return
		}

		log.Info("Status set",
			slog.String("client_id", clientID),
			slog.String("status", client.Status),
		)

		render.JSON(w, r, Response{Client: *client})
	}
}
