package assign

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

type ClientAssigner interface {
	AssignClient(ctx context.Context, providerID, slotID string, req *api.AssignRequest) (*api.ClientResponse, error)
}

type Request struct {
	api.AssignRequest
}

type Response struct {
	response.Response
	Client api.ClientResponse `json:"client,omitempty"`
}

func New(log *slog.Logger, assigner ClientAssigner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.clients.assign.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		providerID := chi.URLParam(r, "providerId")
		slotID := chi.URLParam(r, "slotId")

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		if err := validator.New().Struct(req.AssignRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		client, err := assigner.AssignClient(r.Context(), providerID, slotID, &req.AssignRequest)

		if errors.Is(err, core.ErrNotFound) {
			log.Error("Provider or slot not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), err.Error()))
			return
		}

		if errors.Is(err, core.ErrCapacity) {
			log.Error("Assignment blocked", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CAPACITY_BLOCKED), err.Error()))
			return
		}

		if errors.Is(err, core.ErrValidation) {
			log.Error("Invalid client", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), err.Error()))
			return
		}

		if err != nil {
			log.Error("Failed to assign client", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to assign client"))
			return
		}

		log.Info("Client assigned", slog.String("client_id", client.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Client: *client})
	}
}
