package rename

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

type ClientRenamer interface {
	RenameClient(ctx context.Context, providerID, slotID, clientID string, req *api.RenameRequest) error
}

type Request struct {
	api.RenameRequest
}

func New(log *slog.Logger, renamer ClientRenamer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.clients.rename.New"

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

		if err := validator.New().Struct(req.RenameRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		err := renamer.RenameClient(r.Context(), providerID, slotID, clientID, &req.RenameRequest)

		if errors.Is(err, core.ErrNotFound) {
			log.Error("Client not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), err.Error()))
			return
		}

		if errors.Is(err, core.ErrValidation) {
			log.Error("Invalid name", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), err.Error()))
			return
		}

		if err != nil {
			log.Error("Failed to rename client", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to rename client"))
			return
		}

		log.Info("Client renamed", slog.String("client_id", clientID))

		render.JSON(w, r, response.Response{})
	}
}
