package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"gira-service/internal/core"
	"gira-service/pkg/response"
	"gira-service/pkg/sl"
)

type ClientRemover interface {
	RemoveClient(ctx context.Context, providerID, slotID, clientID string) error
}

func New(log *slog.Logger, remover ClientRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.clients.remove.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		providerID := chi.URLParam(r, "providerId")
		slotID := chi.URLParam(r, "slotId")
		clientID := chi.URLParam(r, "clientId")

		err := remover.RemoveClient(r.Context(), providerID, slotID, clientID)

		if errors.Is(err, core.ErrNotFound) {
			log.Error("Client not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), err.Error()))
			return
		}

		if err != nil {
			log.Error("Failed to remove client", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to remove client"))
			return
		}

		log.Info("Client removed", slog.String("client_id", clientID))

		render.JSON(w, r, response.Response{})
	}
}
