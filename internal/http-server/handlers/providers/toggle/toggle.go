package toggle

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"gira-service/api"
	"gira-service/internal/core"
	"gira-service/pkg/response"
	"gira-service/pkg/sl"
)

type PresenceToggler interface {
	TogglePresence(ctx context.Context, providerID string) (*api.PresenceResponse, error)
}

type Response struct {
	response.Response
	Presence api.PresenceResponse `json:"presence,omitempty"`
}

func New(log *slog.Logger, toggler PresenceToggler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.providers.toggle.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		providerID := chi.URLParam(r, "providerId")

		presence, err := toggler.TogglePresence(r.Context(), providerID)

		if errors.Is(err, core.ErrNotFound) {
			log.Error("Provider not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), err.Error()))
			return
		}

		if err != nil {
			log.Error("Failed to toggle presence", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to toggle presence"))
			return
		}

		log.Info("Presence toggled",
			slog.String("provider_id", providerID),
			slog.Bool("is_present", presence.IsPresent),
			slog.Int("cleared_clients", presence.ClearedClients),
		)

		render.JSON(w, r, Response{Presence: *presence})
	}
}
