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

type AvailabilityToggler interface {
	ToggleSlotAvailability(ctx context.Context, providerID, slotID string) (*api.AvailabilityResponse, error)
}

type Response struct {
	response.Response
	Availability api.AvailabilityResponse `json:"availability,omitempty"`
}

func New(log *slog.Logger, toggler AvailabilityToggler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.slots.toggle.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		providerID := chi.URLParam(r, "providerId")
		slotID := chi.URLParam(r, "slotId")

		availability, err := toggler.ToggleSlotAvailability(r.Context(), providerID, slotID)

		if errors.Is(err, core.ErrNotFound) {
			log.Error("Provider or slot not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), err.Error()))
			return
		}

		if err != nil {
			log.Error("Failed to toggle availability", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to toggle availability"))
			return
		}

		log.Info("Availability toggled",
			slog.String("slot_id", slotID),
			slog.Bool("is_available", availability.IsAvailable),
			slog.Int("cleared_clients", availability.ClearedClients),
		)

		render.JSON(w, r, Response{Availability: *availability})
	}
}
