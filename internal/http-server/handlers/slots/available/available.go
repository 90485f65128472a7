package available

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"gira-service/api"
	"gira-service/internal/core"
	"gira-service/pkg/response"
	"gira-service/pkg/sl"
)

type SlotReader interface {
	AvailableSlots(providerID string, activeCategories []string) ([]api.SlotResponse, error)
}

type Response struct {
	response.Response
	Slots []api.SlotResponse `json:"slots"`
}

func New(log *slog.Logger, reader SlotReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.slots.available.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		providerID := chi.URLParam(r, "providerId")
		categories := splitCategories(r.URL.Query().Get("categories"))

		slots, err := reader.AvailableSlots(providerID, categories)

		if errors.Is(err, core.ErrNotFound) {
			log.Error("Provider not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), err.Error()))
			return
		}

		if err != nil {
			log.Error("Failed to read slots", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to read slots"))
			return
		}

		log.Info("Available slots read",
			slog.String("provider_id", providerID),
			slog.Int("count", len(slots)),
		)

		render.JSON(w, r, Response{Slots: slots})
	}
}

func splitCategories(raw string) []string {
	var out []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
