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

type ProviderRemover interface {
	RemoveProvider(ctx context.Context, providerID string) error
}

func New(log *slog.Logger, remover ProviderRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.providers.remove.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		providerID := chi.URLParam(r, "providerId")

		err := remover.RemoveProvider(r.Context(), providerID)

		if errors.Is(err, core.ErrNotFound) {
			log.Error("Provider not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), err.Error()))
			return
		}

		if err != nil {
			log.Error("Failed to remove provider", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to remove provider"))
			return
		}

		log.Info("Provider removed", slog.String("provider_id", providerID))

		render.JSON(w, r, response.Response{})
	}
}
