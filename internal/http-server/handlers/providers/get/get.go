package get

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"gira-service/api"
	"gira-service/pkg/response"
)

type RosterReader interface {
	Roster() []api.ProviderResponse
}

type Response struct {
	response.Response
	Providers []api.ProviderResponse `json:"providers"`
}

func New(log *slog.Logger, reader RosterReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.providers.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		providers := reader.Roster()

		log.Info("Roster read", slog.Int("count", len(providers)))

		render.JSON(w, r, Response{Providers: providers})
	}
}
