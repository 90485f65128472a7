package available

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"gira-service/api"
	"gira-service/pkg/response"
)

type AvailabilityReader interface {
	AvailableProviders(activeCategories []string) []api.ProviderResponse
}

type Response struct {
	response.Response
	Providers []api.ProviderResponse `json:"providers"`
}

func New(log *slog.Logger, reader AvailabilityReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.providers.available.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		categories := splitCategories(r.URL.Query().Get("categories"))

		providers := reader.AvailableProviders(categories)

		log.Info("Available providers read",
			slog.Any("categories", categories),
			slog.Int("count", len(providers)),
		)

		render.JSON(w, r, Response{Providers: providers})
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
