package history

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"gira-service/api"
	"gira-service/pkg/response"
)

type HistoryReader interface {
	History() []api.ArchiveResponse
}

type Response struct {
	response.Response
	Archives []api.ArchiveResponse `json:"archives"`
}

func New(log *slog.Logger, reader HistoryReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.history.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		archives := reader.History()

		log.Info("History read", slog.Int("count", len(archives)))

		render.JSON(w, r, Response{Archives: archives})
	}
}
