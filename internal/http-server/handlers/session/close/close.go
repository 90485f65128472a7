package close

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"gira-service/api"
	"gira-service/pkg/response"
	"gira-service/pkg/sl"
)

type SessionCloser interface {
	CloseSession(ctx context.Context) (*api.ArchiveResponse, error)
}

type Response struct {
	response.Response
	Archive api.ArchiveResponse `json:"archive,omitempty"`
}

func New(log *slog.Logger, closer SessionCloser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.close.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		archive, err := closer.CloseSession(r.Context())
		if err != nil {
			log.Error("Failed to close session", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to close session"))
			return
		}

		log.Info("Session closed",
			slog.String("archive_id", archive.ID),
			slog.Int("total_attended", archive.TotalAttended),
		)

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Archive: *archive})
	}
}
