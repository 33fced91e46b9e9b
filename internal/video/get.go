package video

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/viewtube/viewtube/internal/httputil"
)

// Get resolves a video identifier to its playback URL. The full record
// stays private; only the URL is returned.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	videoID, ok := videoIDParam(r)
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "video not found")
		return
	}

	var videoURL string
	err := h.db.QueryRow(r.Context(),
		`SELECT video_url FROM videos WHERE id = $1`,
		videoID,
	).Scan(&videoURL)
	if errors.Is(err, pgx.ErrNoRows) {
		httputil.WriteError(w, http.StatusNotFound, "video does not exist")
		return
	}
	if err != nil {
		slog.Error("video: failed to fetch video", "video_id", videoID, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch video")
		return
	}

	h.recordView(r, videoID)

	httputil.WriteSuccess(w, http.StatusOK, map[string]string{"video": videoURL}, "Video fetched successfully")
}
