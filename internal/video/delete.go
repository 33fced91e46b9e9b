package video

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/viewtube/viewtube/internal/httputil"
)

// Delete removes the record first, then the two remote media objects. Media
// cleanup is best effort; each object gets exactly one deletion attempt and
// failures are logged, leaving at worst orphaned objects rather than a
// record pointing at deleted media.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	videoID, ok := videoIDParam(r)
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "video not found")
		return
	}

	var videoURL, thumbnailURL string
	err := h.db.QueryRow(r.Context(),
		`DELETE FROM videos WHERE id = $1 RETURNING video_url, thumbnail_url`,
		videoID,
	).Scan(&videoURL, &thumbnailURL)
	if errors.Is(err, pgx.ErrNoRows) {
		httputil.WriteError(w, http.StatusNotFound, "video does not exist")
		return
	}
	if err != nil {
		slog.Error("video: failed to delete video record", "video_id", videoID, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to delete video")
		return
	}

	if err := h.media.DeleteByURL(r.Context(), thumbnailURL); err != nil {
		slog.Error("video: failed to delete thumbnail", "url", thumbnailURL, "error", err)
	}
	if err := h.media.DeleteByURL(r.Context(), videoURL); err != nil {
		slog.Error("video: failed to delete video file", "url", videoURL, "error", err)
	}

	httputil.WriteSuccess(w, http.StatusOK, map[string]any{}, "Video deleted successfully")
}
