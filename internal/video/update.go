package video

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/viewtube/viewtube/internal/httputil"
	"github.com/viewtube/viewtube/internal/validate"
)

// Update replaces a video's thumbnail together with its title and
// description. The new thumbnail must land before anything else happens;
// removing the old one is best effort and never blocks the write.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	videoID, ok := videoIDParam(r)
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "video not found")
		return
	}

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	if title == "" || description == "" {
		httputil.WriteError(w, http.StatusBadRequest, "title and description are required")
		return
	}
	if msg := validate.Title(title); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validate.Description(description); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	thumbnailPath, err := h.formFilePath(r, "thumbnail")
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "thumbnail is required")
		return
	}

	uploadedThumbnail, err := h.media.Upload(r.Context(), thumbnailPath)
	if err != nil || uploadedThumbnail == nil {
		slog.Error("video: thumbnail upload failed", "video_id", videoID, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to upload thumbnail")
		return
	}

	var oldThumbnailURL string
	if err := h.db.QueryRow(r.Context(),
		`SELECT thumbnail_url FROM videos WHERE id = $1`,
		videoID,
	).Scan(&oldThumbnailURL); err != nil {
		// either way the record was not updated; remove the object we just pushed
		if derr := h.media.DeleteByURL(r.Context(), uploadedThumbnail.URL); derr != nil {
			slog.Error("video: failed to roll back uploaded thumbnail", "url", uploadedThumbnail.URL, "error", derr)
		}
		if errors.Is(err, pgx.ErrNoRows) {
			httputil.WriteError(w, http.StatusNotFound, "video does not exist")
			return
		}
		slog.Error("video: failed to fetch video for update", "video_id", videoID, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to update video")
		return
	}

	if err := h.media.DeleteByURL(r.Context(), oldThumbnailURL); err != nil {
		slog.Error("video: failed to delete old thumbnail", "url", oldThumbnailURL, "error", err)
	}

	row := h.db.QueryRow(r.Context(),
		`UPDATE videos SET title = $1, description = $2, thumbnail_url = $3, updated_at = now()
		 WHERE id = $4 RETURNING `+videoColumns,
		title, description, uploadedThumbnail.URL, videoID,
	)
	v, err := scanVideo(row)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to update video")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, v, "Video updated successfully")
}
