package video

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/viewtube/viewtube/internal/auth"
	"github.com/viewtube/viewtube/internal/httputil"
	"github.com/viewtube/viewtube/internal/validate"
)

const multipartMemoryLimit = 32 << 20

// Publish ingests a new video: both files go to the media host first, then
// the record is written. A half-finished ingest rolls back whatever was
// already uploaded so no orphaned objects are left behind.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

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

	videoPath, err := h.formFilePath(r, "videoFile")
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "video file is required")
		return
	}

	thumbnailPath, err := h.formFilePath(r, "thumbnail")
	if err != nil {
		_ = os.Remove(videoPath)
		httputil.WriteError(w, http.StatusBadRequest, "thumbnail is required")
		return
	}

	uploadedVideo, err := h.media.Upload(r.Context(), videoPath)
	if err != nil || uploadedVideo == nil {
		slog.Error("video: video file upload failed", "error", err)
		_ = os.Remove(thumbnailPath)
		httputil.WriteError(w, http.StatusBadRequest, "failed to upload video file")
		return
	}

	uploadedThumbnail, err := h.media.Upload(r.Context(), thumbnailPath)
	if err != nil || uploadedThumbnail == nil {
		slog.Error("video: thumbnail upload failed", "error", err)
		if derr := h.media.DeleteByURL(r.Context(), uploadedVideo.URL); derr != nil {
			slog.Error("video: failed to roll back uploaded video file", "url", uploadedVideo.URL, "error", derr)
		}
		httputil.WriteError(w, http.StatusBadRequest, "failed to upload thumbnail")
		return
	}

	row := h.db.QueryRow(r.Context(),
		`INSERT INTO videos (video_url, thumbnail_url, title, description, duration, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+videoColumns,
		uploadedVideo.URL, uploadedThumbnail.URL, title, description, uploadedVideo.Duration, userID,
	)
	v, err := scanVideo(row)
	if err != nil {
		if derr := h.media.DeleteByURL(r.Context(), uploadedVideo.URL); derr != nil {
			slog.Error("video: failed to roll back uploaded video file", "url", uploadedVideo.URL, "error", derr)
		}
		if derr := h.media.DeleteByURL(r.Context(), uploadedThumbnail.URL); derr != nil {
			slog.Error("video: failed to roll back uploaded thumbnail", "url", uploadedThumbnail.URL, "error", derr)
		}
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create video")
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, v, "Video published successfully")
}
