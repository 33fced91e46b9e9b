package video

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/viewtube/viewtube/internal/database"
	"github.com/viewtube/viewtube/internal/storage"
)

// MediaStore is the external media host: assets go up from a local temp
// file and come down by the URL a previous upload returned.
type MediaStore interface {
	Upload(ctx context.Context, localPath string) (*storage.UploadResult, error)
	DeleteByURL(ctx context.Context, remoteURL string) error
}

// GeoResolver maps a client IP to a country code and city for view records.
type GeoResolver interface {
	Lookup(ip string) (country, city string)
}

type Handler struct {
	db             database.DBTX
	media          MediaStore
	geo            GeoResolver
	maxUploadBytes int64
}

func NewHandler(db database.DBTX, media MediaStore, maxUploadBytes int64) *Handler {
	return &Handler{
		db:             db,
		media:          media,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) SetGeoResolver(g GeoResolver) {
	h.geo = g
}

const videoColumns = `id, video_url, thumbnail_url, title, description, duration, owner_id, is_published, created_at, updated_at`

type videoRecord struct {
	ID           string `json:"id"`
	VideoURL     string `json:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Duration     int    `json:"duration"`
	OwnerID      string `json:"ownerId"`
	IsPublished  bool   `json:"isPublished"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

func scanVideo(row pgx.Row) (*videoRecord, error) {
	var v videoRecord
	var createdAt, updatedAt time.Time
	if err := row.Scan(&v.ID, &v.VideoURL, &v.ThumbnailURL, &v.Title, &v.Description,
		&v.Duration, &v.OwnerID, &v.IsPublished, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	v.CreatedAt = createdAt.Format(time.RFC3339)
	v.UpdatedAt = updatedAt.Format(time.RFC3339)
	return &v, nil
}

// videoIDParam validates the {videoID} path segment. A malformed identifier
// is reported as not-found before any storage is touched.
func videoIDParam(r *http.Request) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "videoID"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// formFilePath spools the named multipart part to a temp file and returns
// its path. The media store owns removal of the temp file after its upload
// attempt.
func (h *Handler) formFilePath(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", fmt.Errorf("read form file %s: %w", field, err)
	}
	defer func() { _ = file.Close() }()

	return spoolUpload(file, filepath.Ext(header.Filename))
}

func spoolUpload(file multipart.File, ext string) (string, error) {
	tmp, err := os.CreateTemp("", "viewtube-upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmp.Name(), nil
}
