package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/viewtube/viewtube/internal/auth"
	"github.com/viewtube/viewtube/internal/storage"
)

const testJWTSecret = "test-secret-for-video-tests"
const testUserID = "550e8400-e29b-41d4-a716-446655440000"
const testVideoID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

// mockMedia serves queued upload results in order; a nil entry simulates a
// failed upload. Every call is appended to log so tests can assert ordering.
type mockMedia struct {
	uploads   []*storage.UploadResult
	deleted   []string
	deleteErr error
	log       []string
}

func (m *mockMedia) Upload(_ context.Context, localPath string) (*storage.UploadResult, error) {
	// honor the adapter contract: the temp file is gone after the attempt
	_ = os.Remove(localPath)
	m.log = append(m.log, "upload")
	if len(m.uploads) == 0 {
		return nil, errors.New("unexpected upload call")
	}
	next := m.uploads[0]
	m.uploads = m.uploads[1:]
	if next == nil {
		return nil, errors.New("upload failed")
	}
	return next, nil
}

func (m *mockMedia) DeleteByURL(_ context.Context, remoteURL string) error {
	m.log = append(m.log, "delete "+remoteURL)
	m.deleted = append(m.deleted, remoteURL)
	return m.deleteErr
}

func newAuthMiddleware() func(http.Handler) http.Handler {
	return auth.NewHandler(testJWTSecret).Middleware
}

func authenticatedRequest(t *testing.T, method, target string, body io.Reader) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	token, err := auth.GenerateAccessToken(testJWTSecret, testUserID)
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// multipartBody builds a form body with the given text fields and one fake
// binary file per files entry (field name -> filename).
func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	wr := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := wr.WriteField(name, value); err != nil {
			t.Fatalf("failed to write form field %s: %v", name, err)
		}
	}
	for field, filename := range files {
		fw, err := wr.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("failed to create form file %s: %v", field, err)
		}
		if _, err := fw.Write([]byte("fake file contents")); err != nil {
			t.Fatalf("failed to write form file %s: %v", field, err)
		}
	}
	if err := wr.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return &buf, wr.FormDataContentType()
}

type envelope struct {
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func parseEnvelope(t *testing.T, body []byte, data any) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("failed to parse response envelope: %v", err)
	}
	if data != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("failed to parse envelope data: %v", err)
		}
	}
	return env
}

var videoCols = []string{"id", "video_url", "thumbnail_url", "title", "description", "duration", "owner_id", "is_published", "created_at", "updated_at"}

func videoRowValues(id, videoURL, thumbnailURL, title, description string, duration int, published bool) []any {
	now := time.Now()
	return []any{id, videoURL, thumbnailURL, title, description, duration, testUserID, published, now, now}
}
