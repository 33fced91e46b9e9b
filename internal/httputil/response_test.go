package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteJSONSetsContentTypeHeader(t *testing.T) {
	recorder := httptest.NewRecorder()

	WriteJSON(recorder, http.StatusOK, map[string]string{"key": "value"})

	contentType := recorder.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}
}

func TestWriteJSONSetsStatusCode(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"OK", http.StatusOK},
		{"Created", http.StatusCreated},
		{"BadRequest", http.StatusBadRequest},
		{"InternalServerError", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			WriteJSON(recorder, tt.statusCode, map[string]string{"key": "value"})

			if recorder.Code != tt.statusCode {
				t.Errorf("expected status %d, got %d", tt.statusCode, recorder.Code)
			}
		})
	}
}

func TestWriteSuccessWrapsPayloadInEnvelope(t *testing.T) {
	recorder := httptest.NewRecorder()

	WriteSuccess(recorder, http.StatusCreated, map[string]string{"id": "abc"}, "created")

	var decoded struct {
		Status  int               `json:"status"`
		Data    map[string]string `json:"data"`
		Message string            `json:"message"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if decoded.Status != http.StatusCreated {
		t.Errorf("expected envelope status %d, got %d", http.StatusCreated, decoded.Status)
	}
	if decoded.Data["id"] != "abc" {
		t.Errorf("expected data id=abc, got %q", decoded.Data["id"])
	}
	if decoded.Message != "created" {
		t.Errorf("expected message=created, got %q", decoded.Message)
	}
}

func TestWriteSuccessEncodesStructPayload(t *testing.T) {
	type item struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}

	recorder := httptest.NewRecorder()

	WriteSuccess(recorder, http.StatusOK, item{ID: 42, Title: "test item"}, "fetched")

	var decoded struct {
		Data item `json:"data"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if decoded.Data.ID != 42 {
		t.Errorf("expected id=42, got %d", decoded.Data.ID)
	}
	if decoded.Data.Title != "test item" {
		t.Errorf("expected title=test item, got %s", decoded.Data.Title)
	}
}

func TestWriteErrorOmitsData(t *testing.T) {
	recorder := httptest.NewRecorder()

	WriteError(recorder, http.StatusBadRequest, "invalid input")

	var decoded map[string]any
	if err := json.NewDecoder(recorder.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if _, ok := decoded["data"]; ok {
		t.Error("expected error envelope to omit data field")
	}
	if decoded["message"] != "invalid input" {
		t.Errorf("expected message=invalid input, got %v", decoded["message"])
	}
}

func TestWriteErrorWithVariousMessages(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		message    string
	}{
		{"NotFound", http.StatusNotFound, "resource not found"},
		{"Unauthorized", http.StatusUnauthorized, "authentication required"},
		{"InternalError", http.StatusInternalServerError, "unexpected server error"},
		{"EmptyMessage", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			WriteError(recorder, tt.statusCode, tt.message)

			if recorder.Code != tt.statusCode {
				t.Errorf("expected status %d, got %d", tt.statusCode, recorder.Code)
			}

			var decoded Envelope
			if err := json.NewDecoder(recorder.Body).Decode(&decoded); err != nil {
				t.Fatalf("failed to decode response body: %v", err)
			}
			if decoded.Message != tt.message {
				t.Errorf("expected message=%q, got %q", tt.message, decoded.Message)
			}
			if decoded.Status != tt.statusCode {
				t.Errorf("expected envelope status %d, got %d", tt.statusCode, decoded.Status)
			}
		})
	}
}
