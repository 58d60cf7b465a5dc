package image

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func newTestHandler(repo *fakeRepository) http.Handler {
	return NewHandler(NewService(repo, &fakeHost{})).Routes()
}

func TestHandlerList_EmptyOnStoreFailure(t *testing.T) {
	router := newTestHandler(&fakeRepository{listErr: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Success bool              `json:"success"`
		Data    []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !body.Success {
		t.Error("expected success envelope")
	}
	if len(body.Data) != 0 {
		t.Errorf("expected empty data, got %d entries", len(body.Data))
	}
}

func TestHandlerGetByID_NotFound(t *testing.T) {
	router := newTestHandler(&fakeRepository{})

	req := httptest.NewRequest(http.MethodGet, "/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandlerGetByID_InvalidID(t *testing.T) {
	router := newTestHandler(&fakeRepository{})

	req := httptest.NewRequest(http.MethodGet, "/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandlerGetBySlug(t *testing.T) {
	stored := record("Lake", "Nature", "water")
	stored.Slug = "quiet-lake"
	router := newTestHandler(&fakeRepository{records: []*ImageRecord{stored}})

	req := httptest.NewRequest(http.MethodGet, "/slug/quiet-lake", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Data ImageResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Data.Slug != "quiet-lake" {
		t.Errorf("expected slug quiet-lake, got %q", body.Data.Slug)
	}
}

func TestHandlerRelated(t *testing.T) {
	ref := record("Lake", "Nature", "water")
	match := record("River", "Nature", "water")
	router := newTestHandler(&fakeRepository{records: []*ImageRecord{ref, match}})

	req := httptest.NewRequest(http.MethodGet, "/"+ref.ID.String()+"/related", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Data []ImageResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].ID != match.ID {
		t.Errorf("expected the matching record, got %d entries", len(body.Data))
	}
}

func TestHandlerRelated_InvalidLimit(t *testing.T) {
	ref := record("Lake", "Nature")
	router := newTestHandler(&fakeRepository{records: []*ImageRecord{ref}})

	req := httptest.NewRequest(http.MethodGet, "/"+ref.ID.String()+"/related?limit=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
