package assethost

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestImgBBUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1/upload" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected api key in query, got %q", r.URL.RawQuery)
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("expected multipart image field: %v", err)
		}
		defer file.Close()
		if header.Filename != "sunset.jpg" {
			t.Errorf("unexpected filename %q", header.Filename)
		}

		w.Write([]byte(`{
			"success": true,
			"data": {
				"url": "https://i.ibb.co/abc/sunset.jpg",
				"thumb": {"url": "https://i.ibb.co/abc/sunset-thumb.jpg"},
				"delete_url": "https://ibb.co/abc/delete"
			}
		}`))
	}))
	defer server.Close()

	client := NewImgBBClient(server.URL, "test-key", 5*time.Second)

	asset, err := client.Upload(context.Background(), "sunset.jpg", []byte("jpeg-bytes"), "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset.URL != "https://i.ibb.co/abc/sunset.jpg" {
		t.Errorf("unexpected url %q", asset.URL)
	}
	if asset.ThumbnailURL != "https://i.ibb.co/abc/sunset-thumb.jpg" {
		t.Errorf("unexpected thumbnail %q", asset.ThumbnailURL)
	}
	if asset.DeleteRef != "https://ibb.co/abc/delete" {
		t.Errorf("unexpected delete ref %q", asset.DeleteRef)
	}
}

func TestImgBBUpload_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success": false, "error": {"message": "Invalid API key"}}`))
	}))
	defer server.Close()

	client := NewImgBBClient(server.URL, "test-key", 5*time.Second)

	_, err := client.Upload(context.Background(), "x.jpg", []byte("bytes"), "image/jpeg")
	if err == nil {
		t.Fatal("expected provider error")
	}
	if !strings.Contains(err.Error(), "Invalid API key") {
		t.Errorf("expected provider message in error, got %v", err)
	}
}

func TestImgBBUpload_NoAPIKey(t *testing.T) {
	client := NewImgBBClient("http://localhost:1", "", time.Second)

	if _, err := client.Upload(context.Background(), "x.jpg", []byte("bytes"), "image/jpeg"); err == nil {
		t.Fatal("expected error when api key is missing")
	}
}

func TestImgBBDelete_NoOp(t *testing.T) {
	client := NewImgBBClient("http://localhost:1", "test-key", time.Second)

	if err := client.Delete(context.Background(), "https://ibb.co/abc/delete"); err != nil {
		t.Errorf("delete must be a no-op, got %v", err)
	}
}
