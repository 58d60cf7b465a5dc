package assethost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultTimeout = 60 * time.Second

// ImgBBClient talks to an imgbb-style upload API.
type ImgBBClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewImgBBClient creates a new imgbb client.
func NewImgBBClient(baseURL, apiKey string, timeout time.Duration) *ImgBBClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ImgBBClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type imgbbResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL   string `json:"url"`
		Thumb struct {
			URL string `json:"url"`
		} `json:"thumb"`
		DeleteURL string `json:"delete_url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload posts the image as multipart form data and returns the hosted asset.
func (c *ImgBBClient) Upload(ctx context.Context, filename string, data []byte, contentType string) (*Asset, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, fmt.Errorf("imgbb config error: api key is empty")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("imgbb upload request error: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("imgbb upload request error: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("imgbb upload request error: %w", err)
	}

	url := fmt.Sprintf("%s/1/upload?key=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("imgbb upload request error: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imgbb upload request error: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("imgbb upload http error: status=%d body=<failed to read body: %v>", resp.StatusCode, err)
	}

	var parsed imgbbResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("imgbb upload http error: status=%d body=%s", resp.StatusCode, string(raw))
	}

	if !parsed.Success {
		msg := parsed.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("status=%d", resp.StatusCode)
		}
		return nil, fmt.Errorf("imgbb upload failed: %s", msg)
	}

	return &Asset{
		URL:          parsed.Data.URL,
		ThumbnailURL: parsed.Data.Thumb.URL,
		DeleteRef:    parsed.Data.DeleteURL,
	}, nil
}

// Delete is a no-op: imgbb exposes deletion only through a browser page, not
// an API. The delete URL is kept on the record for manual cleanup.
func (c *ImgBBClient) Delete(ctx context.Context, deleteRef string) error {
	log.Debug().Str("delete_ref", deleteRef).Msg("imgbb asset deletion skipped, no API support")
	return nil
}
