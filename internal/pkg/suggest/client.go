package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// DefaultInstruction is the prompt sent alongside the image.
const DefaultInstruction = "Analyze this image and provide a professional title, a descriptive caption, and 10 relevant SEO keywords. Return as JSON."

// ErrInvalidSuggestion marks a response that does not match the expected
// schema. Callers treat this as recoverable: suggestions are advisory only.
var ErrInvalidSuggestion = errors.New("suggestion response does not match schema")

// Suggestion is the metadata pre-fill returned by the vision model.
type Suggestion struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Keywords      []string `json:"keywords"`
	SuggestedSlug string   `json:"suggestedSlug"`
}

// Client calls a Gemini-style generateContent endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewClient creates a new suggestion client.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: timeout},
	}
}

type generatePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string `json:"response_mime_type"`
}

type generateRequest struct {
	Contents         []generateContent `json:"contents"`
	GenerationConfig generationConfig  `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// AnalyzeImage sends a base64-encoded image and returns suggested metadata.
// No automatic retry: a failed or malformed response surfaces as an error and
// the caller decides whether the upload proceeds without suggestions.
func (c *Client) AnalyzeImage(ctx context.Context, mimeType, base64Data string) (*Suggestion, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, fmt.Errorf("suggest config error: api key is empty")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	reqBody := generateRequest{
		Contents: []generateContent{{
			Parts: []generatePart{
				{Text: DefaultInstruction},
				{InlineData: &inlineData{MimeType: mimeType, Data: base64Data}},
			},
		}},
		GenerationConfig: generationConfig{ResponseMimeType: "application/json"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("suggest request error: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("suggest request error: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suggest request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("suggest http error: status=%d body=<failed to read body: %v>", resp.StatusCode, readErr)
		}
		return nil, fmt.Errorf("suggest http error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("suggest response error: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, ErrInvalidSuggestion
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	var suggestion Suggestion
	if err := json.Unmarshal([]byte(text), &suggestion); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSuggestion, err)
	}

	if suggestion.Title == "" || suggestion.Description == "" ||
		len(suggestion.Keywords) == 0 || suggestion.SuggestedSlug == "" {
		return nil, ErrInvalidSuggestion
	}

	suggestion.SuggestedSlug = normalizeSlug(suggestion.SuggestedSlug)
	return &suggestion, nil
}

// normalizeSlug lowercases the suggested slug and replaces spaces with hyphens
func normalizeSlug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
