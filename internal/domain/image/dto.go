package image

import (
	"github.com/google/uuid"
)

// PublishRequest carries the multipart form fields for POST /admin/images
type PublishRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=2000"`
	Category    string `json:"category" validate:"required,max=100"`
	Keywords    string `json:"keywords" validate:"required"` // comma separated
	Slug        string `json:"slug" validate:"slug,max=200"`
	Author      string `json:"author" validate:"max=200"`
}

// ImageResponse represents a catalog record in API responses.
// The host deletion credential is deliberately absent.
type ImageResponse struct {
	ID            uuid.UUID `json:"id"`
	URL           string    `json:"url"`
	ThumbnailURL  string    `json:"thumbnail_url"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Keywords      []string  `json:"keywords"`
	Slug          string    `json:"slug"`
	Author        string    `json:"author"`
	CreatedAt     int64     `json:"created_at"`
	DownloadCount int64     `json:"download_count"`
}

// StatsResponse for GET /admin/stats
type StatsResponse struct {
	TotalAssets    int   `json:"total_assets"`
	TotalDownloads int64 `json:"total_downloads"`
}

// ImageResponseFromEntity converts entity to response DTO
func ImageResponseFromEntity(rec *ImageRecord) *ImageResponse {
	return &ImageResponse{
		ID:            rec.ID,
		URL:           rec.URL,
		ThumbnailURL:  rec.ThumbnailURL,
		Title:         rec.Title,
		Description:   rec.Description,
		Category:      rec.Category,
		Keywords:      rec.Keywords,
		Slug:          rec.Slug,
		Author:        rec.Author,
		CreatedAt:     rec.CreatedAt,
		DownloadCount: rec.DownloadCount,
	}
}

// ImageResponsesFromEntities converts a record list to response DTOs
func ImageResponsesFromEntities(records []*ImageRecord) []*ImageResponse {
	items := make([]*ImageResponse, len(records))
	for i, rec := range records {
		items[i] = ImageResponseFromEntity(rec)
	}
	return items
}
