package image

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DefaultAuthor is used when an upload carries no author name
const DefaultAuthor = "Anonymous"

// ImageRecord represents one catalog entry: a hosted image and its metadata.
// The binary lives on the asset host; only locations and descriptions are
// stored here.
type ImageRecord struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	URL           string         `db:"url" json:"url"`
	ThumbnailURL  string         `db:"thumbnail_url" json:"thumbnail_url"`
	DeleteURL     string         `db:"delete_url" json:"-"` // host deletion credential, never exposed
	Title         string         `db:"title" json:"title"`
	Description   string         `db:"description" json:"description"`
	Category      string         `db:"category" json:"category"`
	Keywords      pq.StringArray `db:"keywords" json:"keywords"`
	Slug          string         `db:"slug" json:"slug"`
	Author        string         `db:"author" json:"author"`
	CreatedAt     int64          `db:"created_at" json:"created_at"` // epoch milliseconds
	DownloadCount int64          `db:"download_count" json:"download_count"`
}
