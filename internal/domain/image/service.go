package image

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/snapvault/snapvault-api/internal/pkg/assethost"
)

// Service handles catalog business logic
type Service struct {
	repo Repository
	host assethost.Host
}

// NewService creates image service
func NewService(repo Repository, host assethost.Host) *Service {
	return &Service{repo: repo, host: host}
}

// List returns the catalog newest-first, optionally filtered by a search
// query. Read failures degrade to an empty list: the gallery shell stays up
// even when the store is unreachable.
func (s *Service) List(ctx context.Context, query string) []*ImageRecord {
	var (
		records []*ImageRecord
		err     error
	)
	if strings.TrimSpace(query) != "" {
		records, err = s.repo.Search(ctx, strings.TrimSpace(query))
	} else {
		records, err = s.repo.ListAll(ctx)
	}
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("Error fetching images")
		return []*ImageRecord{}
	}
	if records == nil {
		records = []*ImageRecord{}
	}
	return records
}

// Get returns one record by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ImageRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrImageNotFound
	}
	return record, nil
}

// GetBySlug returns the first record carrying the slug
func (s *Service) GetBySlug(ctx context.Context, slug string) (*ImageRecord, error) {
	record, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrImageNotFound
	}
	return record, nil
}

// Related returns up to limit records similar to the given one.
// Candidate-list read failures degrade to an empty result, same as List.
func (s *Service) Related(ctx context.Context, id uuid.UUID, limit int) ([]*ImageRecord, error) {
	ref, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	candidates, err := s.repo.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Str("image_id", id.String()).Msg("Error fetching related candidates")
		return []*ImageRecord{}, nil
	}

	related := Related(ref, candidates, limit)
	if related == nil {
		related = []*ImageRecord{}
	}
	return related, nil
}

// Publish uploads the image to the asset host and saves the catalog record.
// Both steps fail loudly; nothing is persisted on a host failure.
func (s *Service) Publish(ctx context.Context, req *PublishRequest, filename string, data []byte, contentType string) (*ImageRecord, error) {
	if len(data) == 0 {
		return nil, ErrMissingFile
	}

	asset, err := s.host.Upload(ctx, filename, data, contentType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = fmt.Sprintf("img-%d", now)
	}

	author := strings.TrimSpace(req.Author)
	if author == "" {
		author = DefaultAuthor
	}

	record := &ImageRecord{
		URL:          asset.URL,
		ThumbnailURL: asset.ThumbnailURL,
		DeleteURL:    asset.DeleteRef,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Keywords:     pq.StringArray(splitKeywords(req.Keywords)),
		Slug:         slug,
		Author:       author,
		CreatedAt:    now,
	}

	if _, err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes the catalog record and best-effort deletes the hosted asset
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrImageNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Asset host cleanup must not block or fail the catalog delete
	go func(deleteRef string) {
		if err := s.host.Delete(context.Background(), deleteRef); err != nil {
			log.Error().Err(err).Str("image_id", id.String()).Msg("Error deleting hosted asset")
		}
	}(record.DeleteURL)

	return nil
}

// Stats returns catalog totals for the admin dashboard
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	downloads, err := s.repo.TotalDownloads(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsResponse{TotalAssets: count, TotalDownloads: downloads}, nil
}

// splitKeywords parses a comma-separated keyword field, preserving order and
// duplicates but dropping blanks
func splitKeywords(raw string) []string {
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		kw := strings.TrimSpace(part)
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
