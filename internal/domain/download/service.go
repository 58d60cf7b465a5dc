package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/snapvault/snapvault-api/internal/domain/image"
)

// Catalog is the slice of the image repository the gate needs
type Catalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*image.ImageRecord, error)
	IncrementDownloadCount(ctx context.Context, id uuid.UUID) error
}

// StatusResponse is the polled gate state
type StatusResponse struct {
	Token     string `json:"token"`
	State     State  `json:"state"`
	Remaining int    `json:"remaining"`
	Slug      string `json:"slug"`
}

// OpenResponse is returned when a gate is opened
type OpenResponse struct {
	Token     string `json:"token"`
	State     State  `json:"state"`
	Remaining int    `json:"remaining"`
	ReadyAt   int64  `json:"ready_at"`
}

// FetchResult carries the asset bytes and download filename
type FetchResult struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

// Service runs the download-gate workflow: open a session, count down,
// then hand out the asset
type Service struct {
	store   Store
	catalog Catalog
	wait    time.Duration
	ttl     time.Duration
	client  *http.Client

	now func() time.Time
}

// NewService creates download service
func NewService(store Store, catalog Catalog, wait, ttl time.Duration) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		wait:    wait,
		ttl:     ttl,
		client: &http.Client{
			Timeout: 2 * time.Minute,
		},
		now: time.Now,
	}
}

// Open starts a gate session for the image. The countdown is anchored to
// ReadyAt so later status checks agree on the remaining time.
func (s *Service) Open(ctx context.Context, imageID uuid.UUID) (*OpenResponse, error) {
	record, err := s.catalog.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, image.ErrImageNotFound
	}

	now := s.now()
	session := &Session{
		Token:    uuid.New().String(),
		ImageID:  record.ID,
		Slug:     record.Slug,
		URL:      record.URL,
		OpenedAt: now,
		ReadyAt:  now.Add(s.wait),
	}

	if err := s.store.Put(ctx, session, s.ttl); err != nil {
		return nil, err
	}

	return &OpenResponse{
		Token:     session.Token,
		State:     session.State(now),
		Remaining: session.Remaining(now),
		ReadyAt:   session.ReadyAt.UnixMilli(),
	}, nil
}

// Status returns the current state of a session
func (s *Service) Status(ctx context.Context, token string) (*StatusResponse, error) {
	session, err := s.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	now := s.now()
	return &StatusResponse{
		Token:     session.Token,
		State:     session.State(now),
		Remaining: session.Remaining(now),
		Slug:      session.Slug,
	}, nil
}

// Cancel closes a session. Cancelling an unknown token is a no-op: the user
// backing out of the gate twice is not an error.
func (s *Service) Cancel(ctx context.Context, token string) error {
	return s.store.Delete(ctx, token)
}

// Fetch streams the asset once the countdown has elapsed. The download count
// increments optimistically: a failed increment is logged, never surfaced.
// When the asset host refuses the byte fetch the caller gets a RedirectError
// pointing at the hosted URL. The session is consumed either way.
func (s *Service) Fetch(ctx context.Context, token string) (*FetchResult, error) {
	session, err := s.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if s.now().Before(session.ReadyAt) {
		return nil, ErrNotReady
	}

	if err := s.store.Delete(ctx, token); err != nil {
		log.Error().Err(err).Str("token", token).Msg("Error consuming download session")
	}

	if err := s.catalog.IncrementDownloadCount(ctx, session.ImageID); err != nil {
		log.Error().Err(err).Str("image_id", session.ImageID.String()).Msg("Error incrementing download count")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, session.URL, nil)
	if err != nil {
		return nil, &RedirectError{URL: session.URL, Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &RedirectError{URL: session.URL, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &RedirectError{URL: session.URL, Err: fmt.Errorf("asset host returned status %d", resp.StatusCode)}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &FetchResult{
		Filename:    session.Slug + ".jpg",
		ContentType: contentType,
		Body:        resp.Body,
	}, nil
}
