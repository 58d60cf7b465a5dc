package nav

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/snapvault/snapvault-api/internal/domain/image"
)

type fakeSlugResolver struct {
	mu      sync.Mutex
	records map[string]*image.ImageRecord
	calls   int
	block   chan struct{} // when set, GetBySlug waits on it or ctx
}

func (f *fakeSlugResolver) GetBySlug(ctx context.Context, slug string) (*image.ImageRecord, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.records[slug], nil
}

func (f *fakeSlugResolver) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestResolve_StaticFragments(t *testing.T) {
	repo := &fakeSlugResolver{}
	resolver := NewResolver(repo, "vault-control")

	tests := []struct {
		fragment string
		want     View
	}{
		{"", ViewHome},
		{"about", ViewAbout},
		{"privacy", ViewPrivacy},
		{"vault-control", ViewAdmin},
		{"#about", ViewAbout},
		{"garbage", ViewHome},
		{"p/", ViewHome},
	}

	for _, tt := range tests {
		route := resolver.Resolve(context.Background(), tt.fragment)
		if route.View != tt.want {
			t.Errorf("fragment %q: expected %s, got %s", tt.fragment, tt.want, route.View)
		}
	}

	if repo.callCount() != 0 {
		t.Errorf("static fragments must not touch the catalog, got %d lookups", repo.callCount())
	}
}

func TestResolve_SlugFragment(t *testing.T) {
	id := uuid.New()
	repo := &fakeSlugResolver{records: map[string]*image.ImageRecord{
		"quiet-lake": {ID: id, Slug: "quiet-lake"},
	}}
	resolver := NewResolver(repo, "vault-control")

	route := resolver.Resolve(context.Background(), "p/quiet-lake")
	if route.View != ViewDetail || route.ImageID != id {
		t.Errorf("expected detail route for known slug, got %+v", route)
	}

	route = resolver.Resolve(context.Background(), "p/no-such-slug")
	if route.View != ViewHome {
		t.Errorf("unknown slug must fall back to home, got %s", route.View)
	}
}

func TestFragmentFor(t *testing.T) {
	resolver := NewResolver(&fakeSlugResolver{}, "vault-control")

	if f, ok := resolver.FragmentFor(ViewDetail, "quiet-lake"); !ok || f != "p/quiet-lake" {
		t.Errorf("expected p/quiet-lake, got %q ok=%v", f, ok)
	}
	if _, ok := resolver.FragmentFor(ViewDetail, ""); ok {
		t.Error("detail view without slug must be a navigation no-op")
	}
	if f, ok := resolver.FragmentFor(ViewAdmin, ""); !ok || f != "vault-control" {
		t.Errorf("expected admin fragment, got %q ok=%v", f, ok)
	}
}

func TestRouter_StaleResolutionDiscarded(t *testing.T) {
	id := uuid.New()
	block := make(chan struct{})
	repo := &fakeSlugResolver{
		records: map[string]*image.ImageRecord{
			"slow-slug": {ID: id, Slug: "slow-slug"},
		},
		block: block,
	}
	router := NewRouter(NewResolver(repo, "vault-control"))

	var mu sync.Mutex
	var applied []View
	router.Subscribe(func(route Route) {
		mu.Lock()
		applied = append(applied, route.View)
		mu.Unlock()
	})

	// First navigation hangs on the slug lookup
	first := router.Navigate(context.Background(), "p/slow-slug")

	// Second navigation supersedes it
	second := router.Navigate(context.Background(), "about")
	<-second

	close(block)
	<-first

	if got := router.Current().View; got != ViewAbout {
		t.Errorf("expected about after superseding navigation, got %s", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(applied) != 1 || applied[0] != ViewAbout {
		t.Errorf("stale resolution must not notify subscribers, applied=%v", applied)
	}
}

func TestRouter_AppliesResolution(t *testing.T) {
	id := uuid.New()
	repo := &fakeSlugResolver{records: map[string]*image.ImageRecord{
		"quiet-lake": {ID: id, Slug: "quiet-lake"},
	}}
	router := NewRouter(NewResolver(repo, "vault-control"))

	select {
	case <-router.Navigate(context.Background(), "p/quiet-lake"):
	case <-time.After(time.Second):
		t.Fatal("navigation did not complete")
	}

	route := router.Current()
	if route.View != ViewDetail || route.Slug != "quiet-lake" {
		t.Errorf("expected detail route, got %+v", route)
	}
}
