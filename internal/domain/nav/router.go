package nav

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/snapvault/snapvault-api/internal/domain/image"
)

// View identifies one application screen
type View string

const (
	ViewHome    View = "home"
	ViewDetail  View = "detail"
	ViewAdmin   View = "admin"
	ViewAbout   View = "about"
	ViewPrivacy View = "privacy"
)

// Route is a resolved navigation target. ImageID and Slug are set only for
// the detail view.
type Route struct {
	View    View      `json:"view"`
	ImageID uuid.UUID `json:"image_id,omitempty"`
	Slug    string    `json:"slug,omitempty"`
}

// SlugResolver looks up a catalog record by its slug
type SlugResolver interface {
	GetBySlug(ctx context.Context, slug string) (*image.ImageRecord, error)
}

// Resolver maps location fragments to routes. The fragment grammar is the
// application's only bookmarkable state: "", "about", "privacy", the admin
// secret, and "p/<slug>".
type Resolver struct {
	repo          SlugResolver
	adminFragment string
}

// NewResolver creates a fragment resolver
func NewResolver(repo SlugResolver, adminFragment string) *Resolver {
	return &Resolver{repo: repo, adminFragment: adminFragment}
}

// Resolve maps a fragment to a route. Only "p/<slug>" fragments touch the
// catalog; an unknown slug or a failed lookup falls back to home.
func (r *Resolver) Resolve(ctx context.Context, fragment string) Route {
	fragment = strings.TrimPrefix(fragment, "#")

	switch {
	case fragment == r.adminFragment && r.adminFragment != "":
		return Route{View: ViewAdmin}
	case fragment == "about":
		return Route{View: ViewAbout}
	case fragment == "privacy":
		return Route{View: ViewPrivacy}
	case strings.HasPrefix(fragment, "p/"):
		slug := strings.SplitN(fragment, "/", 3)[1]
		if slug == "" {
			return Route{View: ViewHome}
		}
		record, err := r.repo.GetBySlug(ctx, slug)
		if err != nil {
			log.Error().Err(err).Str("slug", slug).Msg("Error resolving slug")
			return Route{View: ViewHome}
		}
		if record == nil {
			return Route{View: ViewHome}
		}
		return Route{View: ViewDetail, ImageID: record.ID, Slug: record.Slug}
	default:
		return Route{View: ViewHome}
	}
}

// FragmentFor is the reverse mapping. A detail view without a slug returns
// ok=false: navigation is a no-op and the caller keeps its current fragment.
func (r *Resolver) FragmentFor(view View, slug string) (string, bool) {
	switch view {
	case ViewHome:
		return "", true
	case ViewAdmin:
		return r.adminFragment, true
	case ViewAbout:
		return "about", true
	case ViewPrivacy:
		return "privacy", true
	case ViewDetail:
		if slug == "" {
			return "", false
		}
		return "p/" + slug, true
	default:
		return "", false
	}
}

// Router owns the current route and serializes navigation. Each Navigate
// cancels the previous in-flight slug resolution, so a slow lookup that
// finishes after a newer navigation is discarded instead of applied.
type Router struct {
	resolver *Resolver

	mu      sync.Mutex
	current Route
	cancel  context.CancelFunc
	subs    []func(Route)
}

// NewRouter creates a router starting at home
func NewRouter(resolver *Resolver) *Router {
	return &Router{
		resolver: resolver,
		current:  Route{View: ViewHome},
	}
}

// Current returns the active route
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Subscribe registers a callback invoked on every applied transition
func (r *Router) Subscribe(fn func(Route)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, fn)
}

// Navigate resolves the fragment asynchronously and applies the result,
// unless a newer navigation superseded it meanwhile. The returned channel
// closes when this navigation either applied or was discarded.
func (r *Router) Navigate(ctx context.Context, fragment string) <-chan struct{} {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	navCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)

		route := r.resolver.Resolve(navCtx, fragment)
		if navCtx.Err() != nil {
			// Superseded by a newer navigation; drop the stale result
			return
		}
		r.apply(route)
	}()
	return done
}

func (r *Router) apply(route Route) {
	r.mu.Lock()
	r.current = route
	subs := make([]func(Route), len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	for _, fn := range subs {
		fn(route)
	}
}
