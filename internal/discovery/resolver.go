package discovery

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"testplanner/internal/api"
	"testplanner/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// ComponentSource fetches a component together with its direct dependencies.
// It returns (nil, nil) for ids the platform does not know.
type ComponentSource interface {
	GetComponentInfoAndDependencies(ctx context.Context, componentID string) (*api.ComponentInfo, error)
}

// Resolver walks the dependency graph below a set of roots. A Resolver is
// good for a single pass; create a new one per discovery.
type Resolver struct {
	source ComponentSource

	mu      sync.Mutex
	visited map[string]api.ComponentInfo
	fetches atomic.Int64
}

// NewResolver creates a Resolver reading from source.
func NewResolver(source ComponentSource) *Resolver {
	return &Resolver{
		source:  source,
		visited: make(map[string]api.ComponentInfo),
	}
}

// Resolve visits every root and everything reachable from it, fetching each
// component at most once even when roots share dependencies or the graph has
// cycles. Unknown components are recorded as placeholders. The first platform
// error aborts the pass.
func (r *Resolver) Resolve(ctx context.Context, rootIDs ...string) (map[string]api.ComponentInfo, error) {
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range rootIDs {
		g.Go(func() error {
			return r.visit(gctx, id)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	found := make(map[string]api.ComponentInfo, len(r.visited))
	for id, info := range r.visited {
		found[id] = info
	}
	logging.Debug("Discovery", "Resolved %d component(s) from %d root(s) with %d fetch(es)", len(found), len(rootIDs), r.Fetches())
	return found, nil
}

// Fetches reports how many platform lookups the resolver has performed.
func (r *Resolver) Fetches() int64 {
	return r.fetches.Load()
}

// claim marks id as visited and reports whether the caller should fetch it.
func (r *Resolver) claim(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.visited[id]; seen {
		return false
	}
	r.visited[id] = api.ComponentInfo{ID: id}
	return true
}

func (r *Resolver) record(info api.ComponentInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visited[info.ID] = info
}

// visit fetches id and fans out over its children, returning once every
// child subtree has been explored.
func (r *Resolver) visit(ctx context.Context, id string) error {
	if id == "" || !r.claim(id) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.fetches.Add(1)
	info, err := r.fetch(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to resolve component %s: %w", id, err)
	}
	if info == nil {
		logging.Warn("Discovery", "Component %s was not found on the platform", id)
		r.record(api.NotFoundComponent(id))
		return nil
	}

	resolved := *info
	resolved.ID = id
	r.record(resolved)

	if len(resolved.DependencyIDs) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, dep := range resolved.DependencyIDs {
		g.Go(func() error {
			return r.visit(gctx, dep)
		})
	}
	return g.Wait()
}

// fetch asks the source for id. A panic in the source fails the pass instead
// of the process.
func (r *Resolver) fetch(ctx context.Context, id string) (info *api.ComponentInfo, err error) {
	defer func() {
		if p := recover(); p != nil {
			logging.Error("Discovery", fmt.Errorf("%v", p), "Lookup of component %s panicked\n%s", id, debug.Stack())
			info, err = nil, fmt.Errorf("unexpected internal error: %v", p)
		}
	}()
	return r.source.GetComponentInfoAndDependencies(ctx, id)
}
