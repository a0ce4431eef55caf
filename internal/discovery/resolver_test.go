package discovery

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"testplanner/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves a static dependency graph and counts lookups per id.
type fakeSource struct {
	mu    sync.Mutex
	graph map[string][]string
	errs  map[string]error
	calls map[string]int
	delay time.Duration
}

func newFakeSource(graph map[string][]string) *fakeSource {
	return &fakeSource{graph: graph, errs: map[string]error{}, calls: map[string]int{}}
}

func (f *fakeSource) GetComponentInfoAndDependencies(ctx context.Context, id string) (*api.ComponentInfo, error) {
	f.mu.Lock()
	f.calls[id]++
	err := f.errs[id]
	deps, known := f.graph[id]
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, nil
	}
	return &api.ComponentInfo{ID: id, Name: "name-" + id, Type: "process", DependencyIDs: deps}, nil
}

func (f *fakeSource) callCounts() map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]int, len(f.calls))
	for k, v := range f.calls {
		out[k] = v
	}
	return out
}

func keys(m map[string]api.ComponentInfo) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestResolve_ChainFromSingleRoot(t *testing.T) {
	src := newFakeSource(map[string][]string{
		"R": {"A"},
		"A": {"B", "C"},
		"B": {},
		"C": {},
	})

	found, err := NewResolver(src).Resolve(context.Background(), "R")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "R"}, keys(found))
	assert.Equal(t, "name-A", found["A"].Name)
	assert.Equal(t, []string{"B", "C"}, found["A"].DependencyIDs)
}

func TestResolve_CycleAndDiamondFetchEachOnce(t *testing.T) {
	src := newFakeSource(map[string][]string{
		"R1": {"A", "B"},
		"R2": {"B", "D"},
		"A":  {"C"},
		"B":  {"C", "R1"},
		"C":  {"A"},
		"D":  {"D"},
	})
	src.delay = 2 * time.Millisecond

	r := NewResolver(src)
	found, err := r.Resolve(context.Background(), "R1", "R2", "R1")
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C", "D", "R1", "R2"}, keys(found))
	for id, n := range src.callCounts() {
		assert.Equal(t, 1, n, "component %s fetched %d times", id, n)
	}
	assert.Equal(t, int64(6), r.Fetches())
}

func TestResolve_NotFoundBecomesPlaceholder(t *testing.T) {
	src := newFakeSource(map[string][]string{
		"R": {"ghost"},
	})

	found, err := NewResolver(src).Resolve(context.Background(), "R")
	require.NoError(t, err)

	require.Contains(t, found, "ghost")
	assert.Equal(t, api.NotFoundComponent("ghost"), found["ghost"])
	assert.Equal(t, "Component Not Found", found["ghost"].Name)
	assert.Equal(t, "N/A", found["ghost"].Type)
}

func TestResolve_PlatformErrorAborts(t *testing.T) {
	src := newFakeSource(map[string][]string{
		"R": {"A", "B"},
		"A": {},
		"B": {},
	})
	boom := &api.PlatformError{StatusCode: 500, Attempts: 1, Message: "boom"}
	src.errs["B"] = boom

	found, err := NewResolver(src).Resolve(context.Background(), "R")
	require.Error(t, err)
	assert.Nil(t, found)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "failed to resolve component B")
}

func TestResolve_NoRoots(t *testing.T) {
	found, err := NewResolver(newFakeSource(nil)).Resolve(context.Background())
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestResolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewResolver(newFakeSource(map[string][]string{"R": {}})).Resolve(ctx, "R")
	assert.ErrorIs(t, err, context.Canceled)
}

// panickingSource panics when asked for one component.
type panickingSource struct {
	*fakeSource
	panicOn string
}

func (p panickingSource) GetComponentInfoAndDependencies(ctx context.Context, id string) (*api.ComponentInfo, error) {
	if id == p.panicOn {
		panic("boom in dependency lookup")
	}
	return p.fakeSource.GetComponentInfoAndDependencies(ctx, id)
}

func TestResolve_PanicInLookupFailsPass(t *testing.T) {
	src := panickingSource{
		fakeSource: newFakeSource(map[string][]string{
			"R": {"A", "B"},
			"A": {"C"},
			"B": {},
			"C": {},
		}),
		panicOn: "C",
	}

	found, err := NewResolver(src).Resolve(context.Background(), "R")
	require.Error(t, err)
	assert.Nil(t, found)
	assert.Contains(t, err.Error(), "failed to resolve component C")
	assert.Contains(t, err.Error(), "boom in dependency lookup")
}
