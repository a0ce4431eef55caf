package testplan

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"testplanner/internal/api"
	"testplanner/internal/store"
	"testplanner/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProfile = "default"

// fakePlatform is an in-memory api.Platform.
type fakePlatform struct {
	mu         sync.Mutex
	components map[string]api.ComponentInfo
	searches   []api.ComponentSearchCriteria
	executed   []string

	depsErr   error
	depsPanic string
	execute   func(ctx context.Context, id string) (api.PlatformExecutionResult, error)
}

func newFakePlatform(components ...api.ComponentInfo) *fakePlatform {
	p := &fakePlatform{components: make(map[string]api.ComponentInfo)}
	for _, c := range components {
		p.components[c.ID] = c
	}
	return p
}

func (p *fakePlatform) SearchComponents(ctx context.Context, criteria api.ComponentSearchCriteria) ([]api.ComponentInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.searches = append(p.searches, criteria)

	var found []api.ComponentInfo
	for _, c := range p.components {
		if len(criteria.Types) > 0 && !contains(criteria.Types, c.Type) {
			continue
		}
		if contains(criteria.IDs, c.ID) || contains(criteria.Names, c.Name) || contains(criteria.FolderNames, c.FolderName) {
			found = append(found, c)
		}
	}
	return found, nil
}

func (p *fakePlatform) GetComponentInfo(ctx context.Context, id string) (*api.ComponentInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.components[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (p *fakePlatform) GetComponentInfoAndDependencies(ctx context.Context, id string) (*api.ComponentInfo, error) {
	if p.depsPanic != "" {
		panic(p.depsPanic)
	}
	if p.depsErr != nil {
		return nil, p.depsErr
	}
	return p.GetComponentInfo(ctx, id)
}

func (p *fakePlatform) ExecuteTestProcess(ctx context.Context, id string) (api.PlatformExecutionResult, error) {
	p.mu.Lock()
	p.executed = append(p.executed, id)
	execute := p.execute
	p.mu.Unlock()

	if execute != nil {
		return execute(ctx, id)
	}
	return api.PlatformExecutionResult{Status: api.ExecutionSuccess, Message: "Passed"}, nil
}

func (p *fakePlatform) lastSearch() api.ComponentSearchCriteria {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.searches[len(p.searches)-1]
}

func (p *fakePlatform) executedIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.executed...)
}

type fakeFactory struct {
	platform api.Platform
}

func (f fakeFactory) Create(ctx context.Context, profile string) (api.Platform, error) {
	if profile != testProfile {
		return nil, api.NewNotFoundError("credential profile", profile)
	}
	return f.platform, nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func newTestService(t *testing.T, platform api.Platform, concurrency int) (*Service, *store.Store) {
	t.Helper()
	st := store.New(t.TempDir())
	tasks := NewTaskGroup(context.Background())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tasks.Shutdown(ctx)
	})

	svc := NewService(Repositories{
		Plans:       st.Plans,
		EntryPoints: st.EntryPoints,
		Components:  st.Components,
		Mappings:    st.Mappings,
		Results:     st.Results,
	}, fakeFactory{platform: platform}, tasks, concurrency)
	return svc, st
}

func addMapping(t *testing.T, st *store.Store, id, mainID, testID string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, st.Mappings.Create(context.Background(), &api.Mapping{
		ID:                id,
		MainComponentID:   mainID,
		TestComponentID:   testID,
		TestComponentName: "Test " + testID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}))
}

func createPlan(t *testing.T, svc *Service, req api.CreateTestPlanRequest) *api.TestPlan {
	t.Helper()
	if req.CredentialProfile == "" {
		req.CredentialProfile = testProfile
	}
	plan, err := svc.InitiateDiscovery(context.Background(), req)
	require.NoError(t, err)
	svc.Tasks().Wait()
	return plan
}

func component(id string, deps ...string) api.ComponentInfo {
	return api.ComponentInfo{ID: id, Name: "Comp " + id, Type: "process", DependencyIDs: deps}
}

func TestInitiateDiscovery_DiscoversDependencyGraph(t *testing.T) {
	platform := newFakePlatform(
		component("R", "A", "B"),
		component("A", "C"),
		component("B", "C"),
		component("C"),
	)
	svc, st := newTestService(t, platform, 2)
	addMapping(t, st, "m1", "C", "T1")

	plan := createPlan(t, svc, api.CreateTestPlanRequest{
		Name:                 "graph",
		PlanType:             api.TestPlanTypeComponent,
		Inputs:               api.PlanInputs{ComponentIDs: []string{"R"}},
		DiscoverDependencies: true,
	})
	assert.Equal(t, api.StatusDiscovering, plan.Status)
	assert.True(t, platform.lastSearch().ExactNameMatch)
	assert.Empty(t, platform.lastSearch().Types)

	details, err := svc.GetTestPlan(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, api.StatusAwaitingSelection, details.Status)
	require.Len(t, details.EntryPoints, 1)
	assert.Equal(t, "R", details.EntryPoints[0].ComponentID)
	require.Len(t, details.PlanComponents, 4)

	byID := make(map[string]api.PlanComponentDetails)
	for _, pc := range details.PlanComponents {
		byID[pc.ComponentID] = pc
	}
	assert.Equal(t, api.SourceTypeArg, byID["R"].SourceType)
	for _, id := range []string{"A", "B", "C"} {
		assert.Equal(t, api.SourceTypeDiscovered, byID[id].SourceType, id)
	}
	assert.Equal(t, []api.AvailableTest{{ID: "T1", Name: "Test T1"}}, byID["C"].AvailableTests)
	assert.Empty(t, byID["A"].AvailableTests)
}

func TestInitiateDiscovery_WithoutDiscoveryUsesResolvedInputs(t *testing.T) {
	platform := newFakePlatform(component("A", "B"), component("B"))
	svc, _ := newTestService(t, platform, 2)

	plan := createPlan(t, svc, api.CreateTestPlanRequest{
		Inputs: api.PlanInputs{ComponentNames: []string{"Comp A"}},
	})
	assert.Equal(t, api.TestPlanTypeComponent, plan.PlanType)

	details, err := svc.GetTestPlan(context.Background(), plan.ID)
	require.NoError(t, err)
	require.Len(t, details.PlanComponents, 1)
	assert.Equal(t, "A", details.PlanComponents[0].ComponentID)
	assert.Equal(t, api.SourceTypeArg, details.PlanComponents[0].SourceType)
}

func TestInitiateDiscovery_UnresolvedNameFailsBeforeSaving(t *testing.T) {
	platform := newFakePlatform(api.ComponentInfo{ID: "found-1", Name: "Found Process", Type: "process"})
	svc, _ := newTestService(t, platform, 2)

	_, err := svc.InitiateDiscovery(context.Background(), api.CreateTestPlanRequest{
		PlanType:          api.TestPlanTypeComponent,
		Inputs:            api.PlanInputs{ComponentNames: []string{"Missing Process", "Found Process"}},
		CredentialProfile: testProfile,
	})
	require.Error(t, err)
	assert.True(t, api.IsValidation(err))
	assert.Contains(t, err.Error(), "Could not resolve the following names: Missing Process")

	plans, err := svc.ListTestPlans(context.Background())
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestInitiateDiscovery_UnresolvedFolder(t *testing.T) {
	platform := newFakePlatform(api.ComponentInfo{ID: "a", Name: "A", Type: "process", FolderName: "Tests"})
	svc, _ := newTestService(t, platform, 2)

	_, err := svc.InitiateDiscovery(context.Background(), api.CreateTestPlanRequest{
		Inputs:            api.PlanInputs{FolderNames: []string{"Tests", "Nope"}},
		CredentialProfile: testProfile,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not resolve the following folders: Nope")
}

func TestInitiateDiscovery_Validation(t *testing.T) {
	svc, _ := newTestService(t, newFakePlatform(), 2)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   api.CreateTestPlanRequest
		check func(error) bool
	}{
		{
			name:  "no inputs",
			req:   api.CreateTestPlanRequest{CredentialProfile: testProfile},
			check: api.IsValidation,
		},
		{
			name:  "blank inputs only",
			req:   api.CreateTestPlanRequest{CredentialProfile: testProfile, Inputs: api.PlanInputs{ComponentIDs: []string{" ", ""}}},
			check: api.IsValidation,
		},
		{
			name:  "unknown plan type",
			req:   api.CreateTestPlanRequest{PlanType: "SUITE", CredentialProfile: testProfile, Inputs: api.PlanInputs{ComponentIDs: []string{"a"}}},
			check: api.IsValidation,
		},
		{
			name:  "missing profile",
			req:   api.CreateTestPlanRequest{Inputs: api.PlanInputs{ComponentIDs: []string{"a"}}},
			check: api.IsValidation,
		},
		{
			name:  "unknown profile",
			req:   api.CreateTestPlanRequest{CredentialProfile: "other", Inputs: api.PlanInputs{ComponentIDs: []string{"a"}}},
			check: api.IsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.InitiateDiscovery(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error type: %v", err)
		})
	}
}

func TestInitiateDiscovery_PlatformErrorFailsDiscovery(t *testing.T) {
	platform := newFakePlatform(component("R", "A"))
	platform.depsErr = errors.New("Integration API failure")
	svc, _ := newTestService(t, platform, 2)

	plan := createPlan(t, svc, api.CreateTestPlanRequest{
		Inputs:               api.PlanInputs{ComponentIDs: []string{"R"}},
		DiscoverDependencies: true,
	})

	got, err := svc.GetTestPlan(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, api.StatusDiscoveryFailed, got.Status)
	assert.Contains(t, got.FailureReason, "Integration API failure")
	assert.Empty(t, got.PlanComponents)
}

func TestInitiateDiscovery_PanicInDependencyLookupFailsDiscovery(t *testing.T) {
	platform := newFakePlatform(component("R", "A"), component("A"))
	platform.depsPanic = "boom in dependency lookup"
	svc, _ := newTestService(t, platform, 2)

	plan := createPlan(t, svc, api.CreateTestPlanRequest{
		Inputs:               api.PlanInputs{ComponentIDs: []string{"R"}},
		DiscoverDependencies: true,
	})

	got, err := svc.GetTestPlan(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, api.StatusDiscoveryFailed, got.Status)
	assert.Contains(t, got.FailureReason, "boom in dependency lookup")
}

// failingEntryPoints rejects every write.
type failingEntryPoints struct {
	api.EntryPointRepository
}

func (failingEntryPoints) SaveAll(ctx context.Context, entryPoints []api.TestPlanEntryPoint) error {
	return errors.New("disk full")
}

func TestInitiateDiscovery_EntryPointFailureRemovesPlan(t *testing.T) {
	svc, st := newTestService(t, newFakePlatform(component("A")), 2)
	svc.entryPoints = failingEntryPoints{st.EntryPoints}

	_, err := svc.InitiateDiscovery(context.Background(), api.CreateTestPlanRequest{
		Inputs:            api.PlanInputs{ComponentIDs: []string{"A"}},
		CredentialProfile: testProfile,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Zero(t, svc.Tasks().Active())

	plans, err := st.Plans.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestInitiateDiscovery_TestPlanRestrictsToProcesses(t *testing.T) {
	platform := newFakePlatform(
		api.ComponentInfo{ID: "t1", Name: "My Test", Type: "process"},
		api.ComponentInfo{ID: "map1", Name: "My Test", Type: "transform.map"},
	)
	svc, _ := newTestService(t, platform, 2)

	plan := createPlan(t, svc, api.CreateTestPlanRequest{
		PlanType: api.TestPlanTypeTest,
		Inputs:   api.PlanInputs{ComponentNames: []string{"My Test"}},
	})
	assert.Equal(t, []string{"process"}, platform.lastSearch().Types)

	details, err := svc.GetTestPlan(context.Background(), plan.ID)
	require.NoError(t, err)
	require.Len(t, details.PlanComponents, 1)
	assert.Equal(t, "t1", details.PlanComponents[0].ComponentID)
	assert.Equal(t, []api.AvailableTest{{ID: "t1", Name: "My Test"}}, details.PlanComponents[0].AvailableTests)
}

func TestExecuteTestPlan_ErroringTestStillCompletes(t *testing.T) {
	platform := newFakePlatform(component("A"))
	platform.execute = func(ctx context.Context, id string) (api.PlatformExecutionResult, error) {
		if id == "T2" {
			return api.PlatformExecutionResult{}, errors.New("boom")
		}
		return api.PlatformExecutionResult{Status: api.ExecutionSuccess, Message: "Passed"}, nil
	}
	svc, st := newTestService(t, platform, 2)
	addMapping(t, st, "m1", "A", "T1")
	addMapping(t, st, "m2", "A", "T2")

	plan := createPlan(t, svc, api.CreateTestPlanRequest{Inputs: api.PlanInputs{ComponentIDs: []string{"A"}}})

	require.NoError(t, svc.ExecuteTestPlan(context.Background(), api.ExecuteTestPlanRequest{
		PlanID:            plan.ID,
		CredentialProfile: testProfile,
	}))
	svc.Tasks().Wait()

	details, err := svc.GetTestPlan(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, api.StatusCompleted, details.Status)
	assert.Empty(t, details.FailureReason)

	require.Len(t, details.PlanComponents, 1)
	results := details.PlanComponents[0].ExecutionResults
	require.Len(t, results, 2)

	byTest := make(map[string]api.TestExecutionResult)
	for _, r := range results {
		byTest[r.TestComponentID] = r
	}
	assert.Equal(t, api.ExecutionSuccess, byTest["T1"].Status)
	assert.Equal(t, "Passed", byTest["T1"].Message)
	assert.Equal(t, api.ExecutionFailure, byTest["T2"].Status)
	assert.Equal(t, "Test execution failed: boom", byTest["T2"].Message)
}

func TestExecuteTestPlan_RerunReplacesResults(t *testing.T) {
	platform := newFakePlatform(component("A"))
	svc, st := newTestService(t, platform, 2)
	addMapping(t, st, "m1", "A", "T1")

	plan := createPlan(t, svc, api.CreateTestPlanRequest{Inputs: api.PlanInputs{ComponentIDs: []string{"A"}}})
	req := api.ExecuteTestPlanRequest{PlanID: plan.ID, CredentialProfile: testProfile}

	for i := 0; i < 2; i++ {
		require.NoError(t, svc.ExecuteTestPlan(context.Background(), req))
		svc.Tasks().Wait()

		details, err := svc.GetTestPlan(context.Background(), plan.ID)
		require.NoError(t, err)
		assert.Equal(t, api.StatusCompleted, details.Status)
		assert.Len(t, details.PlanComponents[0].ExecutionResults, 1, "run %d", i+1)
	}
	assert.Equal(t, []string{"T1", "T1"}, platform.executedIDs())
}

func TestExecuteTestPlan_TestModeSubset(t *testing.T) {
	platform := newFakePlatform(
		api.ComponentInfo{ID: "t1", Name: "Test 1", Type: "process"},
		api.ComponentInfo{ID: "t2", Name: "Test 2", Type: "process"},
	)
	svc, st := newTestService(t, platform, 2)
	addMapping(t, st, "m1", "t1", "should-not-run")

	plan := createPlan(t, svc, api.CreateTestPlanRequest{
		PlanType: api.TestPlanTypeTest,
		Inputs:   api.PlanInputs{ComponentIDs: []string{"t1", "t2"}},
	})

	require.NoError(t, svc.ExecuteTestPlan(context.Background(), api.ExecuteTestPlanRequest{
		PlanID:            plan.ID,
		TestsToRun:        []string{"t2", "unknown"},
		CredentialProfile: testProfile,
	}))
	svc.Tasks().Wait()

	assert.Equal(t, []string{"t2"}, platform.executedIDs())

	got, err := st.Plans.FindByID(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, api.StatusCompleted, got.Status)
}

func TestExecuteTestPlan_RejectsInvalidState(t *testing.T) {
	svc, st := newTestService(t, newFakePlatform(), 2)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, st.Plans.Save(ctx, &api.TestPlan{
		ID:        "busy",
		PlanType:  api.TestPlanTypeComponent,
		Status:    api.StatusDiscovering,
		CreatedAt: now,
		UpdatedAt: now,
	}))

	err := svc.ExecuteTestPlan(ctx, api.ExecuteTestPlanRequest{PlanID: "busy", CredentialProfile: testProfile})
	require.Error(t, err)
	assert.True(t, api.IsConflict(err))

	var stateErr *api.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, api.StatusDiscovering, stateErr.From)

	err = svc.ExecuteTestPlan(ctx, api.ExecuteTestPlanRequest{PlanID: "missing", CredentialProfile: testProfile})
	assert.True(t, api.IsNotFound(err))

	err = svc.ExecuteTestPlan(ctx, api.ExecuteTestPlanRequest{PlanID: "busy", CredentialProfile: "other"})
	assert.True(t, api.IsNotFound(err))

	err = svc.ExecuteTestPlan(ctx, api.ExecuteTestPlanRequest{PlanID: "busy"})
	assert.True(t, api.IsValidation(err))
}

func TestRunExecution_RespectsConcurrencyLimit(t *testing.T) {
	var running, peak atomic.Int32
	platform := newFakePlatform(component("A"))
	platform.execute = func(ctx context.Context, id string) (api.PlatformExecutionResult, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		running.Add(-1)
		return api.PlatformExecutionResult{Status: api.ExecutionSuccess, Message: "Passed"}, nil
	}
	svc, st := newTestService(t, platform, 2)
	addMapping(t, st, "m1", "A", "T1")
	addMapping(t, st, "m2", "A", "T2")
	addMapping(t, st, "m3", "A", "T3")

	plan := createPlan(t, svc, api.CreateTestPlanRequest{Inputs: api.PlanInputs{ComponentIDs: []string{"A"}}})

	_, err := svc.PrepareForExecution(context.Background(), plan.ID)
	require.NoError(t, err)

	report, err := svc.RunExecution(context.Background(), plan.ID, nil, testProfile)
	require.NoError(t, err)
	assert.Len(t, report.Outcomes(), 3)
	assert.LessOrEqual(t, report.MaxInFlight(), 2)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Len(t, platform.executedIDs(), 3)
}

func TestRunExecution_CancelledFailsPlan(t *testing.T) {
	platform := newFakePlatform(component("A"))
	platform.execute = func(ctx context.Context, id string) (api.PlatformExecutionResult, error) {
		<-ctx.Done()
		return api.PlatformExecutionResult{}, ctx.Err()
	}
	svc, st := newTestService(t, platform, 2)
	addMapping(t, st, "m1", "A", "T1")

	plan := createPlan(t, svc, api.CreateTestPlanRequest{Inputs: api.PlanInputs{ComponentIDs: []string{"A"}}})
	require.NoError(t, svc.ExecuteTestPlan(context.Background(), api.ExecuteTestPlanRequest{
		PlanID:            plan.ID,
		CredentialProfile: testProfile,
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, svc.Tasks().Shutdown(ctx))

	got, err := st.Plans.FindByID(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, api.StatusExecutionFailed, got.Status)
	assert.Contains(t, got.FailureReason, "execution interrupted")
}

func TestExecuteTestPlan_DeletedWhileRunning(t *testing.T) {
	var logs bytes.Buffer
	logging.Init(logging.LevelInfo, logging.FormatText, &logs)
	t.Cleanup(func() { logging.Init(logging.LevelInfo, logging.FormatText, os.Stderr) })

	started := make(chan struct{})
	release := make(chan struct{})
	platform := newFakePlatform(component("A"))
	platform.execute = func(ctx context.Context, id string) (api.PlatformExecutionResult, error) {
		close(started)
		<-release
		return api.PlatformExecutionResult{Status: api.ExecutionSuccess, Message: "Passed"}, nil
	}
	svc, st := newTestService(t, platform, 2)
	addMapping(t, st, "m1", "A", "T1")

	plan := createPlan(t, svc, api.CreateTestPlanRequest{Inputs: api.PlanInputs{ComponentIDs: []string{"A"}}})
	require.NoError(t, svc.ExecuteTestPlan(context.Background(), api.ExecuteTestPlanRequest{
		PlanID:            plan.ID,
		CredentialProfile: testProfile,
	}))

	<-started
	require.NoError(t, svc.DeleteTestPlan(context.Background(), plan.ID))
	close(release)
	svc.Tasks().Wait()

	results, err := st.Results.FindByFilter(context.Background(), api.ResultFilter{TestPlanID: plan.ID})
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = st.Plans.FindByID(context.Background(), plan.ID)
	assert.True(t, api.IsNotFound(err))

	assert.Contains(t, logs.String(), "was deleted while running")
	assert.NotContains(t, logs.String(), "level=ERROR")
}

func TestDeleteTestPlan(t *testing.T) {
	svc, _ := newTestService(t, newFakePlatform(component("A")), 2)
	plan := createPlan(t, svc, api.CreateTestPlanRequest{Inputs: api.PlanInputs{ComponentIDs: []string{"A"}}})

	require.NoError(t, svc.DeleteTestPlan(context.Background(), plan.ID))

	_, err := svc.GetTestPlan(context.Background(), plan.ID)
	assert.True(t, api.IsNotFound(err))

	err = svc.DeleteTestPlan(context.Background(), plan.ID)
	assert.True(t, api.IsNotFound(err))
}

func TestGetResults(t *testing.T) {
	platform := newFakePlatform(component("A"))
	svc, st := newTestService(t, platform, 2)
	addMapping(t, st, "m1", "A", "T1")

	plan := createPlan(t, svc, api.CreateTestPlanRequest{Name: "nightly", Inputs: api.PlanInputs{ComponentIDs: []string{"A"}}})
	require.NoError(t, svc.ExecuteTestPlan(context.Background(), api.ExecuteTestPlanRequest{PlanID: plan.ID, CredentialProfile: testProfile}))
	svc.Tasks().Wait()

	results, err := svc.GetResults(context.Background(), api.ResultFilter{})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = svc.GetResults(context.Background(), api.ResultFilter{TestPlanID: plan.ID})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "T1", results[0].TestComponentID)
	assert.Equal(t, "nightly", results[0].TestPlanName)

	_, err = svc.GetResults(context.Background(), api.ResultFilter{Status: "MAYBE"})
	assert.True(t, api.IsValidation(err))
}
