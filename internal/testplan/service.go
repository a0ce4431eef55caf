package testplan

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"testplanner/internal/api"
	"testplanner/internal/discovery"
	"testplanner/internal/execution"
	"testplanner/internal/mapping"
	"testplanner/pkg/logging"
	pkgstrings "testplanner/pkg/strings"

	"github.com/google/uuid"
)

// processType restricts input resolution for TEST plans.
const processType = "process"

// Repositories groups the persistence collaborators of the service.
type Repositories struct {
	Plans       api.TestPlanRepository
	EntryPoints api.EntryPointRepository
	Components  api.PlanComponentRepository
	Mappings    api.MappingRepository
	Results     api.ExecutionResultRepository
}

// Service drives test plans through discovery and execution.
type Service struct {
	plans       api.TestPlanRepository
	entryPoints api.EntryPointRepository
	components  api.PlanComponentRepository
	tests       *mapping.Service
	results     api.ExecutionResultRepository
	platforms   api.PlatformFactory
	tasks       *TaskGroup
	concurrency int
	now         func() time.Time
}

var (
	_ api.TestPlanHandler = (*Service)(nil)
	_ api.ResultHandler   = (*Service)(nil)
)

// NewService creates the orchestrator. Background work runs on tasks;
// concurrency bounds the number of tests executed at once per plan.
func NewService(repos Repositories, platforms api.PlatformFactory, tasks *TaskGroup, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = execution.DefaultConcurrency
	}
	return &Service{
		plans:       repos.Plans,
		entryPoints: repos.EntryPoints,
		components:  repos.Components,
		tests:       mapping.NewService(repos.Mappings),
		results:     repos.Results,
		platforms:   platforms,
		tasks:       tasks,
		concurrency: concurrency,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Tasks returns the group running the service's background work.
func (s *Service) Tasks() *TaskGroup {
	return s.tasks
}

// InitiateDiscovery resolves the request inputs on the platform, persists a
// new plan in DISCOVERING and starts discovery in the background. Inputs that
// do not resolve fail the call before anything is saved.
func (s *Service) InitiateDiscovery(ctx context.Context, req api.CreateTestPlanRequest) (*api.TestPlan, error) {
	if err := normalizeCreateRequest(&req); err != nil {
		return nil, err
	}

	platform, err := s.platforms.Create(ctx, req.CredentialProfile)
	if err != nil {
		return nil, err
	}

	roots, err := resolveInputs(ctx, platform, req.PlanType, req.Inputs)
	if err != nil {
		return nil, err
	}

	now := s.now()
	plan := &api.TestPlan{
		ID:        uuid.New().String(),
		Name:      req.Name,
		PlanType:  req.PlanType,
		Status:    api.StatusDiscovering,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.plans.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to save test plan: %w", err)
	}

	entryPoints := make([]api.TestPlanEntryPoint, 0, len(roots))
	for _, root := range roots {
		entryPoints = append(entryPoints, api.TestPlanEntryPoint{
			ID:          uuid.New().String(),
			TestPlanID:  plan.ID,
			ComponentID: root.ID,
		})
	}
	if err := s.entryPoints.SaveAll(ctx, entryPoints); err != nil {
		// A plan whose creation failed must not stay in DISCOVERING.
		if _, delErr := s.plans.DeleteByID(context.WithoutCancel(ctx), plan.ID); delErr != nil {
			logging.Error("TestPlan", delErr, "Failed to remove plan %s after its entry points could not be saved", plan.ID)
		}
		return nil, fmt.Errorf("failed to save entry points of plan %s: %w", plan.ID, err)
	}

	logging.Info("TestPlan", "Created %s plan %s with %d entry point(s)", plan.PlanType, plan.ID, len(entryPoints))

	planID, planType, discover := plan.ID, plan.PlanType, req.DiscoverDependencies
	s.tasks.Go("discovery "+planID,
		func(ctx context.Context) error {
			return s.processDiscovery(ctx, platform, planID, planType, roots, discover)
		},
		func(ctx context.Context, err error) {
			if err != nil {
				s.failPlan(ctx, planID, api.StatusDiscoveryFailed, err)
			}
		})

	created := *plan
	return &created, nil
}

func normalizeCreateRequest(req *api.CreateTestPlanRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.CredentialProfile = strings.TrimSpace(req.CredentialProfile)
	if req.PlanType == "" {
		req.PlanType = api.TestPlanTypeComponent
	}
	if !req.PlanType.Valid() {
		return &api.ValidationError{Field: "planType", Message: fmt.Sprintf("must be %s or %s", api.TestPlanTypeComponent, api.TestPlanTypeTest)}
	}
	if req.CredentialProfile == "" {
		return &api.ValidationError{Field: "credentialProfile", Message: "is required"}
	}

	req.Inputs = api.PlanInputs{
		ComponentIDs:   pkgstrings.Clean(req.Inputs.ComponentIDs),
		ComponentNames: pkgstrings.Clean(req.Inputs.ComponentNames),
		FolderNames:    pkgstrings.Clean(req.Inputs.FolderNames),
	}
	if req.Inputs.IsEmpty() {
		return api.NewValidationError("At least one component id, name or folder is required")
	}
	return nil
}

// resolveInputs looks up every selector on the platform and fails when any
// id, name or folder matched nothing.
func resolveInputs(ctx context.Context, platform api.Platform, planType api.TestPlanType, inputs api.PlanInputs) ([]api.ComponentInfo, error) {
	criteria := api.ComponentSearchCriteria{
		IDs:            inputs.ComponentIDs,
		Names:          inputs.ComponentNames,
		FolderNames:    inputs.FolderNames,
		ExactNameMatch: true,
	}
	if planType == api.TestPlanTypeTest {
		criteria.Types = []string{processType}
	}

	found, err := platform.SearchComponents(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plan inputs: %w", err)
	}

	ids := make(map[string]bool, len(found))
	names := make(map[string]bool, len(found))
	folders := make(map[string]bool, len(found))
	for _, c := range found {
		ids[c.ID] = true
		names[c.Name] = true
		if c.FolderName != "" {
			folders[c.FolderName] = true
		}
	}

	if missing := missingFrom(inputs.ComponentIDs, ids); len(missing) > 0 {
		return nil, api.UnresolvedError("IDs", missing)
	}
	if missing := missingFrom(inputs.ComponentNames, names); len(missing) > 0 {
		return nil, api.UnresolvedError("names", missing)
	}
	if missing := missingFrom(inputs.FolderNames, folders); len(missing) > 0 {
		return nil, api.UnresolvedError("folders", missing)
	}
	return found, nil
}

func missingFrom(requested []string, found map[string]bool) []string {
	var missing []string
	for _, v := range requested {
		if !found[v] {
			missing = append(missing, v)
		}
	}
	return missing
}

// processDiscovery builds the component set of a plan and moves it to
// AWAITING_SELECTION.
func (s *Service) processDiscovery(ctx context.Context, platform api.Platform, planID string, planType api.TestPlanType, roots []api.ComponentInfo, discover bool) error {
	var components []api.PlanComponent
	if planType == api.TestPlanTypeComponent && discover {
		rootIDs := make([]string, 0, len(roots))
		for _, r := range roots {
			rootIDs = append(rootIDs, r.ID)
		}

		resolver := discovery.NewResolver(platform)
		found, err := resolver.Resolve(ctx, rootIDs...)
		if err != nil {
			return fmt.Errorf("dependency discovery failed: %w", err)
		}
		components = discoveredComponents(planID, rootIDs, found)
	} else {
		for _, r := range roots {
			components = append(components, newPlanComponent(planID, r, api.SourceTypeArg))
		}
	}

	if err := s.components.SaveAll(ctx, components); err != nil {
		return fmt.Errorf("failed to save plan components: %w", err)
	}
	if _, err := s.transition(ctx, planID, api.StatusAwaitingSelection, ""); err != nil {
		return err
	}
	logging.Info("TestPlan", "Discovery of plan %s finished with %d component(s)", planID, len(components))
	return nil
}

// discoveredComponents lists roots first, in input order, then every other
// component found, ordered by id.
func discoveredComponents(planID string, rootIDs []string, found map[string]api.ComponentInfo) []api.PlanComponent {
	isRoot := make(map[string]bool, len(rootIDs))
	components := make([]api.PlanComponent, 0, len(found))
	for _, id := range rootIDs {
		isRoot[id] = true
		if info, ok := found[id]; ok {
			components = append(components, newPlanComponent(planID, info, api.SourceTypeArg))
		}
	}

	others := make([]string, 0, len(found))
	for id := range found {
		if !isRoot[id] {
			others = append(others, id)
		}
	}
	sort.Strings(others)
	for _, id := range others {
		components = append(components, newPlanComponent(planID, found[id], api.SourceTypeDiscovered))
	}
	return components
}

func newPlanComponent(planID string, info api.ComponentInfo, source api.SourceType) api.PlanComponent {
	return api.PlanComponent{
		ID:            uuid.New().String(),
		TestPlanID:    planID,
		SourceType:    source,
		ComponentID:   info.ID,
		ComponentName: info.Name,
		ComponentType: info.Type,
	}
}

// ExecuteTestPlan moves the plan to EXECUTING and runs the selected tests in
// the background.
func (s *Service) ExecuteTestPlan(ctx context.Context, req api.ExecuteTestPlanRequest) error {
	req.PlanID = strings.TrimSpace(req.PlanID)
	req.CredentialProfile = strings.TrimSpace(req.CredentialProfile)
	if req.PlanID == "" {
		return &api.ValidationError{Field: "planId", Message: "is required"}
	}
	if req.CredentialProfile == "" {
		return &api.ValidationError{Field: "credentialProfile", Message: "is required"}
	}

	platform, err := s.platforms.Create(ctx, req.CredentialProfile)
	if err != nil {
		return err
	}

	plan, err := s.PrepareForExecution(ctx, req.PlanID)
	if err != nil {
		return err
	}

	tests := pkgstrings.Clean(req.TestsToRun)
	s.tasks.Go("execution "+plan.ID,
		func(ctx context.Context) error {
			_, err := s.runExecution(ctx, plan.ID, platform, tests)
			return err
		},
		func(ctx context.Context, err error) {
			if err != nil {
				s.failPlan(ctx, plan.ID, api.StatusExecutionFailed, err)
			}
		})
	return nil
}

// PrepareForExecution checks that the plan accepts a new run, removes the
// results of any previous run and moves the plan to EXECUTING.
func (s *Service) PrepareForExecution(ctx context.Context, planID string) (*api.TestPlan, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !api.CanStartExecution(plan.Status) {
		return nil, &api.InvalidStateError{PlanID: planID, From: plan.Status, To: api.StatusExecuting}
	}

	if err := s.results.DeleteByTestPlanID(ctx, planID); err != nil {
		return nil, fmt.Errorf("failed to clear previous results of plan %s: %w", planID, err)
	}
	return s.transition(ctx, planID, api.StatusExecuting, "")
}

// RunExecution runs the selected tests of a plan that is already EXECUTING
// and moves it to COMPLETED. Individual test failures are recorded as
// results; only system-level errors are returned.
func (s *Service) RunExecution(ctx context.Context, planID string, testsToRun []string, credentialProfile string) (*execution.Report, error) {
	platform, err := s.platforms.Create(ctx, credentialProfile)
	if err != nil {
		return nil, err
	}
	return s.runExecution(ctx, planID, platform, pkgstrings.Clean(testsToRun))
}

func (s *Service) runExecution(ctx context.Context, planID string, platform api.Platform, testsToRun []string) (*execution.Report, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	components, err := s.components.FindByTestPlanID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan components: %w", err)
	}

	var (
		testIDs []string
		targets map[string]api.PlanComponent
	)
	if plan.PlanType == api.TestPlanTypeTest {
		testIDs, targets = directTargets(components)
	} else {
		testIDs, targets, err = s.mappedTargets(ctx, components)
		if err != nil {
			return nil, err
		}
	}
	if len(testsToRun) > 0 {
		testIDs = testsToRun
	}

	logging.Info("TestPlan", "Executing %d test(s) for plan %s", len(testIDs), planID)
	scheduler := execution.NewScheduler(platform, s.results, s.concurrency)
	report := scheduler.Run(ctx, planID, testIDs, targets)

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("execution interrupted: %w", err)
	}
	if _, err := s.transition(ctx, planID, api.StatusCompleted, ""); err != nil {
		return report, err
	}
	return report, nil
}

// directTargets maps every component of a TEST plan to itself.
func directTargets(components []api.PlanComponent) ([]string, map[string]api.PlanComponent) {
	testIDs := make([]string, 0, len(components))
	targets := make(map[string]api.PlanComponent, len(components))
	for _, pc := range components {
		if _, ok := targets[pc.ComponentID]; ok {
			continue
		}
		targets[pc.ComponentID] = pc
		testIDs = append(testIDs, pc.ComponentID)
	}
	return testIDs, targets
}

// mappedTargets collects the tests registered against the components of a
// COMPONENT plan. A test mapped to several components runs against the first.
func (s *Service) mappedTargets(ctx context.Context, components []api.PlanComponent) ([]string, map[string]api.PlanComponent, error) {
	ids := make([]string, 0, len(components))
	for _, pc := range components {
		ids = append(ids, pc.ComponentID)
	}
	tests, err := s.tests.TestsForComponents(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up mapped tests: %w", err)
	}

	var testIDs []string
	targets := make(map[string]api.PlanComponent)
	for _, pc := range components {
		for _, test := range tests[pc.ComponentID] {
			if _, ok := targets[test.ID]; ok {
				continue
			}
			targets[test.ID] = pc
			testIDs = append(testIDs, test.ID)
		}
	}
	return testIDs, targets, nil
}

// transition moves a plan to status to, enforcing the plan state machine.
func (s *Service) transition(ctx context.Context, planID string, to api.TestPlanStatus, reason string) (*api.TestPlan, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !api.CanTransition(plan.Status, to) {
		return nil, &api.InvalidStateError{PlanID: planID, From: plan.Status, To: to}
	}

	from := plan.Status
	plan.Status = to
	plan.FailureReason = reason
	plan.UpdatedAt = s.now()
	if err := s.plans.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update plan %s: %w", planID, err)
	}
	logging.Debug("TestPlan", "Plan %s moved from %s to %s", planID, from, to)
	return plan, nil
}

// failPlan records a background failure on the plan.
func (s *Service) failPlan(ctx context.Context, planID string, status api.TestPlanStatus, cause error) {
	_, err := s.transition(ctx, planID, status, cause.Error())
	switch {
	case err == nil:
		logging.Error("TestPlan", cause, "Plan %s failed", planID)
	case api.IsNotFound(err):
		logging.Warn("TestPlan", "Plan %s was deleted while running: %v", planID, cause)
	default:
		logging.Error("TestPlan", cause, "Plan %s failed", planID)
		logging.Error("TestPlan", err, "Failed to mark plan %s as %s", planID, status)
	}
}

// GetTestPlan returns a plan with its entry points, components, available
// tests and latest results.
func (s *Service) GetTestPlan(ctx context.Context, planID string) (*api.TestPlanWithDetails, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	entryPoints, err := s.entryPoints.FindByTestPlanID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry points: %w", err)
	}
	components, err := s.components.FindByTestPlanID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan components: %w", err)
	}

	available, err := s.availableTests(ctx, plan.PlanType, components)
	if err != nil {
		return nil, err
	}

	pcIDs := make([]string, 0, len(components))
	for _, pc := range components {
		pcIDs = append(pcIDs, pc.ID)
	}
	results, err := s.results.FindByPlanComponentIDs(ctx, planID, pcIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	resultsByComponent := make(map[string][]api.TestExecutionResult)
	for _, r := range results {
		resultsByComponent[r.PlanComponentID] = append(resultsByComponent[r.PlanComponentID], r)
	}

	details := &api.TestPlanWithDetails{
		TestPlan:       *plan,
		EntryPoints:    entryPoints,
		PlanComponents: make([]api.PlanComponentDetails, 0, len(components)),
	}
	for _, pc := range components {
		details.PlanComponents = append(details.PlanComponents, api.PlanComponentDetails{
			PlanComponent:    pc,
			AvailableTests:   nonNil(available[pc.ComponentID]),
			ExecutionResults: nonNil(resultsByComponent[pc.ID]),
		})
	}
	return details, nil
}

func (s *Service) availableTests(ctx context.Context, planType api.TestPlanType, components []api.PlanComponent) (map[string][]api.AvailableTest, error) {
	if planType == api.TestPlanTypeTest {
		tests := make(map[string][]api.AvailableTest, len(components))
		for _, pc := range components {
			tests[pc.ComponentID] = []api.AvailableTest{{ID: pc.ComponentID, Name: pc.ComponentName}}
		}
		return tests, nil
	}

	ids := make([]string, 0, len(components))
	for _, pc := range components {
		ids = append(ids, pc.ComponentID)
	}
	tests, err := s.tests.TestsForComponents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to look up mapped tests: %w", err)
	}
	return tests, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// ListTestPlans returns every plan, newest first.
func (s *Service) ListTestPlans(ctx context.Context) ([]*api.TestPlan, error) {
	return s.plans.FindAll(ctx)
}

// DeleteTestPlan removes a plan with its entry points, components and results.
func (s *Service) DeleteTestPlan(ctx context.Context, planID string) error {
	deleted, err := s.plans.DeleteByID(ctx, planID)
	if err != nil {
		return fmt.Errorf("failed to delete plan %s: %w", planID, err)
	}
	if !deleted {
		return api.NewNotFoundError("test plan", planID)
	}
	logging.Info("TestPlan", "Deleted plan %s", planID)
	return nil
}

// GetResults returns the enriched results matching filter. An empty filter
// matches nothing.
func (s *Service) GetResults(ctx context.Context, filter api.ResultFilter) ([]api.TestExecutionResult, error) {
	if filter.Status != "" && filter.Status != api.ExecutionSuccess && filter.Status != api.ExecutionFailure {
		return nil, &api.ValidationError{Field: "status", Message: fmt.Sprintf("must be %s or %s", api.ExecutionSuccess, api.ExecutionFailure)}
	}
	results, err := s.results.FindByFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	return results, nil
}
