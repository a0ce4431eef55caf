package api

import "context"

// TestPlanRepository persists test plan aggregates.
type TestPlanRepository interface {
	Save(ctx context.Context, plan *TestPlan) error
	// FindByID returns a *NotFoundError when no plan has the given id.
	FindByID(ctx context.Context, id string) (*TestPlan, error)
	Update(ctx context.Context, plan *TestPlan) error
	FindAll(ctx context.Context) ([]*TestPlan, error)
	// DeleteByID removes the plan and everything it owns. It returns
	// false when the plan did not exist.
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// EntryPointRepository persists the resolved roots of a plan.
type EntryPointRepository interface {
	SaveAll(ctx context.Context, entryPoints []TestPlanEntryPoint) error
	FindByTestPlanID(ctx context.Context, planID string) ([]TestPlanEntryPoint, error)
}

// PlanComponentRepository persists the components participating in a plan.
type PlanComponentRepository interface {
	SaveAll(ctx context.Context, components []PlanComponent) error
	FindByTestPlanID(ctx context.Context, planID string) ([]PlanComponent, error)
}

// MappingRepository persists main-component to test-component mappings.
type MappingRepository interface {
	Create(ctx context.Context, m *Mapping) error
	FindByID(ctx context.Context, id string) (*Mapping, error)
	FindAll(ctx context.Context) ([]*Mapping, error)
	FindByMainComponentID(ctx context.Context, mainComponentID string) ([]*Mapping, error)
	Update(ctx context.Context, m *Mapping) error
	Delete(ctx context.Context, id string) (bool, error)
	// FindAllTestsForMainComponents returns the registered tests keyed by
	// main component id. Ids without any mapping are absent from the map.
	FindAllTestsForMainComponents(ctx context.Context, mainComponentIDs []string) (map[string][]AvailableTest, error)
}

// ExecutionResultRepository persists per-test outcomes.
type ExecutionResultRepository interface {
	Save(ctx context.Context, result *TestExecutionResult) error
	FindByPlanComponentIDs(ctx context.Context, planID string, planComponentIDs []string) ([]TestExecutionResult, error)
	// FindByFilter returns enriched results. An empty filter yields no results.
	FindByFilter(ctx context.Context, filter ResultFilter) ([]TestExecutionResult, error)
	DeleteByTestPlanID(ctx context.Context, planID string) error
}

// CredentialStore holds named platform credential profiles.
type CredentialStore interface {
	Add(ctx context.Context, profileName string, creds Credentials) error
	Get(ctx context.Context, profileName string) (*Credentials, error)
	List(ctx context.Context) ([]CredentialProfile, error)
	Delete(ctx context.Context, profileName string) (bool, error)
}

// Platform is the adapter to the remote integration platform.
//
// Lookup methods return (nil, nil) for components the platform does not know.
// ExecuteTestProcess reports platform failures inside the returned result and
// only returns an error when ctx is cancelled.
type Platform interface {
	SearchComponents(ctx context.Context, criteria ComponentSearchCriteria) ([]ComponentInfo, error)
	GetComponentInfo(ctx context.Context, componentID string) (*ComponentInfo, error)
	GetComponentInfoAndDependencies(ctx context.Context, componentID string) (*ComponentInfo, error)
	ExecuteTestProcess(ctx context.Context, componentID string) (PlatformExecutionResult, error)
}

// PlatformFactory builds a Platform bound to a credential profile.
type PlatformFactory interface {
	Create(ctx context.Context, profileName string) (Platform, error)
}
