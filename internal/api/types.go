package api

import "time"

// TestPlanType selects how a plan interprets its inputs.
//
// A COMPONENT plan treats the inputs as main components: it optionally walks
// their dependency graph and runs the tests mapped to every component found.
// A TEST plan treats the inputs as test processes and runs them directly.
// The type is fixed when the plan is created.
type TestPlanType string

const (
	TestPlanTypeComponent TestPlanType = "COMPONENT"
	TestPlanTypeTest      TestPlanType = "TEST"
)

// Valid reports whether t is a known plan type.
func (t TestPlanType) Valid() bool {
	return t == TestPlanTypeComponent || t == TestPlanTypeTest
}

// TestPlanStatus is the lifecycle state of a test plan.
type TestPlanStatus string

const (
	StatusDiscovering       TestPlanStatus = "DISCOVERING"
	StatusAwaitingSelection TestPlanStatus = "AWAITING_SELECTION"
	StatusExecuting         TestPlanStatus = "EXECUTING"
	StatusCompleted         TestPlanStatus = "COMPLETED"
	StatusDiscoveryFailed   TestPlanStatus = "DISCOVERY_FAILED"
	StatusExecutionFailed   TestPlanStatus = "EXECUTION_FAILED"
)

// transitions lists, for every status, the statuses it may move to.
var transitions = map[TestPlanStatus][]TestPlanStatus{
	StatusDiscovering:       {StatusAwaitingSelection, StatusDiscoveryFailed},
	StatusAwaitingSelection: {StatusExecuting},
	StatusCompleted:         {StatusExecuting},
	StatusExecutionFailed:   {StatusExecuting},
	StatusDiscoveryFailed:   {StatusExecuting},
	StatusExecuting:         {StatusCompleted, StatusExecutionFailed},
}

// CanTransition reports whether a plan in status from may move to status to.
func CanTransition(from, to TestPlanStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanStartExecution reports whether a plan in the given status accepts a new
// execution request.
func CanStartExecution(s TestPlanStatus) bool {
	return CanTransition(s, StatusExecuting)
}

// IsTerminal reports whether no background work is pending for a plan in s.
func (s TestPlanStatus) IsTerminal() bool {
	switch s {
	case StatusDiscovering, StatusExecuting:
		return false
	default:
		return true
	}
}

// SourceType records how a component became part of a plan.
type SourceType string

const (
	// SourceTypeArg marks a component named directly in the plan inputs.
	SourceTypeArg SourceType = "ARG"
	// SourceTypeDiscovered marks a component reached through dependency traversal.
	SourceTypeDiscovered SourceType = "DISCOVERED"
)

// TestPlan is the aggregate root of one discovery + execution run.
type TestPlan struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name,omitempty" yaml:"name,omitempty"`
	PlanType      TestPlanType   `json:"planType" yaml:"planType"`
	Status        TestPlanStatus `json:"status" yaml:"status"`
	FailureReason string         `json:"failureReason,omitempty" yaml:"failureReason,omitempty"`
	CreatedAt     time.Time      `json:"createdAt" yaml:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt" yaml:"updatedAt"`
}

// TestPlanEntryPoint is a root component id supplied (after resolution) at plan creation.
type TestPlanEntryPoint struct {
	ID          string `json:"id" yaml:"id"`
	TestPlanID  string `json:"testPlanId" yaml:"testPlanId"`
	ComponentID string `json:"componentId" yaml:"componentId"`
}

// PlanComponent is one component participating in a plan.
type PlanComponent struct {
	ID            string     `json:"id" yaml:"id"`
	TestPlanID    string     `json:"testPlanId" yaml:"testPlanId"`
	SourceType    SourceType `json:"sourceType" yaml:"sourceType"`
	ComponentID   string     `json:"componentId" yaml:"componentId"`
	ComponentName string     `json:"componentName,omitempty" yaml:"componentName,omitempty"`
	ComponentType string     `json:"componentType,omitempty" yaml:"componentType,omitempty"`
}

// Mapping registers a test component against a main component.
type Mapping struct {
	ID                string    `json:"id" yaml:"id"`
	MainComponentID   string    `json:"mainComponentId" yaml:"mainComponentId"`
	MainComponentName string    `json:"mainComponentName,omitempty" yaml:"mainComponentName,omitempty"`
	TestComponentID   string    `json:"testComponentId" yaml:"testComponentId"`
	TestComponentName string    `json:"testComponentName,omitempty" yaml:"testComponentName,omitempty"`
	IsDeployed        *bool     `json:"isDeployed,omitempty" yaml:"isDeployed,omitempty"`
	IsPackaged        *bool     `json:"isPackaged,omitempty" yaml:"isPackaged,omitempty"`
	CreatedAt         time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// AvailableTest is a test registered against a main component.
type AvailableTest struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// ExecutionStatus is the outcome of one test execution.
type ExecutionStatus string

const (
	ExecutionSuccess ExecutionStatus = "SUCCESS"
	ExecutionFailure ExecutionStatus = "FAILURE"
)

// TestCaseStatus is the outcome of a single assertion inside a test process.
type TestCaseStatus string

const (
	TestCasePassed TestCaseStatus = "PASSED"
	TestCaseFailed TestCaseStatus = "FAILED"
)

// TestCaseResult is one parsed test case reported by the platform.
type TestCaseResult struct {
	TestCaseID      string         `json:"testCaseId" yaml:"testCaseId"`
	TestDescription string         `json:"testDescription" yaml:"testDescription"`
	Status          TestCaseStatus `json:"status" yaml:"status"`
	Details         string         `json:"details,omitempty" yaml:"details,omitempty"`
}

// TestExecutionResult is the persisted outcome of executing one test for one
// plan component. The enriched name fields are filled when reading.
type TestExecutionResult struct {
	ID                string           `json:"id" yaml:"id"`
	TestPlanID        string           `json:"testPlanId" yaml:"testPlanId"`
	TestPlanName      string           `json:"testPlanName,omitempty" yaml:"-"`
	PlanComponentID   string           `json:"planComponentId" yaml:"planComponentId"`
	ComponentName     string           `json:"componentName,omitempty" yaml:"-"`
	TestComponentID   string           `json:"testComponentId" yaml:"testComponentId"`
	TestComponentName string           `json:"testComponentName,omitempty" yaml:"-"`
	Status            ExecutionStatus  `json:"status" yaml:"status"`
	Message           string           `json:"message,omitempty" yaml:"message,omitempty"`
	TestCases         []TestCaseResult `json:"testCases,omitempty" yaml:"testCases,omitempty"`
	ExecutedAt        time.Time        `json:"executedAt" yaml:"executedAt"`
}

// ResultFilter narrows a results query. Empty fields do not filter; a filter
// with every field empty matches nothing.
type ResultFilter struct {
	TestPlanID      string          `json:"testPlanId,omitempty"`
	ComponentID     string          `json:"componentId,omitempty"`
	TestComponentID string          `json:"testComponentId,omitempty"`
	Status          ExecutionStatus `json:"status,omitempty"`
}

// IsEmpty reports whether no filter field is set.
func (f ResultFilter) IsEmpty() bool {
	return f == ResultFilter{}
}

// ComponentInfo describes a component as reported by the platform.
type ComponentInfo struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Version       string   `json:"version,omitempty"`
	FolderName    string   `json:"folderName,omitempty"`
	DependencyIDs []string `json:"dependencyIds,omitempty"`
}

// Placeholder values recorded for components the platform does not know.
const (
	NotFoundComponentName = "Component Not Found"
	NotFoundComponentType = "N/A"
)

// NotFoundComponent returns the placeholder recorded for an unknown id.
func NotFoundComponent(id string) ComponentInfo {
	return ComponentInfo{ID: id, Name: NotFoundComponentName, Type: NotFoundComponentType}
}

// ComponentSearchCriteria selects components on the platform. IDs, Names and
// FolderNames are OR-ed together; Types restricts the whole result.
type ComponentSearchCriteria struct {
	IDs            []string `json:"ids,omitempty"`
	Names          []string `json:"names,omitempty"`
	FolderNames    []string `json:"folderNames,omitempty"`
	Types          []string `json:"types,omitempty"`
	ExactNameMatch bool     `json:"exactNameMatch,omitempty"`
}

// IsEmpty reports whether no id, name or folder was supplied.
func (c ComponentSearchCriteria) IsEmpty() bool {
	return len(c.IDs) == 0 && len(c.Names) == 0 && len(c.FolderNames) == 0
}

// PlatformExecutionResult is what the adapter reports for one test run.
type PlatformExecutionResult struct {
	Status          ExecutionStatus  `json:"status"`
	Message         string           `json:"message"`
	ExecutionLogURL string           `json:"executionLogUrl,omitempty"`
	TestCases       []TestCaseResult `json:"testCases,omitempty"`
}

// Credentials carries everything needed to talk to one platform account.
type Credentials struct {
	AccountID           string `json:"accountId" yaml:"accountId"`
	Username            string `json:"username" yaml:"username"`
	PasswordOrToken     string `json:"passwordOrToken" yaml:"passwordOrToken"`
	ExecutionInstanceID string `json:"executionInstanceId" yaml:"executionInstanceId"`
}

// CredentialProfile is the display-safe view of stored credentials.
type CredentialProfile struct {
	ProfileName         string `json:"profileName"`
	AccountID           string `json:"accountId"`
	Username            string `json:"username"`
	ExecutionInstanceID string `json:"executionInstanceId"`
}

// PlanInputs are the caller-supplied component selectors for a new plan.
type PlanInputs struct {
	ComponentIDs   []string `json:"componentIds,omitempty"`
	ComponentNames []string `json:"componentNames,omitempty"`
	FolderNames    []string `json:"folderNames,omitempty"`
}

// IsEmpty reports whether no selector was supplied.
func (p PlanInputs) IsEmpty() bool {
	return len(p.ComponentIDs) == 0 && len(p.ComponentNames) == 0 && len(p.FolderNames) == 0
}

// PlanComponentDetails is a plan component enriched for display.
type PlanComponentDetails struct {
	PlanComponent
	AvailableTests   []AvailableTest       `json:"availableTests"`
	ExecutionResults []TestExecutionResult `json:"executionResults"`
}

// TestPlanWithDetails is the full read model of a plan.
type TestPlanWithDetails struct {
	TestPlan
	EntryPoints    []TestPlanEntryPoint   `json:"testPlanEntryPoints"`
	PlanComponents []PlanComponentDetails `json:"planComponents"`
}
