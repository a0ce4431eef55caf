package api

import (
	"context"
	"sync"

	"testplanner/pkg/logging"
)

// Handler registry variables store the registered implementations.
// These variables are protected by handlerMutex for thread-safe access.
var (
	testPlanHandler   TestPlanHandler
	mappingHandler    MappingHandler
	credentialHandler CredentialHandler
	resultHandler     ResultHandler

	// handlerMutex protects all handler registry operations for thread-safe registration and access.
	handlerMutex sync.RWMutex
)

// CreateTestPlanRequest starts discovery for a new plan.
type CreateTestPlanRequest struct {
	Name                 string       `json:"name,omitempty"`
	PlanType             TestPlanType `json:"planType"`
	Inputs               PlanInputs   `json:"inputs"`
	CredentialProfile    string       `json:"credentialProfile"`
	DiscoverDependencies bool         `json:"discoverDependencies,omitempty"`
}

// ExecuteTestPlanRequest starts execution of a discovered plan.
// TestsToRun is optional; when empty every available test runs.
type ExecuteTestPlanRequest struct {
	PlanID            string   `json:"planId"`
	TestsToRun        []string `json:"testsToRun,omitempty"`
	CredentialProfile string   `json:"credentialProfile"`
}

// CreateMappingRequest registers a test against a main component.
type CreateMappingRequest struct {
	MainComponentID   string `json:"mainComponentId"`
	MainComponentName string `json:"mainComponentName,omitempty"`
	TestComponentID   string `json:"testComponentId"`
	TestComponentName string `json:"testComponentName,omitempty"`
	IsDeployed        *bool  `json:"isDeployed,omitempty"`
	IsPackaged        *bool  `json:"isPackaged,omitempty"`
}

// UpdateMappingRequest changes the mutable fields of a mapping. Nil fields
// are left unchanged.
type UpdateMappingRequest struct {
	TestComponentID   *string `json:"testComponentId,omitempty"`
	TestComponentName *string `json:"testComponentName,omitempty"`
	IsDeployed        *bool   `json:"isDeployed,omitempty"`
	IsPackaged        *bool   `json:"isPackaged,omitempty"`
}

// TestPlanHandler is the orchestrator surface used by the HTTP server, the
// MCP tools and the CLI.
type TestPlanHandler interface {
	InitiateDiscovery(ctx context.Context, req CreateTestPlanRequest) (*TestPlan, error)
	ExecuteTestPlan(ctx context.Context, req ExecuteTestPlanRequest) error
	GetTestPlan(ctx context.Context, planID string) (*TestPlanWithDetails, error)
	ListTestPlans(ctx context.Context) ([]*TestPlan, error)
	DeleteTestPlan(ctx context.Context, planID string) error
}

// MappingHandler manages test mappings.
type MappingHandler interface {
	CreateMapping(ctx context.Context, req CreateMappingRequest) (*Mapping, error)
	GetMapping(ctx context.Context, id string) (*Mapping, error)
	ListMappings(ctx context.Context, mainComponentID string) ([]*Mapping, error)
	UpdateMapping(ctx context.Context, id string, req UpdateMappingRequest) (*Mapping, error)
	DeleteMapping(ctx context.Context, id string) error
}

// CredentialHandler manages platform credential profiles.
type CredentialHandler interface {
	AddCredentials(ctx context.Context, profileName string, creds Credentials) (*CredentialProfile, error)
	ListCredentials(ctx context.Context) ([]CredentialProfile, error)
	DeleteCredentials(ctx context.Context, profileName string) error
}

// ResultHandler queries persisted test execution results.
type ResultHandler interface {
	GetResults(ctx context.Context, filter ResultFilter) ([]TestExecutionResult, error)
}

// RegisterTestPlanHandler registers the orchestrator implementation.
//
// The registration is thread-safe and should be called during system
// initialization. Subsequent registrations replace the previous handler.
func RegisterTestPlanHandler(h TestPlanHandler) {
	handlerMutex.Lock()
	defer handlerMutex.Unlock()
	logging.Debug("API", "Registering test plan handler: %v", h != nil)
	testPlanHandler = h
}

// GetTestPlanHandler returns the registered orchestrator, or nil.
func GetTestPlanHandler() TestPlanHandler {
	handlerMutex.RLock()
	defer handlerMutex.RUnlock()
	return testPlanHandler
}

// RegisterMappingHandler registers the mapping service implementation.
func RegisterMappingHandler(h MappingHandler) {
	handlerMutex.Lock()
	defer handlerMutex.Unlock()
	logging.Debug("API", "Registering mapping handler: %v", h != nil)
	mappingHandler = h
}

// GetMappingHandler returns the registered mapping handler, or nil.
func GetMappingHandler() MappingHandler {
	handlerMutex.RLock()
	defer handlerMutex.RUnlock()
	return mappingHandler
}

// RegisterCredentialHandler registers the credential service implementation.
func RegisterCredentialHandler(h CredentialHandler) {
	handlerMutex.Lock()
	defer handlerMutex.Unlock()
	logging.Debug("API", "Registering credential handler: %v", h != nil)
	credentialHandler = h
}

// GetCredentialHandler returns the registered credential handler, or nil.
func GetCredentialHandler() CredentialHandler {
	handlerMutex.RLock()
	defer handlerMutex.RUnlock()
	return credentialHandler
}

// RegisterResultHandler registers the result query implementation.
func RegisterResultHandler(h ResultHandler) {
	handlerMutex.Lock()
	defer handlerMutex.Unlock()
	logging.Debug("API", "Registering result handler: %v", h != nil)
	resultHandler = h
}

// GetResultHandler returns the registered result handler, or nil.
func GetResultHandler() ResultHandler {
	handlerMutex.RLock()
	defer handlerMutex.RUnlock()
	return resultHandler
}
