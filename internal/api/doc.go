// Package api holds the domain model, typed errors and collaborator contracts
// of the test-plan orchestration engine.
//
// # Domain Model
//
// A TestPlan owns its TestPlanEntryPoints (resolved roots), PlanComponents
// (roots plus discovered dependencies) and TestExecutionResults. Mappings are
// independent records linking a main component to the test processes that
// exercise it.
//
// # Lifecycle
//
// Plan status changes are validated with CanTransition:
//
//	DISCOVERING -> AWAITING_SELECTION | DISCOVERY_FAILED
//	AWAITING_SELECTION | COMPLETED | EXECUTION_FAILED | DISCOVERY_FAILED -> EXECUTING
//	EXECUTING -> COMPLETED | EXECUTION_FAILED
//
// # Service Locator
//
// Surfaces (HTTP server, MCP tools, CLI) never import the service packages
// directly. Services register themselves through RegisterTestPlanHandler,
// RegisterMappingHandler, RegisterCredentialHandler and RegisterResultHandler,
// and surfaces obtain them through the matching Get functions.
//
// # Errors
//
// NotFoundError, ValidationError, ConflictError, InvalidStateError,
// AuthenticationError and PlatformError classify failures. Use the Is*
// helpers, which unwrap with errors.As.
package api
