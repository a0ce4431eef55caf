// Package testplan implements the test plan orchestrator.
//
// A plan is created from component ids, names or folder names. The inputs
// are resolved synchronously; discovery of the plan's components then runs
// in the background on a TaskGroup. Once the plan is AWAITING_SELECTION it
// can be executed, and re-executed after it completed or failed:
//
//	DISCOVERING        -> AWAITING_SELECTION | DISCOVERY_FAILED
//	AWAITING_SELECTION -> EXECUTING
//	COMPLETED          -> EXECUTING
//	EXECUTION_FAILED   -> EXECUTING
//	DISCOVERY_FAILED   -> EXECUTING
//	EXECUTING          -> COMPLETED | EXECUTION_FAILED
//
// COMPONENT plans run the tests mapped to their components. TEST plans run
// their components directly. A failing test never fails the plan; only
// errors outside a single test move it to EXECUTION_FAILED.
package testplan
