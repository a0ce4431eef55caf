// Package app bootstraps testplanner.
//
// NewApplication loads configuration, initializes logging, opens the data
// store and wires the services:
//
//   - testplan.Service drives discovery and execution on its own task group
//   - mapping.Service and credentials.Service manage the supporting records
//   - mcptools.Server exposes the registered handlers as MCP tools
//
// All services are registered with the api handler registry. Run serves the
// HTTP API until its context is cancelled; CLI commands use the services
// directly and call Shutdown when they are done.
//
// Shutdown gives background tasks up to the configured shutdown timeout to
// finish and cancels whatever is left, so interrupted executions are recorded
// as failed rather than left running.
package app
