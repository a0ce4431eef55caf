// Package mcptools exposes test plans, mappings and results as MCP tools, so
// AI assistants can create and run test plans.
//
// Tools resolve their services through the api handler registry and answer
// with indented JSON text. Failures are reported as tool errors, never as
// protocol errors.
package mcptools
