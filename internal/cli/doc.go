// Package cli holds the helpers shared by the testplanner commands: common
// flags, output rendering, waiting on background work and exit codes.
//
// Output is rendered as a plain aligned table (go-pretty), indented JSON or
// YAML. YAML is produced from the JSON encoding so both formats use the same
// field names.
//
// Exit codes:
//
//	0  success
//	1  any other error
//	2  the requested resource was not found
//	3  invalid input
package cli
