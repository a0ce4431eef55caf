// Package execution runs selected tests against the integration platform with
// bounded concurrency.
//
// The Scheduler fans out over an errgroup with SetLimit, so at most N
// executions are in flight. Every test settles independently: a failure or
// adapter error in one test never cancels the others. Each result is handed to
// the ResultSink as soon as its test finishes, and the Report records a
// per-test Outcome (succeeded, failed, errored, skipped).
package execution
