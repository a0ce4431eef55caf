package execution

import (
	"sync"

	"testplanner/internal/api"
)

// OutcomeKind classifies what happened to one requested test.
type OutcomeKind string

const (
	// OutcomeSucceeded means the test ran and the platform reported success.
	OutcomeSucceeded OutcomeKind = "succeeded"
	// OutcomeFailed means the test ran and the platform reported a failure.
	OutcomeFailed OutcomeKind = "failed"
	// OutcomeErrored means the adapter returned an error; a FAILURE result
	// carrying the error text is still persisted.
	OutcomeErrored OutcomeKind = "errored"
	// OutcomeSkipped means no plan component could be associated with the
	// test, so it was not executed.
	OutcomeSkipped OutcomeKind = "skipped"
)

// Outcome is the per-test entry of a Report.
type Outcome struct {
	TestID          string
	PlanComponentID string
	Kind            OutcomeKind
	Result          *api.TestExecutionResult
	Err             error
	// PersistErr is set when the result could not be saved.
	PersistErr error
}

// Report collects the outcome of every test of one scheduler run, in the
// order the tests were requested.
type Report struct {
	mu          sync.Mutex
	outcomes    []Outcome
	maxInFlight int
}

func newReport(n int) *Report {
	return &Report{outcomes: make([]Outcome, n)}
}

func (r *Report) set(i int, o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[i] = o
}

func (r *Report) observeInFlight(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n > r.maxInFlight {
		r.maxInFlight = n
	}
}

// Outcomes returns a copy of all outcomes.
func (r *Report) Outcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Outcome, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}

// ByKind returns the outcomes of the given kind.
func (r *Report) ByKind(kind OutcomeKind) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes() {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}

// Skipped returns the tests that had no target component.
func (r *Report) Skipped() []Outcome {
	return r.ByKind(OutcomeSkipped)
}

// Counts tallies outcomes per kind.
func (r *Report) Counts() map[OutcomeKind]int {
	counts := make(map[OutcomeKind]int)
	for _, o := range r.Outcomes() {
		counts[o.Kind]++
	}
	return counts
}

// MaxInFlight is the highest number of executions observed running at once.
func (r *Report) MaxInFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxInFlight
}
