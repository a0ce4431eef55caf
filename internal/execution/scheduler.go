package execution

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"testplanner/internal/api"
	"testplanner/pkg/logging"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Executor runs a single test process on the platform.
type Executor interface {
	ExecuteTestProcess(ctx context.Context, componentID string) (api.PlatformExecutionResult, error)
}

// ResultSink persists one execution result.
type ResultSink interface {
	Save(ctx context.Context, result *api.TestExecutionResult) error
}

// DefaultConcurrency bounds executions when no limit is configured.
const DefaultConcurrency = 5

// Scheduler runs tests with bounded concurrency and persists each result as
// soon as its test finishes.
type Scheduler struct {
	executor Executor
	sink     ResultSink
	limit    int
	now      func() time.Time
}

// NewScheduler creates a Scheduler running at most limit tests at once.
func NewScheduler(executor Executor, sink ResultSink, limit int) *Scheduler {
	if limit < 1 {
		limit = DefaultConcurrency
	}
	return &Scheduler{
		executor: executor,
		sink:     sink,
		limit:    limit,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run executes every test in testIDs against the plan component given by
// targets. Tests without a target are skipped. Duplicate ids run once.
// Run waits for all started tests; one test's failure never cancels another.
func (s *Scheduler) Run(ctx context.Context, planID string, testIDs []string, targets map[string]api.PlanComponent) *Report {
	tests := dedupe(testIDs)
	report := newReport(len(tests))

	var (
		g        errgroup.Group
		inFlight atomic.Int32
	)
	g.SetLimit(s.limit)

	for i, testID := range tests {
		target, ok := targets[testID]
		if !ok {
			logging.Warn("Scheduler", "Skipping test %s: no plan component found for it", testID)
			report.set(i, Outcome{TestID: testID, Kind: OutcomeSkipped})
			continue
		}

		g.Go(func() error {
			report.observeInFlight(int(inFlight.Add(1)))
			defer inFlight.Add(-1)

			report.set(i, s.runOne(ctx, planID, testID, target))
			return nil
		})
	}
	_ = g.Wait()

	counts := report.Counts()
	logging.Info("Scheduler", "Plan %s: %d succeeded, %d failed, %d errored, %d skipped",
		planID, counts[OutcomeSucceeded], counts[OutcomeFailed], counts[OutcomeErrored], counts[OutcomeSkipped])
	return report
}

func (s *Scheduler) runOne(ctx context.Context, planID, testID string, target api.PlanComponent) Outcome {
	outcome := Outcome{TestID: testID, PlanComponentID: target.ID}

	if err := ctx.Err(); err != nil {
		outcome.Kind = OutcomeErrored
		outcome.Err = err
		return outcome
	}

	logging.Debug("Scheduler", "Executing test %s for component %s", testID, target.ComponentID)
	res, err := s.execute(ctx, testID)

	result := &api.TestExecutionResult{
		ID:              uuid.New().String(),
		TestPlanID:      planID,
		PlanComponentID: target.ID,
		TestComponentID: testID,
		ExecutedAt:      s.now(),
	}
	switch {
	case err != nil:
		outcome.Kind = OutcomeErrored
		outcome.Err = err
		result.Status = api.ExecutionFailure
		result.Message = fmt.Sprintf("Test execution failed: %v", err)
	case res.Status == api.ExecutionSuccess:
		outcome.Kind = OutcomeSucceeded
		result.Status = api.ExecutionSuccess
		result.Message = res.Message
		result.TestCases = res.TestCases
	default:
		outcome.Kind = OutcomeFailed
		result.Status = api.ExecutionFailure
		result.Message = res.Message
		result.TestCases = res.TestCases
	}
	outcome.Result = result

	// Saved even if ctx was cancelled mid-execution, so the record is not lost.
	if err := s.sink.Save(context.WithoutCancel(ctx), result); err != nil {
		if api.IsNotFound(err) {
			logging.Warn("Scheduler", "Dropping result of test %s: plan %s no longer exists", testID, planID)
		} else {
			logging.Error("Scheduler", err, "Failed to save result of test %s", testID)
		}
		outcome.PersistErr = err
	}
	return outcome
}

// execute runs one test, turning a panic in the executor into an error so
// the remaining tests keep running.
func (s *Scheduler) execute(ctx context.Context, testID string) (res api.PlatformExecutionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Scheduler", fmt.Errorf("%v", r), "Test %s panicked\n%s", testID, debug.Stack())
			res, err = api.PlatformExecutionResult{}, fmt.Errorf("unexpected internal error: %v", r)
		}
	}()
	return s.executor.ExecuteTestProcess(ctx, testID)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
