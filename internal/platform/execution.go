package platform

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"testplanner/internal/api"
	"testplanner/pkg/logging"

	"github.com/cenkalti/backoff/v5"
)

// Messages reported for the terminal outcomes of an execution.
const (
	MsgCompleted         = "Execution completed successfully."
	MsgAssertionFailures = "Test execution completed with assertion failures."
	MsgNoResultRecord    = "Execution completed but no result record was found."
	MsgPollTimeout       = "Execution timed out while polling for a result."
)

const (
	recordStatusComplete = "COMPLETE"
	recordStatusError    = "ERROR"
)

// errPending signals a poll that found the execution still running.
var errPending = errors.New("execution still in progress")

// ExecuteTestProcess starts the process on the configured execution instance
// and polls until it reaches a terminal state or the poll budget runs out.
// Platform failures are reported as a FAILURE result; the error return is
// reserved for context cancellation.
func (c *Client) ExecuteTestProcess(ctx context.Context, componentID string) (api.PlatformExecutionResult, error) {
	var started executionResponse
	err := c.do(ctx, "POST", "/ExecutionRequest", executionRequest{
		Type:      "ExecutionRequest",
		AtomID:    c.atomID,
		ProcessID: componentID,
	}, &started)
	if err != nil {
		return failureFrom(ctx, err)
	}
	if started.RequestID == "" {
		return api.PlatformExecutionResult{
			Status:  api.ExecutionFailure,
			Message: "Execution initiation failed to return a requestId.",
		}, nil
	}
	logging.Debug("Platform", "Started execution %s for process %s", started.RequestID, componentID)

	result, err := c.pollExecution(ctx, started.RequestID)
	if err != nil {
		if errors.Is(err, errPending) {
			logging.Warn("Platform", "Gave up polling execution %s after %d poll(s)", started.RequestID, c.opts.MaxPolls)
			return api.PlatformExecutionResult{Status: api.ExecutionFailure, Message: MsgPollTimeout}, nil
		}
		return failureFrom(ctx, err)
	}
	if result.Message != MsgNoResultRecord {
		result.ExecutionLogURL = started.RecordURL
	}
	return result, nil
}

// pollExecution polls the async execution record at a fixed interval, at most
// MaxPolls times. It returns errPending when the budget is exhausted.
func (c *Client) pollExecution(ctx context.Context, requestID string) (api.PlatformExecutionResult, error) {
	polls := 0
	operation := func() (api.PlatformExecutionResult, error) {
		polls++
		var record executionRecordResponse
		if err := c.do(ctx, "GET", "/ExecutionRecord/async/"+url.PathEscape(requestID), nil, &record); err != nil {
			return api.PlatformExecutionResult{}, backoff.Permanent(err)
		}
		if record.ResponseStatusCode != 200 {
			return api.PlatformExecutionResult{}, errPending
		}
		if len(record.Result) == 0 {
			return api.PlatformExecutionResult{Status: api.ExecutionFailure, Message: MsgNoResultRecord}, nil
		}

		switch rec := record.Result[0]; rec.Status {
		case recordStatusComplete:
			return api.PlatformExecutionResult{Status: api.ExecutionSuccess, Message: MsgCompleted}, nil
		case recordStatusError:
			if cases := parseTestCases(rec.Message); cases != nil {
				return api.PlatformExecutionResult{
					Status:    api.ExecutionFailure,
					Message:   MsgAssertionFailures,
					TestCases: cases,
				}, nil
			}
			return api.PlatformExecutionResult{
				Status:  api.ExecutionFailure,
				Message: fmt.Sprintf("Execution failed with message: %s", rec.Message),
			}, nil
		default:
			logging.Debug("Platform", "Execution %s is %s (poll %d/%d)", requestID, rec.Status, polls, c.opts.MaxPolls)
			return api.PlatformExecutionResult{}, errPending
		}
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.opts.PollInterval)),
		backoff.WithMaxTries(uint(c.opts.MaxPolls)),
		backoff.WithMaxElapsedTime(c.pollBudget),
	)
}

// failureFrom converts a platform error into a FAILURE result, passing
// context cancellation through.
func failureFrom(ctx context.Context, err error) (api.PlatformExecutionResult, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return api.PlatformExecutionResult{}, ctxErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return api.PlatformExecutionResult{}, err
	}
	logging.Debug("Platform", "Execution failed: %v", err)
	return api.PlatformExecutionResult{Status: api.ExecutionFailure, Message: err.Error()}, nil
}
