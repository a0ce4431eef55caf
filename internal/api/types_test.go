package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to TestPlanStatus
		allowed  bool
	}{
		{StatusDiscovering, StatusAwaitingSelection, true},
		{StatusDiscovering, StatusDiscoveryFailed, true},
		{StatusDiscovering, StatusExecuting, false},
		{StatusAwaitingSelection, StatusExecuting, true},
		{StatusAwaitingSelection, StatusCompleted, false},
		{StatusCompleted, StatusExecuting, true},
		{StatusExecutionFailed, StatusExecuting, true},
		{StatusDiscoveryFailed, StatusExecuting, true},
		{StatusExecuting, StatusCompleted, true},
		{StatusExecuting, StatusExecutionFailed, true},
		{StatusExecuting, StatusExecuting, false},
		{StatusCompleted, StatusAwaitingSelection, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanStartExecution(t *testing.T) {
	assert.True(t, CanStartExecution(StatusAwaitingSelection))
	assert.True(t, CanStartExecution(StatusCompleted))
	assert.True(t, CanStartExecution(StatusDiscoveryFailed))
	assert.False(t, CanStartExecution(StatusDiscovering))
	assert.False(t, CanStartExecution(StatusExecuting))
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusDiscovering.IsTerminal())
	assert.False(t, StatusExecuting.IsTerminal())
	assert.True(t, StatusAwaitingSelection.IsTerminal())
	assert.True(t, StatusExecutionFailed.IsTerminal())
}

func TestNotFoundComponent(t *testing.T) {
	c := NotFoundComponent("abc")
	assert.Equal(t, "abc", c.ID)
	assert.Equal(t, "Component Not Found", c.Name)
	assert.Equal(t, "N/A", c.Type)
	assert.Empty(t, c.DependencyIDs)
}

func TestResultFilterIsEmpty(t *testing.T) {
	assert.True(t, ResultFilter{}.IsEmpty())
	assert.False(t, ResultFilter{Status: ExecutionFailure}.IsEmpty())
}

func TestErrorClassification(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", NewNotFoundError("test plan", "p1"))
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, "loading: test plan p1 not found", wrapped.Error())

	assert.True(t, IsValidation(UnresolvedError("names", []string{"A", "B"})))
	assert.Equal(t, "Could not resolve the following names: A, B", UnresolvedError("names", []string{"A", "B"}).Error())

	assert.True(t, IsConflict(&InvalidStateError{PlanID: "p", From: StatusExecuting, To: StatusExecuting}))
	assert.True(t, IsConflict(&ConflictError{Message: "dup"}))
	assert.False(t, IsConflict(errors.New("other")))

	pe := &PlatformError{StatusCode: 503, Attempts: 5, Message: "unavailable"}
	assert.True(t, IsPlatformError(fmt.Errorf("x: %w", pe)))
	assert.Contains(t, pe.Error(), "status 503 after 5 attempt(s)")

	assert.True(t, IsAuthentication(&AuthenticationError{StatusCode: 401}))
}
