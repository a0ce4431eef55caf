package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitWithSpinner_Finishes(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		time.Sleep(10 * time.Millisecond)
		wg.Done()
	}()

	var buf bytes.Buffer
	require.NoError(t, WaitWithSpinner(context.Background(), &wg, &buf, "Running tests...", false))
}

func TestWaitWithSpinner_Interrupted(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	defer wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := WaitWithSpinner(ctx, &wg, &bytes.Buffer{}, "Running tests...", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
