package testplan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskGroup_FinishReceivesError(t *testing.T) {
	g := NewTaskGroup(context.Background())

	var got error
	g.Go("failing", func(ctx context.Context) error {
		return errors.New("boom")
	}, func(ctx context.Context, err error) {
		got = err
	})
	g.Wait()

	require.Error(t, got)
	assert.Equal(t, "boom", got.Error())
	assert.Equal(t, 0, g.Active())
}

func TestTaskGroup_RecoversPanics(t *testing.T) {
	g := NewTaskGroup(context.Background())

	var got error
	g.Go("panicking", func(ctx context.Context) error {
		panic("kaboom")
	}, func(ctx context.Context, err error) {
		got = err
	})
	g.Wait()

	require.Error(t, got)
	assert.Contains(t, got.Error(), "kaboom")
}

func TestTaskGroup_ShutdownCancelsTasks(t *testing.T) {
	g := NewTaskGroup(context.Background())

	started := make(chan struct{})
	var finishCtxErr error
	g.Go("blocking", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}, func(ctx context.Context, err error) {
		finishCtxErr = ctx.Err()
	})
	<-started
	assert.Equal(t, 1, g.Active())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, g.Shutdown(ctx))
	assert.NoError(t, finishCtxErr)
	assert.Equal(t, 0, g.Active())
}

func TestTaskGroup_ShutdownTimesOut(t *testing.T) {
	g := NewTaskGroup(context.Background())

	release := make(chan struct{})
	defer close(release)
	g.Go("stubborn", func(ctx context.Context) error {
		<-release
		return nil
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := g.Shutdown(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
