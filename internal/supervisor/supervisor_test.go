package supervisor

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radio-control/saltybridge/internal/adapter/fake"
)

const testInterval = 5 * time.Millisecond

func enableCalls(r *fake.Radio) int {
	n := 0
	for _, c := range r.Calls() {
		if c.Method == "EnableRadio" {
			n++
		}
	}
	return n
}

func TestRunEnablesImmediatelyWhenReady(t *testing.T) {
	client := fake.NewClient(8)
	client.SetReady(true)
	radio := fake.NewRadio(2)

	s := New(client, radio, Options{Interval: testInterval})
	require.NoError(t, s.Run(context.Background()))

	total, strict := client.Checks()
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, strict, "readiness must be checked in strict mode")
	assert.Equal(t, 1, enableCalls(radio))
	assert.True(t, radio.Enabled())
	assert.True(t, s.Enabled())
}

func TestRunPollsUntilReady(t *testing.T) {
	client := fake.NewClient(8)
	client.ReadyAfter(4)
	radio := fake.NewRadio(2)

	var attempts atomic.Int32
	var ready atomic.Int32
	s := New(client, radio, Options{
		Interval: testInterval,
		OnAttempt: func(ok bool) {
			attempts.Add(1)
			if ok {
				ready.Add(1)
			}
		},
	})
	require.NoError(t, s.Run(context.Background()))

	total, _ := client.Checks()
	assert.Equal(t, 4, total)
	assert.Equal(t, int32(4), attempts.Load())
	assert.Equal(t, int32(1), ready.Load())
	assert.Equal(t, 1, enableCalls(radio))
}

func TestRunStopsOnCancellation(t *testing.T) {
	client := fake.NewClient(8)
	radio := fake.NewRadio(2)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	s := New(client, radio, Options{Interval: testInterval})
	err := s.Run(ctx)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, enableCalls(radio))
	assert.False(t, s.Enabled())
	assert.ErrorIs(t, s.Err(), context.DeadlineExceeded)

	total, _ := client.Checks()
	assert.GreaterOrEqual(t, total, 1)
}

func TestRunWithCancelledContextDoesNotCheck(t *testing.T) {
	client := fake.NewClient(8)
	client.SetReady(true)
	radio := fake.NewRadio(2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(client, radio, Options{}).Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	total, _ := client.Checks()
	assert.Zero(t, total)
	assert.False(t, radio.Enabled())
}

func TestRunOnlyOnce(t *testing.T) {
	client := fake.NewClient(8)
	client.SetReady(true)
	radio := fake.NewRadio(2)

	s := New(client, radio, Options{Interval: testInterval})
	require.NoError(t, s.Run(context.Background()))
	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, 1, enableCalls(radio))
}

func TestStartAndDone(t *testing.T) {
	client := fake.NewClient(8)
	client.ReadyAfter(2)
	radio := fake.NewRadio(2)

	enabled := make(chan struct{})
	s := New(client, radio, Options{
		Interval:  testInterval,
		OnEnabled: func() { close(enabled) },
	})
	s.Start(context.Background())

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not finish")
	}
	<-enabled
	assert.True(t, s.Enabled())
	assert.NoError(t, s.Err())
}

func TestNewAppliesDefaults(t *testing.T) {
	s := New(fake.NewClient(0), fake.NewRadio(2), Options{})
	assert.Equal(t, DefaultInterval, s.opts.Interval)
	assert.NotNil(t, s.opts.Logger)
}
