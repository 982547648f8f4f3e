package plugin

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNotifier collects emitted states.
type recordingNotifier struct {
	mu     sync.Mutex
	states []State
}

func (n *recordingNotifier) PluginStateChanged(state State) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.states = append(n.states, state)
}

func (n *recordingNotifier) Emitted() []State {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]State, len(n.states))
	copy(out, n.states)
	return out
}

type countingRecorder struct {
	transitions int
	suppressed  []StatusCode
	ignored     []StatusCode
}

func (c *countingRecorder) Transition(State) { c.transitions++ }
func (c *countingRecorder) Suppressed(code StatusCode, _ State) {
	c.suppressed = append(c.suppressed, code)
}
func (c *countingRecorder) Ignored(code StatusCode) { c.ignored = append(c.ignored, code) }

var auxiliaryCodes = []StatusCode{
	StatusRenameClient,
	StatusMoveClient,
	StatusMuteState,
	StatusTalkState,
	StatusHeartbeat,
}

func TestResolveTable(t *testing.T) {
	tests := []struct {
		code  StatusCode
		state State
		ok    bool
	}{
		{StatusOK, StateReady, true},
		{StatusMoveError, StateDegraded, true},
		{StatusOutdatedVersion, StateDegraded, true},
		{StatusWaitGameInit, StateDegraded, true},
		{StatusWrongTSServer, StateError, true},
		{StatusNotConnected, StateError, true},
		{StatusRenameClient, 0, false},
		{StatusMoveClient, 0, false},
		{StatusMuteState, 0, false},
		{StatusTalkState, 0, false},
		{StatusHeartbeat, 0, false},
		{StatusCode("SOMETHING_NEW"), 0, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			state, ok := Resolve(tt.code)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.state, state)
			}
		})
	}
}

func TestOnStatusIgnoresAuxiliaryCodes(t *testing.T) {
	priors := []StatusCode{"", StatusOK, StatusWaitGameInit, StatusNotConnected}

	for _, prior := range priors {
		for _, code := range auxiliaryCodes {
			notifier := &recordingNotifier{}
			r := NewReconciler(notifier, nil)
			if prior != "" {
				r.OnStatus(prior)
			}
			before := notifier.Emitted()
			lastBefore, hadBefore := r.Last()

			emitted := r.OnStatus(code)

			assert.False(t, emitted, "prior=%s code=%s", prior, code)
			assert.Equal(t, before, notifier.Emitted(), "prior=%s code=%s", prior, code)
			lastAfter, hadAfter := r.Last()
			assert.Equal(t, hadBefore, hadAfter)
			assert.Equal(t, lastBefore, lastAfter)
		}
	}
}

func TestOnStatusSuppressesSameResolvedState(t *testing.T) {
	pairs := [][2]StatusCode{
		{StatusOK, StatusOK},
		{StatusMoveError, StatusOutdatedVersion},
		{StatusWaitGameInit, StatusWaitGameInit},
		{StatusWrongTSServer, StatusNotConnected},
	}

	for _, pair := range pairs {
		notifier := &recordingNotifier{}
		r := NewReconciler(notifier, nil)

		assert.True(t, r.OnStatus(pair[0]))
		assert.False(t, r.OnStatus(pair[1]))
		assert.Len(t, notifier.Emitted(), 1, "pair %v", pair)
	}
}

func TestOnStatusSequence(t *testing.T) {
	notifier := &recordingNotifier{}
	r := NewReconciler(notifier, nil)

	for _, code := range []StatusCode{StatusOK, StatusOK, StatusWaitGameInit, StatusNotConnected, StatusOK} {
		r.OnStatus(code)
	}

	assert.Equal(t, []State{StateReady, StateDegraded, StateError, StateReady}, notifier.Emitted())
}

func TestOnDisconnectAlwaysEmits(t *testing.T) {
	notifier := &recordingNotifier{}
	r := NewReconciler(notifier, nil)

	r.OnStatus(StatusOK)
	r.OnDisconnect()
	r.OnDisconnect()

	assert.Equal(t, []State{StateReady, StateDisconnected, StateDisconnected}, notifier.Emitted())

	_, ok := r.Last()
	assert.False(t, ok, "disconnect resets the last emitted state")
}

func TestOnDisconnectResetsDedup(t *testing.T) {
	notifier := &recordingNotifier{}
	r := NewReconciler(notifier, nil)

	r.OnStatus(StatusOK)
	r.OnDisconnect()
	require.True(t, r.OnStatus(StatusOK), "same state after disconnect must be emitted again")

	assert.Equal(t, []State{StateReady, StateDisconnected, StateReady}, notifier.Emitted())
}

func TestLast(t *testing.T) {
	r := NewReconciler(nil, nil)

	state, ok := r.Last()
	assert.False(t, ok)
	assert.Equal(t, StateDisconnected, state)

	r.OnStatus(StatusMoveError)
	state, ok = r.Last()
	assert.True(t, ok)
	assert.Equal(t, StateDegraded, state)
}

func TestRecorderHooks(t *testing.T) {
	recorder := &countingRecorder{}
	r := NewReconciler(NotifierFunc(func(State) {}), recorder)

	r.OnStatus(StatusOK)
	r.OnStatus(StatusOK)
	r.OnStatus(StatusHeartbeat)
	r.OnDisconnect()

	assert.Equal(t, 2, recorder.transitions)
	assert.Equal(t, []StatusCode{StatusOK}, recorder.suppressed)
	assert.Equal(t, []StatusCode{StatusHeartbeat}, recorder.ignored)
}

func TestConcurrentStatusKeepsNoConsecutiveDuplicates(t *testing.T) {
	notifier := &recordingNotifier{}
	r := NewReconciler(notifier, nil)

	codes := []StatusCode{StatusOK, StatusWaitGameInit, StatusNotConnected, StatusHeartbeat}
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(code StatusCode) {
			defer wg.Done()
			r.OnStatus(code)
		}(codes[i%len(codes)])
	}
	wg.Wait()

	emitted := notifier.Emitted()
	require.NotEmpty(t, emitted)
	for i := 1; i < len(emitted); i++ {
		assert.NotEqual(t, emitted[i-1], emitted[i], "consecutive duplicate at %d", i)
	}
}

func TestParseStatusCode(t *testing.T) {
	code, ok := ParseStatusCode(" wait_game_init ")
	require.True(t, ok)
	assert.Equal(t, StatusWaitGameInit, code)

	_, ok = ParseStatusCode("BOGUS")
	assert.False(t, ok)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "degraded", StateDegraded.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "state(7)", State(7).String())
	assert.True(t, StateDegraded.Healthy())
	assert.False(t, StateError.Healthy())
}

func TestNotifierCanReadLast(t *testing.T) {
	var r *Reconciler
	var seen []State
	r = NewReconciler(NotifierFunc(func(State) {
		state, _ := r.Last()
		seen = append(seen, state)
	}), nil)

	r.OnStatus(StatusOK)
	r.OnStatus(StatusNotConnected)
	r.OnDisconnect()

	assert.Equal(t, []State{StateReady, StateError, StateDisconnected}, seen)
}
