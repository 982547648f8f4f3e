package plugin

import "sync"

// Notifier receives every state change the reconciler decides to emit.
// Notifications are delivered one at a time in transition order. A notifier
// may read Last but must not call OnStatus or OnDisconnect.
type Notifier interface {
	PluginStateChanged(state State)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(state State)

// PluginStateChanged calls f(state).
func (f NotifierFunc) PluginStateChanged(state State) {
	f(state)
}

// Recorder observes reconciler decisions. All methods are optional hooks for
// metrics; a nil Recorder is allowed.
type Recorder interface {
	Transition(state State)
	Suppressed(code StatusCode, state State)
	Ignored(code StatusCode)
}

// Reconciler turns plugin response codes into deduplicated state changes.
type Reconciler struct {
	// emitMu serializes decide-and-notify so notifications keep transition
	// order; mu guards last only.
	emitMu   sync.Mutex
	mu       sync.Mutex
	last     *State
	notifier Notifier
	recorder Recorder
}

// NewReconciler creates a reconciler with no emitted state.
func NewReconciler(notifier Notifier, recorder Recorder) *Reconciler {
	return &Reconciler{
		notifier: notifier,
		recorder: recorder,
	}
}

// OnStatus handles one response code. It returns true when a state change
// was emitted.
func (r *Reconciler) OnStatus(code StatusCode) bool {
	state, ok := Resolve(code)
	if !ok {
		if r.recorder != nil {
			r.recorder.Ignored(code)
		}
		return false
	}

	r.emitMu.Lock()
	defer r.emitMu.Unlock()

	r.mu.Lock()
	if r.last != nil && *r.last == state {
		r.mu.Unlock()
		if r.recorder != nil {
			r.recorder.Suppressed(code, state)
		}
		return false
	}
	r.last = &state
	r.mu.Unlock()

	r.emit(state)
	return true
}

// OnDisconnect forgets the last state and always emits StateDisconnected.
func (r *Reconciler) OnDisconnect() {
	r.emitMu.Lock()
	defer r.emitMu.Unlock()

	r.mu.Lock()
	r.last = nil
	r.mu.Unlock()

	r.emit(StateDisconnected)
}

// Last returns the last emitted state from OnStatus. The second result is
// false before the first emission and after a disconnect.
func (r *Reconciler) Last() (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.last == nil {
		return StateDisconnected, false
	}
	return *r.last, true
}

func (r *Reconciler) emit(state State) {
	if r.recorder != nil {
		r.recorder.Transition(state)
	}
	if r.notifier != nil {
		r.notifier.PluginStateChanged(state)
	}
}
