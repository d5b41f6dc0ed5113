// Package lifecycle drives a swap order from intent to settlement-ready
// submission: allowance check, optional approval, order creation, signing,
// and submission. The state machine is strictly linear with no retries;
// any failure lands in StateError and the run is over.
package lifecycle

import "fmt"

// State is a phase of a single swap run.
type State string

const (
	StateIdle             State = "idle"
	StateCheckingApproval State = "checking-approval"
	StateApproving        State = "approving"
	StateCreating         State = "creating"
	StateSigning          State = "signing"
	StateSubmitting       State = "submitting"
	StateSuccess          State = "success"
	StateError            State = "error"
)

// Event moves the machine between states.
type Event string

const (
	EventStart        Event = "start"
	EventNeedApproval Event = "need-approval"
	EventApproved     Event = "approved"
	EventCreate       Event = "create"
	EventCreated      Event = "created"
	EventSigned       Event = "signed"
	EventSubmitted    Event = "submitted"
	EventFail         Event = "fail"
)

var transitions = map[State]map[Event]State{
	StateIdle: {
		EventStart: StateCheckingApproval,
	},
	StateCheckingApproval: {
		EventNeedApproval: StateApproving,
		EventCreate:       StateCreating,
		EventFail:         StateError,
	},
	StateApproving: {
		EventApproved: StateCreating,
		EventFail:     StateError,
	},
	StateCreating: {
		EventCreated: StateSigning,
		EventFail:    StateError,
	},
	StateSigning: {
		EventSigned: StateSubmitting,
		EventFail:   StateError,
	},
	StateSubmitting: {
		EventSubmitted: StateSuccess,
		EventFail:      StateError,
	},
}

// Next returns the state reached by applying ev in from. Terminal states
// accept no events.
func Next(from State, ev Event) (State, error) {
	evs, ok := transitions[from]
	if !ok {
		return from, fmt.Errorf("state %q is terminal", from)
	}
	to, ok := evs[ev]
	if !ok {
		return from, fmt.Errorf("event %q not valid in state %q", ev, from)
	}
	return to, nil
}

// Terminal reports whether s accepts no further events.
func Terminal(s State) bool {
	_, ok := transitions[s]
	return !ok
}
