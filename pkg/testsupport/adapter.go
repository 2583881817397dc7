package testsupport

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-autovalidate/pkg/host"
	"github.com/goliatone/go-autovalidate/pkg/model"
)

// Adapter call names recorded by RecordingAdapter.
const (
	CallValid   = "makeValid"
	CallInvalid = "makeInvalid"
	CallDefault = "makeDefault"
)

// Call captures a single style adapter invocation.
type Call struct {
	Method  string
	Element host.Element
	Message string
}

// RecordingAdapter records every style adapter call.
type RecordingAdapter struct {
	Name string

	mu    sync.Mutex
	calls []Call
}

// Key implements adapter.StyleAdapter.
func (a *RecordingAdapter) Key() string {
	if a.Name == "" {
		return "recording"
	}
	return a.Name
}

// MakeValid implements adapter.StyleAdapter.
func (a *RecordingAdapter) MakeValid(el host.Element) { a.record(Call{Method: CallValid, Element: el}) }

// MakeInvalid implements adapter.StyleAdapter.
func (a *RecordingAdapter) MakeInvalid(el host.Element, message string) {
	a.record(Call{Method: CallInvalid, Element: el, Message: message})
}

// MakeDefault implements adapter.StyleAdapter.
func (a *RecordingAdapter) MakeDefault(el host.Element) {
	a.record(Call{Method: CallDefault, Element: el})
}

// Calls returns a snapshot of the recorded calls.
func (a *RecordingAdapter) Calls() []Call {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Call(nil), a.calls...)
}

// Reset drops recorded calls.
func (a *RecordingAdapter) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = nil
}

func (a *RecordingAdapter) record(call Call) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, call)
}

// ErrNoMessage is returned by MessageResolver for unknown kinds.
var ErrNoMessage = errors.New("testsupport: no message")

// MessageResolver returns canned messages. Lookups for a kind listed in
// Gates block until its channel is closed or the context ends.
type MessageResolver struct {
	Messages map[model.ErrorKind]string
	Err      error
	Gates    map[model.ErrorKind]chan struct{}

	mu      sync.Mutex
	lookups []model.ErrorKind
}

// ErrorMessage implements messages.Resolver.
func (r *MessageResolver) ErrorMessage(ctx context.Context, kind model.ErrorKind, _ host.Element) (string, error) {
	r.mu.Lock()
	r.lookups = append(r.lookups, kind)
	gate := r.Gates[kind]
	r.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if r.Err != nil {
		return "", r.Err
	}
	msg, ok := r.Messages[kind]
	if !ok {
		return "", ErrNoMessage
	}
	return msg, nil
}

// Lookups returns the kinds requested so far.
func (r *MessageResolver) Lookups() []model.ErrorKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.ErrorKind(nil), r.lookups...)
}
