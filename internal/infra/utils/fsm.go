package utils

import (
	"context"

	"github.com/looplab/fsm"
)

// WrapEvent adapts an error returning callback to the fsm callback signature.
// A returned error is stored on the event and surfaces from FSM.Event.
func WrapEvent(fn func(ctx context.Context, event *fsm.Event) error) fsm.Callback {
	return func(ctx context.Context, event *fsm.Event) {
		if err := fn(ctx, event); err != nil {
			event.Err = err
		}
	}
}
