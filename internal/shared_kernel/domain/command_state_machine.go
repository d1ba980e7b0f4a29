package domain

import (
	"context"
	"errors"
	"fmt"
	"nami-server/internal/infra/utils"
	"time"

	"github.com/looplab/fsm"
)

const (
	EventConfirm          = "confirm"
	EventClaim            = "claim"
	EventComplete         = "complete"
	EventFail             = "fail"
	EventRequeue          = "requeue"
	EventRequeueConfirmed = "requeue_confirmed"
	EventExpire           = "expire"
	EventCancel           = "cancel"
)

// CancelledByStaff is recorded when staff withdraw a command without a reason.
const CancelledByStaff = "cancelled by staff"

type transition struct {
	at      time.Time
	robotID ID
	reason  string
}

// newCommandStateMachine builds the status machine positioned at the given
// status. Terminal statuses have no outgoing events.
func newCommandStateMachine(initial CommandStatus) *fsm.FSM {
	pending := string(CommandStatusPending)
	confirmed := string(CommandStatusConfirmed)
	executing := string(CommandStatusExecuting)
	completed := string(CommandStatusCompleted)
	failed := string(CommandStatusFailed)

	events := fsm.Events{
		{Name: EventConfirm, Src: []string{pending}, Dst: confirmed},
		{Name: EventClaim, Src: []string{pending, confirmed}, Dst: executing},
		{Name: EventComplete, Src: []string{executing}, Dst: completed},
		{Name: EventFail, Src: []string{executing}, Dst: failed},
		{Name: EventCancel, Src: []string{pending, confirmed}, Dst: failed},

		// Stalled claims
		{Name: EventRequeue, Src: []string{executing}, Dst: pending},
		{Name: EventRequeueConfirmed, Src: []string{executing}, Dst: confirmed},
		{Name: EventExpire, Src: []string{executing}, Dst: failed},
	}

	callbacks := fsm.Callbacks{
		"enter_" + confirmed: utils.WrapEvent(enterConfirmed),
		"enter_" + pending:   utils.WrapEvent(enterPending),
		"enter_" + executing: utils.WrapEvent(enterExecuting),
		"enter_" + completed: utils.WrapEvent(enterCompleted),
		"enter_" + failed:    utils.WrapEvent(enterFailed),
	}

	return fsm.NewFSM(string(initial), events, callbacks)
}

func eventArgs(e *fsm.Event) (*Command, transition, error) {
	if len(e.Args) < 2 {
		return nil, transition{}, fmt.Errorf("event %s: missing arguments", e.Event)
	}
	cmd, ok := e.Args[0].(*Command)
	if !ok {
		return nil, transition{}, fmt.Errorf("event %s: unexpected command argument %T", e.Event, e.Args[0])
	}
	t, ok := e.Args[1].(transition)
	if !ok {
		return nil, transition{}, fmt.Errorf("event %s: unexpected transition argument %T", e.Event, e.Args[1])
	}
	return cmd, t, nil
}

func enterConfirmed(_ context.Context, e *fsm.Event) error {
	cmd, t, err := eventArgs(e)
	if err != nil {
		return err
	}

	if e.Event == EventRequeueConfirmed {
		releaseClaim(cmd)
		return nil
	}

	cmd.ConfirmedAt = &t.at
	return nil
}

func enterPending(_ context.Context, e *fsm.Event) error {
	cmd, _, err := eventArgs(e)
	if err != nil {
		return err
	}
	releaseClaim(cmd)
	return nil
}

func releaseClaim(cmd *Command) {
	cmd.RetryCount++
	cmd.RobotID = ""
	cmd.ClaimedAt = nil
}

func enterExecuting(_ context.Context, e *fsm.Event) error {
	cmd, t, err := eventArgs(e)
	if err != nil {
		return err
	}
	cmd.RobotID = t.robotID
	cmd.ClaimedAt = &t.at
	return nil
}

func enterCompleted(_ context.Context, e *fsm.Event) error {
	cmd, t, err := eventArgs(e)
	if err != nil {
		return err
	}
	cmd.CompletedAt = &t.at
	cmd.ErrorMessage = nil
	return nil
}

func enterFailed(_ context.Context, e *fsm.Event) error {
	cmd, t, err := eventArgs(e)
	if err != nil {
		return err
	}

	reason := t.reason
	if reason == "" {
		switch e.Event {
		case EventExpire:
			reason = ErrClaimTimeout.Error()
		case EventCancel:
			reason = CancelledByStaff
		default:
			reason = "unknown error"
		}
	}
	cmd.CompletedAt = &t.at
	cmd.ErrorMessage = &reason
	return nil
}

// fire runs one event against a scratch copy so a rejected transition leaves
// the command untouched.
func (c *Command) fire(event string, t transition) (CommandEvent, error) {
	from := c.Status
	scratch := *c

	machine := newCommandStateMachine(from)
	if err := machine.Event(context.Background(), event, &scratch, t); err != nil {
		var invalid fsm.InvalidEventError
		if errors.As(err, &invalid) {
			return CommandEvent{}, fmt.Errorf("%w: cannot %s command %s in status %s", ErrInvalidTransition, event, c.ID, from)
		}
		return CommandEvent{}, fmt.Errorf("command %s: %s: %w", c.ID, event, err)
	}

	scratch.Status = CommandStatus(machine.Current())
	scratch.Version++
	*c = scratch

	return NewCommandEvent(*c, event, from, t.at), nil
}
