package domain

import (
	"fmt"
	"nami-server/internal/infra/utils"
	"strings"
	"time"
)

type Intent string

const (
	IntentNavigation       Intent = "navigation"
	IntentDelivery         Intent = "delivery"
	IntentMedicineDelivery Intent = "medicine_delivery"
	IntentRobotControl     Intent = "robot_control"
)

var _knownIntents = []Intent{
	IntentNavigation,
	IntentDelivery,
	IntentMedicineDelivery,
	IntentRobotControl,
}

func (i Intent) IsKnown() bool {
	for _, known := range _knownIntents {
		if i == known {
			return true
		}
	}
	return false
}

func ParseIntent(value string) (Intent, error) {
	intent := Intent(strings.ToLower(strings.TrimSpace(value)))
	if !intent.IsKnown() {
		return "", fmt.Errorf("%w: %q", ErrUnknownIntent, value)
	}
	return intent, nil
}

const (
	ActionNavigate   = "navigate"
	ActionDeliver    = "deliver"
	ActionStop       = "stop"
	ActionResume     = "resume"
	ActionReturnHome = "return_home"
)

// CommandStatus represents the different states of a command during its lifecycle
type CommandStatus string

const (
	CommandStatusPending   CommandStatus = "pending"   // Initial state when command is created
	CommandStatusConfirmed CommandStatus = "confirmed" // Approved by a human, ready to be claimed
	CommandStatusExecuting CommandStatus = "executing" // Claimed by a robot
	CommandStatusCompleted CommandStatus = "completed" // Robot reported success
	CommandStatusFailed    CommandStatus = "failed"    // Robot reported failure or the claim expired
)

func (s CommandStatus) IsTerminal() bool {
	return s == CommandStatusCompleted || s == CommandStatusFailed
}

func ParseCommandStatus(value string) (CommandStatus, error) {
	status := CommandStatus(strings.ToLower(strings.TrimSpace(value)))
	switch status {
	case CommandStatusPending, CommandStatusConfirmed, CommandStatusExecuting, CommandStatusCompleted, CommandStatusFailed:
		return status, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, value)
	}
}

type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Command struct {
	ID                   ID
	Version              Version
	Intent               Intent
	Action               string
	Target               string
	Coordinates          *Coordinates
	Details              Details
	RequiresConfirmation bool
	DispatchAfter        time.Time
	CreatedAt            time.Time

	Status       CommandStatus
	RobotID      ID
	RetryCount   int
	ConfirmedAt  *time.Time
	ClaimedAt    *time.Time
	CompletedAt  *time.Time // set if and only if the status is terminal
	ErrorMessage *string    // set only when the status is failed
}

// IsCompleted returns true if the command has reached a terminal state
func (c Command) IsCompleted() bool {
	return c.Status.IsTerminal()
}

func (c Command) IsFailed() bool {
	return c.Status == CommandStatusFailed
}

func (c Command) IsSuccessful() bool {
	return c.Status == CommandStatusCompleted
}

// IsActionable reports whether a robot may claim the command at the given time.
func (c Command) IsActionable(now time.Time) bool {
	if c.DispatchAfter.After(now) {
		return false
	}

	switch c.Status {
	case CommandStatusConfirmed:
		return true
	case CommandStatusPending:
		return !c.RequiresConfirmation
	default:
		return false
	}
}

// Confirm records the human approval of a pending command.
func (c *Command) Confirm(at time.Time) (CommandEvent, error) {
	return c.fire(EventConfirm, transition{at: at})
}

// Claim hands the command to a robot.
func (c *Command) Claim(robotID ID, at time.Time) (CommandEvent, error) {
	if !c.IsActionable(at) {
		return CommandEvent{}, fmt.Errorf("%w: command %s is not actionable in status %s", ErrInvalidTransition, c.ID, c.Status)
	}
	return c.fire(EventClaim, transition{at: at, robotID: robotID})
}

// Complete finalizes an executing command as successful.
func (c *Command) Complete(at time.Time) (CommandEvent, error) {
	return c.fire(EventComplete, transition{at: at})
}

// Fail finalizes an executing command as failed with the given reason.
func (c *Command) Fail(reason string, at time.Time) (CommandEvent, error) {
	return c.fire(EventFail, transition{at: at, reason: reason})
}

// Cancel withdraws a command that no robot has claimed yet.
func (c *Command) Cancel(reason string, at time.Time) (CommandEvent, error) {
	return c.fire(EventCancel, transition{at: at, reason: strings.TrimSpace(reason)})
}

// Requeue returns a stalled command to the queue and counts the retry. A
// command that was confirmed goes back to confirmed.
func (c *Command) Requeue(at time.Time) (CommandEvent, error) {
	if c.ConfirmedAt != nil {
		return c.fire(EventRequeueConfirmed, transition{at: at})
	}
	return c.fire(EventRequeue, transition{at: at})
}

// Expire force-fails a stalled command that ran out of retries.
func (c *Command) Expire(reason string, at time.Time) (CommandEvent, error) {
	return c.fire(EventExpire, transition{at: at, reason: reason})
}

func NewCommandBuilder() *commandBuilder {
	return &commandBuilder{}
}

type commandBuilder struct {
	actions []commandHandler
}

type commandHandler func(v *Command) error

func (b *commandBuilder) WithIntent(value Intent) *commandBuilder {
	b.actions = append(b.actions, func(d *Command) error {
		if !value.IsKnown() {
			return fmt.Errorf("%w: %w: %q", ErrValidation, ErrUnknownIntent, value)
		}
		d.Intent = value
		return nil
	})
	return b
}

func (b *commandBuilder) WithAction(value string) *commandBuilder {
	b.actions = append(b.actions, func(d *Command) error {
		d.Action = value
		return nil
	})
	return b
}

func (b *commandBuilder) WithTarget(value string) *commandBuilder {
	b.actions = append(b.actions, func(d *Command) error {
		d.Target = value
		return nil
	})
	return b
}

func (b *commandBuilder) WithCoordinates(value *Coordinates) *commandBuilder {
	b.actions = append(b.actions, func(d *Command) error {
		d.Coordinates = value
		return nil
	})
	return b
}

func (b *commandBuilder) WithDetails(value Details) *commandBuilder {
	b.actions = append(b.actions, func(d *Command) error {
		d.Details = value
		return nil
	})
	return b
}

func (b *commandBuilder) WithDispatchAfter(value time.Time) *commandBuilder {
	b.actions = append(b.actions, func(d *Command) error {
		d.DispatchAfter = value
		return nil
	})
	return b
}

func (b *commandBuilder) WithConfirmationRequired(value bool) *commandBuilder {
	b.actions = append(b.actions, func(d *Command) error {
		d.RequiresConfirmation = value
		return nil
	})
	return b
}

func (b *commandBuilder) WithCreatedAt(value time.Time) *commandBuilder {
	b.actions = append(b.actions, func(d *Command) error {
		d.CreatedAt = value
		return nil
	})
	return b
}

func (b *commandBuilder) Build() (Command, error) {
	now := time.Now()
	result := Command{
		ID:        ID(utils.GenerateUUID()),
		Version:   1,
		Status:    CommandStatusPending,
		CreatedAt: now,
	}
	for _, a := range b.actions {
		if err := a(&result); err != nil {
			return Command{}, err
		}
	}

	if result.Intent == "" {
		return Command{}, fmt.Errorf("%w: intent is required", ErrValidation)
	}
	if strings.TrimSpace(result.Target) == "" {
		return Command{}, fmt.Errorf("%w: target is required", ErrValidation)
	}
	if result.Details == nil {
		details, err := UnmarshalDetails(result.Intent, nil)
		if err != nil {
			return Command{}, err
		}
		result.Details = details
	}
	if result.Details.Intent() != result.Intent {
		return Command{}, fmt.Errorf("%w: %s details attached to a %s command", ErrValidation, result.Details.Intent(), result.Intent)
	}
	if err := result.Details.Validate(); err != nil {
		return Command{}, err
	}
	if result.DispatchAfter.IsZero() {
		result.DispatchAfter = result.CreatedAt
	}

	return result, nil
}
