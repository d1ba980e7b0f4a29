package domain

import (
	"nami-server/internal/infra/utils"
	"time"
)

const EventCreate = "create"

// CommandEvent describes one status transition of a command. Observers
// receive it after the transition has been stored.
type CommandEvent struct {
	ID           ID            `json:"id"`
	Type         string        `json:"type"`
	CommandID    ID            `json:"command_id"`
	Intent       Intent        `json:"intent"`
	Action       string        `json:"action"`
	Target       string        `json:"target"`
	FromStatus   CommandStatus `json:"from_status,omitempty"`
	ToStatus     CommandStatus `json:"to_status"`
	RobotID      ID            `json:"robot_id,omitempty"`
	RetryCount   int           `json:"retry_count"`
	ErrorMessage string        `json:"error_message,omitempty"`
	OccurredAt   time.Time     `json:"occurred_at"`
}

func NewCommandEvent(cmd Command, eventType string, from CommandStatus, at time.Time) CommandEvent {
	event := CommandEvent{
		ID:         ID(utils.GenerateUUID()),
		Type:       eventType,
		CommandID:  cmd.ID,
		Intent:     cmd.Intent,
		Action:     cmd.Action,
		Target:     cmd.Target,
		FromStatus: from,
		ToStatus:   cmd.Status,
		RobotID:    cmd.RobotID,
		RetryCount: cmd.RetryCount,
		OccurredAt: at,
	}
	if cmd.ErrorMessage != nil {
		event.ErrorMessage = *cmd.ErrorMessage
	}
	return event
}

// NewCommandCreatedEvent reports a command entering the queue.
func NewCommandCreatedEvent(cmd Command) CommandEvent {
	return NewCommandEvent(cmd, EventCreate, "", cmd.CreatedAt)
}
