package internal

import (
	"nami-server/internal/infra/utils"
	"nami-server/internal/shared_kernel/domain"
)

type CommandEventMessage struct {
	Type         string     `json:"type"`
	CommandID    string     `json:"command_id"`
	Intent       string     `json:"intent"`
	Target       string     `json:"target"`
	FromStatus   string     `json:"from_status,omitempty"`
	ToStatus     string     `json:"to_status"`
	RobotID      string     `json:"robot_id,omitempty"`
	RetryCount   int        `json:"retry_count"`
	ErrorMessage string     `json:"error_message,omitempty"`
	OccurredAt   utils.Time `json:"occurred_at"`
}

func FromCommandEvent(event domain.CommandEvent) CommandEventMessage {
	return CommandEventMessage{
		Type:         event.Type,
		CommandID:    event.CommandID.String(),
		Intent:       string(event.Intent),
		Target:       event.Target,
		FromStatus:   string(event.FromStatus),
		ToStatus:     string(event.ToStatus),
		RobotID:      event.RobotID.String(),
		RetryCount:   event.RetryCount,
		ErrorMessage: event.ErrorMessage,
		OccurredAt:   utils.NewTime(event.OccurredAt),
	}
}
