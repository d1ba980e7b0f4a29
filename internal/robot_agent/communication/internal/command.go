package internal

import (
	"encoding/json"
	"fmt"
	"nami-server/internal/shared_kernel/domain"
	"time"
)

type ClaimRequest struct {
	RobotID string   `json:"robot_id"`
	Intents []string `json:"intents,omitempty"`
}

type CompleteRequest struct {
	RobotID      string  `json:"robot_id"`
	Success      bool    `json:"success"`
	ErrorMessage *string `json:"error_message,omitempty"`
	RetryCount   int     `json:"retry_count"`
}

type StatusRequest struct {
	RobotID     string `json:"robot_id"`
	Status      string `json:"status"`
	Location    string `json:"location"`
	Battery     int    `json:"battery"`
	CurrentTask string `json:"current_task"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

// Command mirrors the command representation served by the dispatch API.
type Command struct {
	ID                   string              `json:"id"`
	Intent               string              `json:"intent"`
	Action               string              `json:"action"`
	Target               string              `json:"target"`
	Coordinates          *domain.Coordinates `json:"coordinates,omitempty"`
	Details              json.RawMessage     `json:"details"`
	Status               string              `json:"status"`
	RequiresConfirmation bool                `json:"requires_confirmation"`
	RobotID              string              `json:"robot_id,omitempty"`
	RetryCount           int                 `json:"retry_count"`
	DispatchAfter        time.Time           `json:"dispatch_after"`
	CreatedAt            time.Time           `json:"created_at"`
	ClaimedAt            *time.Time          `json:"claimed_at,omitempty"`
}

// ToDomain keeps an unknown intent as is so the execution engine can reject
// it.
func (c Command) ToDomain() (domain.Command, error) {
	cmd := domain.Command{
		ID:                   domain.ID(c.ID),
		Intent:               domain.Intent(c.Intent),
		Action:               c.Action,
		Target:               c.Target,
		Coordinates:          c.Coordinates,
		Status:               domain.CommandStatus(c.Status),
		RequiresConfirmation: c.RequiresConfirmation,
		RobotID:              domain.ID(c.RobotID),
		RetryCount:           c.RetryCount,
		DispatchAfter:        c.DispatchAfter,
		CreatedAt:            c.CreatedAt,
		ClaimedAt:            c.ClaimedAt,
	}

	if !cmd.Intent.IsKnown() {
		return cmd, nil
	}

	details, err := domain.UnmarshalDetails(cmd.Intent, c.Details)
	if err != nil {
		return domain.Command{}, fmt.Errorf("decoding %s details: %w", cmd.Intent, err)
	}
	cmd.Details = details
	return cmd, nil
}
