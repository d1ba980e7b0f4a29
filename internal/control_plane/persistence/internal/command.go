package internal

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"nami-server/internal/shared_kernel/domain"
	"time"
)

type CommandSet []Command

func (CommandSet) TableName() string {
	return "robot_commands"
}

func (s CommandSet) ToDomain() ([]domain.Command, error) {
	result := make([]domain.Command, len(s))
	for i, v := range s {
		cmd, err := v.ToDomain()
		if err != nil {
			return nil, err
		}
		result[i] = cmd
	}

	return result, nil
}

type Command struct {
	ID                   string         `json:"id" gorm:"primaryKey"`
	Version              int            `json:"version"`
	Intent               string         `json:"intent" gorm:"index"`
	Action               string         `json:"action"`
	Target               string         `json:"target"`
	CoordinateX          *float64       `json:"coordinate_x"`
	CoordinateY          *float64       `json:"coordinate_y"`
	Details              DetailsPayload `json:"details" gorm:"type:json"`
	RequiresConfirmation bool           `json:"requires_confirmation"`
	Status               string         `json:"status" gorm:"index:idx_robot_commands_queue,priority:1"`
	RobotID              string         `json:"robot_id"`
	RetryCount           int            `json:"retry_count"`
	DispatchAfter        time.Time      `json:"dispatch_after"`
	CreatedAt            time.Time      `json:"created_at" gorm:"autoCreateTime:false;index:idx_robot_commands_queue,priority:2"`
	Seq                  uint64         `json:"seq" gorm:"not null;default:0;index:idx_robot_commands_queue,priority:3"`
	ConfirmedAt          *time.Time     `json:"confirmed_at"`
	ClaimedAt            *time.Time     `json:"claimed_at"`
	CompletedAt          *time.Time     `json:"completed_at"`
	ErrorMessage         *string        `json:"error_message"`
}

func (Command) TableName() string {
	return "robot_commands"
}

// DetailsPayload holds the intent specific details as JSON text.
type DetailsPayload []byte

func (v DetailsPayload) Value() (driver.Value, error) {
	if len(v) == 0 {
		return "{}", nil
	}
	return string(v), nil
}

func (v *DetailsPayload) Scan(value any) error {
	switch data := value.(type) {
	case string:
		*v = DetailsPayload(data)
	case []byte:
		*v = append(DetailsPayload(nil), data...)
	case nil:
		*v = nil
	default:
		return errors.New("type assertion to string failed")
	}
	return nil
}

// ToDomain keeps rows with an unknown intent readable so the executor can
// reject them; only malformed details of a known intent fail.
func (c Command) ToDomain() (domain.Command, error) {
	cmd := domain.Command{
		ID:                   domain.ID(c.ID),
		Version:              domain.Version(c.Version),
		Intent:               domain.Intent(c.Intent),
		Action:               c.Action,
		Target:               c.Target,
		RequiresConfirmation: c.RequiresConfirmation,
		Status:               domain.CommandStatus(c.Status),
		RobotID:              domain.ID(c.RobotID),
		RetryCount:           c.RetryCount,
		DispatchAfter:        c.DispatchAfter.UTC(),
		CreatedAt:            c.CreatedAt.UTC(),
		ConfirmedAt:          utcPtr(c.ConfirmedAt),
		ClaimedAt:            utcPtr(c.ClaimedAt),
		CompletedAt:          utcPtr(c.CompletedAt),
		ErrorMessage:         c.ErrorMessage,
	}

	if c.CoordinateX != nil && c.CoordinateY != nil {
		cmd.Coordinates = &domain.Coordinates{X: *c.CoordinateX, Y: *c.CoordinateY}
	}

	if cmd.Intent.IsKnown() {
		details, err := domain.UnmarshalDetails(cmd.Intent, c.Details)
		if err != nil {
			return domain.Command{}, fmt.Errorf("command %s: %w", c.ID, err)
		}
		cmd.Details = details
	}

	return cmd, nil
}

func FromCommand(cmd domain.Command) (Command, error) {
	details, err := domain.MarshalDetails(cmd.Details)
	if err != nil {
		return Command{}, err
	}

	entity := Command{
		ID:                   cmd.ID.String(),
		Version:              int(cmd.Version),
		Intent:               string(cmd.Intent),
		Action:               cmd.Action,
		Target:               cmd.Target,
		Details:              details,
		RequiresConfirmation: cmd.RequiresConfirmation,
		Status:               string(cmd.Status),
		RobotID:              cmd.RobotID.String(),
		RetryCount:           cmd.RetryCount,
		DispatchAfter:        cmd.DispatchAfter.UTC(),
		CreatedAt:            cmd.CreatedAt.UTC(),
		ConfirmedAt:          utcPtr(cmd.ConfirmedAt),
		ClaimedAt:            utcPtr(cmd.ClaimedAt),
		CompletedAt:          utcPtr(cmd.CompletedAt),
		ErrorMessage:         cmd.ErrorMessage,
	}
	if cmd.Coordinates != nil {
		entity.CoordinateX = &cmd.Coordinates.X
		entity.CoordinateY = &cmd.Coordinates.Y
	}

	return entity, nil
}

// TransitionColumns lists the columns a status transition may change.
func (c Command) TransitionColumns() map[string]any {
	return map[string]any{
		"version":       c.Version,
		"status":        c.Status,
		"robot_id":      c.RobotID,
		"retry_count":   c.RetryCount,
		"confirmed_at":  c.ConfirmedAt,
		"claimed_at":    c.ClaimedAt,
		"completed_at":  c.CompletedAt,
		"error_message": c.ErrorMessage,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
