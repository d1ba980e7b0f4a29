package internal

import (
	"encoding/json"
	"nami-server/internal/control_plane/usecases"
	"nami-server/internal/infra/utils"
	"nami-server/internal/shared_kernel/domain"
)

type CommandCreateRequest struct {
	Intent      string                `json:"intent"`
	Action      string                `json:"action"`
	Target      string                `json:"target"`
	Coordinates *domain.Coordinates   `json:"coordinates,omitempty"`
	Details     CommandDetailsRequest `json:"details"`
	Date        string                `json:"date,omitempty"`
	Time        string                `json:"time,omitempty"`
}

type CommandDetailsRequest struct {
	Item     string `json:"item"`
	From     string `json:"from"`
	To       string `json:"to"`
	Medicine string `json:"medicine"`
	Patient  string `json:"patient"`
	Dosage   string `json:"dosage"`
	Room     string `json:"room"`
}

func (r CommandCreateRequest) ToUsecase() usecases.CommandRequest {
	return usecases.CommandRequest{
		Intent:      r.Intent,
		Action:      r.Action,
		Target:      r.Target,
		Coordinates: r.Coordinates,
		Details: usecases.RequestDetails{
			Item:     r.Details.Item,
			From:     r.Details.From,
			To:       r.Details.To,
			Medicine: r.Details.Medicine,
			Patient:  r.Details.Patient,
			Dosage:   r.Details.Dosage,
			Room:     r.Details.Room,
		},
		Date: r.Date,
		Time: r.Time,
	}
}

type CommandCreateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type CommandClaimRequest struct {
	RobotID string   `json:"robot_id"`
	Intents []string `json:"intents,omitempty"`
}

type CommandExecuteRequest struct {
	RobotID string `json:"robot_id"`
}

type CommandCompleteRequest struct {
	RobotID      string  `json:"robot_id"`
	Success      bool    `json:"success"`
	ErrorMessage *string `json:"error_message,omitempty"`
	RetryCount   *int    `json:"retry_count,omitempty"`
}

type CommandCancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

type CommandResponse struct {
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
	DispatchAfter        utils.Time          `json:"dispatch_after"`
	CreatedAt            utils.Time          `json:"created_at"`
	ConfirmedAt          *utils.Time         `json:"confirmed_at,omitempty"`
	ClaimedAt            *utils.Time         `json:"claimed_at,omitempty"`
	CompletedAt          *utils.Time         `json:"completed_at"`
	ErrorMessage         *string             `json:"error_message"`
}

func FromCommand(cmd domain.Command) (CommandResponse, error) {
	details, err := domain.MarshalDetails(cmd.Details)
	if err != nil {
		return CommandResponse{}, err
	}

	return CommandResponse{
		ID:                   cmd.ID.String(),
		Intent:               string(cmd.Intent),
		Action:               cmd.Action,
		Target:               cmd.Target,
		Coordinates:          cmd.Coordinates,
		Details:              details,
		Status:               string(cmd.Status),
		RequiresConfirmation: cmd.RequiresConfirmation,
		RobotID:              cmd.RobotID.String(),
		RetryCount:           cmd.RetryCount,
		DispatchAfter:        utils.NewTime(cmd.DispatchAfter),
		CreatedAt:            utils.NewTime(cmd.CreatedAt),
		ConfirmedAt:          utils.TimeOrNil(cmd.ConfirmedAt),
		ClaimedAt:            utils.TimeOrNil(cmd.ClaimedAt),
		CompletedAt:          utils.TimeOrNil(cmd.CompletedAt),
		ErrorMessage:         cmd.ErrorMessage,
	}, nil
}

type CommandListResponse struct {
	Commands []CommandResponse `json:"commands"`
}

func FromCommands(cmds []domain.Command) (CommandListResponse, error) {
	response := CommandListResponse{Commands: make([]CommandResponse, 0, len(cmds))}
	for _, cmd := range cmds {
		item, err := FromCommand(cmd)
		if err != nil {
			return CommandListResponse{}, err
		}
		response.Commands = append(response.Commands, item)
	}
	return response, nil
}
