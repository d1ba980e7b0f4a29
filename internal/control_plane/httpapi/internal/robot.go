package internal

import (
	"nami-server/internal/control_plane/usecases"
	"nami-server/internal/infra/utils"
)

type RobotStatusRequest struct {
	RobotID     string `json:"robot_id"`
	Status      string `json:"status"`
	Location    string `json:"location"`
	Battery     int    `json:"battery"`
	CurrentTask string `json:"current_task"`
}

type RobotStatusResponse struct {
	RobotID          string      `json:"robot_id"`
	Status           string      `json:"status"`
	Location         string      `json:"location"`
	Battery          int         `json:"battery"`
	CurrentTask      string      `json:"current_task"`
	CurrentCommandID string      `json:"current_command_id,omitempty"`
	Live             bool        `json:"live"`
	UpdatedAt        *utils.Time `json:"updated_at,omitempty"`
}

func FromRobotStatus(view usecases.RobotStatusView) RobotStatusResponse {
	response := RobotStatusResponse{
		RobotID:          view.RobotID.String(),
		Status:           string(view.Status),
		Location:         view.Location.String(),
		Battery:          view.Battery,
		CurrentTask:      view.CurrentTask,
		CurrentCommandID: view.CurrentCommandID.String(),
		Live:             view.Live,
	}
	if !view.UpdatedAt.IsZero() {
		updatedAt := utils.NewTime(view.UpdatedAt)
		response.UpdatedAt = &updatedAt
	}
	return response
}
