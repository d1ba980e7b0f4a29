package httpapi

import (
	"nami-server/internal/control_plane/httpapi/internal"
	"nami-server/internal/control_plane/usecases"
	"nami-server/internal/infra/httpserver"
	"nami-server/internal/shared_kernel/domain"
	"net/http"
)

const (
	robotStatusErrMessage = "failed to get robot status"
	robotReportErrMessage = "failed to store robot status"
)

// NewRobotController serves the robot telemetry. GET without a robot id
// answers for defaultRobotID.
func NewRobotController(service usecases.RobotStatusService, defaultRobotID domain.ID) *RobotController {
	return &RobotController{
		service:        service,
		defaultRobotID: defaultRobotID,
	}
}

var _ httpserver.Controller = &RobotController{}

type RobotController struct {
	service        usecases.RobotStatusService
	defaultRobotID domain.ID
}

func (c *RobotController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /v1/robot/status", c.status())
	router.Handle("PUT /v1/robot/status", c.report())
}

func (c *RobotController) status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := domain.ID(httpserver.GetQueryParam(r, "robot_id"))
		if id == "" {
			id = robotID(r, "")
		}
		if id == "" {
			id = c.defaultRobotID
		}

		view, err := c.service.Status(r.Context(), id)
		if err != nil {
			replyWithDomainError(w, r, err, robotStatusErrMessage)
			return
		}
		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.FromRobotStatus(view))
	}
}

func (c *RobotController) report() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.RobotStatusRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, invalidBodyErrMessage)
			return
		}

		err := c.service.Report(r.Context(), domain.RobotState{
			RobotID:     robotID(r, body.RobotID),
			Status:      domain.RobotStatus(body.Status),
			Location:    domain.Location(body.Location),
			Battery:     body.Battery,
			CurrentTask: body.CurrentTask,
		})
		if err != nil {
			replyWithDomainError(w, r, err, robotReportErrMessage)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
