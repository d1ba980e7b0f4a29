package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"nami-server/internal/control_plane/httpapi/internal"
	"nami-server/internal/control_plane/usecases"
	"nami-server/internal/infra/httpserver"
	"nami-server/internal/shared_kernel/domain"
	"net/http"
)

const (
	createCommandErrMessage   = "failed to create command"
	listCommandsErrMessage    = "failed to list commands"
	getCommandErrMessage      = "failed to get command"
	claimCommandErrMessage    = "failed to claim command"
	completeCommandErrMessage = "failed to complete command"
	confirmCommandErrMessage  = "failed to confirm command"
	cancelCommandErrMessage   = "failed to cancel command"
	invalidBodyErrMessage     = "invalid request body"
)

func NewCommandController(service usecases.DispatchService) *CommandController {
	return &CommandController{
		service: service,
	}
}

var _ httpserver.Controller = &CommandController{}

type CommandController struct {
	service usecases.DispatchService
}

func (c *CommandController) AddRoutes(router *http.ServeMux) {
	router.Handle("POST /v1/robot/commands", c.create())
	router.Handle("GET /v1/robot/commands", c.list())
	router.Handle("GET /v1/robot/commands/next", c.next())
	router.Handle("POST /v1/robot/commands/claim", c.claim())
	router.Handle("GET /v1/robot/commands/{id}", c.get())
	router.Handle("POST /v1/robot/commands/{id}/execute", c.execute())
	router.Handle("POST /v1/robot/commands/{id}/complete", c.complete())
	router.Handle("POST /v1/robot/commands/{id}/confirm", c.confirm())
	router.Handle("POST /v1/robot/commands/{id}/cancel", c.cancel())
}

func (c *CommandController) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.CommandCreateRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			slog.Warn("decoding json body", slog.Any("error", err))
			httpserver.ReplyWithError(w, http.StatusBadRequest, invalidBodyErrMessage)
			return
		}

		cmd, err := c.service.Enqueue(r.Context(), body.ToUsecase())
		if err != nil {
			replyWithDomainError(w, r, err, createCommandErrMessage)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusCreated, internal.CommandCreateResponse{
			ID:     cmd.ID.String(),
			Status: string(cmd.Status),
		})
	}
}

func (c *CommandController) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := usecases.CommandFilter{
			Limit: httpserver.GetQueryParamInt(r, "limit", usecases.DefaultListLimit),
		}
		if filter.Limit < 1 || filter.Limit > usecases.MaxListLimit {
			httpserver.ReplyWithError(w, http.StatusBadRequest,
				fmt.Sprintf("limit must be between 1 and %d", usecases.MaxListLimit))
			return
		}

		if value := httpserver.GetQueryParam(r, "status"); value != "" {
			status, err := domain.ParseCommandStatus(value)
			if err != nil {
				replyWithDomainError(w, r, err, listCommandsErrMessage)
				return
			}
			filter.Status = &status
		}
		if value := httpserver.GetQueryParam(r, "intent"); value != "" {
			intent, err := domain.ParseIntent(value)
			if err != nil {
				replyWithDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrValidation, err), listCommandsErrMessage)
				return
			}
			filter.Intent = &intent
		}

		cmds, err := c.service.List(r.Context(), filter)
		if err != nil {
			replyWithDomainError(w, r, err, listCommandsErrMessage)
			return
		}

		response, err := internal.FromCommands(cmds)
		if err != nil {
			replyWithDomainError(w, r, err, listCommandsErrMessage)
			return
		}
		httpserver.ReplyJSONResponse(w, http.StatusOK, response)
	}
}

func (c *CommandController) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := c.service.Get(r.Context(), domain.ID(httpserver.GetPathParam(r, "id")))
		if err != nil {
			replyWithDomainError(w, r, err, getCommandErrMessage)
			return
		}
		c.replyCommand(w, r, http.StatusOK, cmd, getCommandErrMessage)
	}
}

// next answers 204 when nothing is claimable.
func (c *CommandController) next() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := c.service.Peek(r.Context())
		if errors.Is(err, domain.ErrCommandNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err != nil {
			replyWithDomainError(w, r, err, getCommandErrMessage)
			return
		}
		c.replyCommand(w, r, http.StatusOK, cmd, getCommandErrMessage)
	}
}

func (c *CommandController) claim() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.CommandClaimRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, invalidBodyErrMessage)
			return
		}

		intents := make([]domain.Intent, 0, len(body.Intents))
		for _, value := range body.Intents {
			intent, err := domain.ParseIntent(value)
			if err != nil {
				replyWithDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrValidation, err), claimCommandErrMessage)
				return
			}
			intents = append(intents, intent)
		}

		cmd, ok, err := c.service.ClaimNext(r.Context(), robotID(r, body.RobotID), intents)
		if err != nil {
			replyWithDomainError(w, r, err, claimCommandErrMessage)
			return
		}
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		c.replyCommand(w, r, http.StatusOK, cmd, claimCommandErrMessage)
	}
}

func (c *CommandController) execute() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.CommandExecuteRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, invalidBodyErrMessage)
			return
		}

		id := domain.ID(httpserver.GetPathParam(r, "id"))
		cmd, err := c.service.ClaimByID(r.Context(), id, robotID(r, body.RobotID))
		if err != nil {
			replyWithDomainError(w, r, err, claimCommandErrMessage)
			return
		}
		c.replyCommand(w, r, http.StatusOK, cmd, claimCommandErrMessage)
	}
}

func (c *CommandController) complete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.CommandCompleteRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, invalidBodyErrMessage)
			return
		}

		outcome := usecases.Outcome{
			RobotID:    robotID(r, body.RobotID),
			Success:    body.Success,
			RetryCount: body.RetryCount,
		}
		if body.ErrorMessage != nil {
			outcome.ErrorMessage = *body.ErrorMessage
		}

		id := domain.ID(httpserver.GetPathParam(r, "id"))
		cmd, err := c.service.ReportOutcome(r.Context(), id, outcome)
		if err != nil {
			replyWithDomainError(w, r, err, completeCommandErrMessage)
			return
		}
		c.replyCommand(w, r, http.StatusOK, cmd, completeCommandErrMessage)
	}
}

func (c *CommandController) confirm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := domain.ID(httpserver.GetPathParam(r, "id"))
		cmd, err := c.service.Confirm(r.Context(), id)
		if err != nil {
			replyWithDomainError(w, r, err, confirmCommandErrMessage)
			return
		}
		c.replyCommand(w, r, http.StatusOK, cmd, confirmCommandErrMessage)
	}
}

func (c *CommandController) cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.CommandCancelRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, invalidBodyErrMessage)
			return
		}

		id := domain.ID(httpserver.GetPathParam(r, "id"))
		cmd, err := c.service.Cancel(r.Context(), id, body.Reason)
		if err != nil {
			replyWithDomainError(w, r, err, cancelCommandErrMessage)
			return
		}
		c.replyCommand(w, r, http.StatusOK, cmd, cancelCommandErrMessage)
	}
}

func (c *CommandController) replyCommand(w http.ResponseWriter, r *http.Request, status int, cmd domain.Command, errMessage string) {
	response, err := internal.FromCommand(cmd)
	if err != nil {
		replyWithDomainError(w, r, err, errMessage)
		return
	}
	httpserver.ReplyJSONResponse(w, status, response)
}

// robotID prefers the body and falls back to the robot header.
func robotID(r *http.Request, fromBody string) domain.ID {
	if fromBody != "" {
		return domain.ID(fromBody)
	}
	return domain.ID(r.Header.Get(httpserver.RobotIDHeader))
}
