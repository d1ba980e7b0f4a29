package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"nami-server/internal/infra/async"
	"nami-server/internal/shared_kernel/domain"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const CommandEventsTopic async.BrokerTopicName = "command_events"

// _claimAttempts bounds how often ClaimNext moves on to the following head
// after losing a race for the current one.
const _claimAttempts = 3

type DispatchConfig struct {
	ClaimTimeout time.Duration
	MaxRetries   int
	DedupWindow  time.Duration
}

func NewDispatchService(
	repository CommandRepository,
	factory *CommandFactory,
	broker async.InternalBroker,
	config DispatchConfig,
	clock Clock,
) *SimpleDispatchService {
	var transitions metric.Int64Counter = noop.Int64Counter{}
	counter, err := otel.Meter("nami_server").Int64Counter(
		"nami_server.commands.transitions",
		metric.WithDescription("Command status transitions"),
	)
	if err == nil {
		transitions = counter
	}

	return &SimpleDispatchService{
		repository:  repository,
		factory:     factory,
		broker:      broker,
		config:      config,
		clock:       clock,
		transitions: transitions,
	}
}

var _ DispatchService = (*SimpleDispatchService)(nil)

type SimpleDispatchService struct {
	repository  CommandRepository
	factory     *CommandFactory
	broker      async.InternalBroker
	config      DispatchConfig
	clock       Clock
	transitions metric.Int64Counter
}

func (s *SimpleDispatchService) Enqueue(ctx context.Context, req CommandRequest) (domain.Command, error) {
	cmd, err := s.factory.Create(req)
	if err != nil {
		return domain.Command{}, err
	}

	if s.config.DedupWindow > 0 {
		exists, err := s.repository.ExistsWaiting(ctx, cmd.Intent, cmd.Target, cmd.CreatedAt.Add(-s.config.DedupWindow))
		if err != nil {
			return domain.Command{}, fmt.Errorf("checking duplicates: %w", err)
		}
		if exists {
			slog.Warn("duplicate command rejected",
				slog.String("intent", string(cmd.Intent)),
				slog.String("target", cmd.Target),
			)
			return domain.Command{}, fmt.Errorf("%w: %s to %s", domain.ErrDuplicateCommand, cmd.Intent, cmd.Target)
		}
	}

	if err := s.repository.Create(ctx, cmd); err != nil {
		return domain.Command{}, fmt.Errorf("storing command: %w", err)
	}

	slog.Info("command enqueued",
		slog.String("command_id", cmd.ID.String()),
		slog.String("intent", string(cmd.Intent)),
		slog.String("target", cmd.Target),
		slog.Bool("requires_confirmation", cmd.RequiresConfirmation),
		slog.Time("dispatch_after", cmd.DispatchAfter),
	)
	s.emit(ctx, domain.NewCommandCreatedEvent(cmd))

	return cmd, nil
}

func (s *SimpleDispatchService) Get(ctx context.Context, id domain.ID) (domain.Command, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *SimpleDispatchService) List(ctx context.Context, filter CommandFilter) ([]domain.Command, error) {
	return s.repository.FindAll(ctx, filter)
}

func (s *SimpleDispatchService) Peek(ctx context.Context) (domain.Command, error) {
	return s.repository.FindNextActionable(ctx, s.clock(), nil)
}

func (s *SimpleDispatchService) QueueDepth(ctx context.Context) (int64, error) {
	return s.repository.CountActionable(ctx, s.clock())
}

func (s *SimpleDispatchService) ClaimNext(ctx context.Context, robotID domain.ID, intents []domain.Intent) (domain.Command, bool, error) {
	if robotID == "" {
		return domain.Command{}, false, fmt.Errorf("%w: robot id is required", domain.ErrValidation)
	}

	for range _claimAttempts {
		now := s.clock()
		cmd, err := s.repository.FindNextActionable(ctx, now, intents)
		if errors.Is(err, domain.ErrCommandNotFound) {
			return domain.Command{}, false, nil
		}
		if err != nil {
			return domain.Command{}, false, fmt.Errorf("finding next command: %w", err)
		}

		claimed, err := s.claim(ctx, cmd, robotID, now)
		switch {
		case err == nil:
			return claimed, true, nil
		case errors.Is(err, ErrFleetBusy):
			slog.Debug("claim skipped, another command is executing", slog.String("robot_id", robotID.String()))
			return domain.Command{}, false, nil
		case errors.Is(err, ErrVersionConflict):
			slog.Debug("claim lost a race, retrying", slog.String("command_id", cmd.ID.String()))
			continue
		default:
			return domain.Command{}, false, err
		}
	}

	return domain.Command{}, false, nil
}

func (s *SimpleDispatchService) ClaimByID(ctx context.Context, id domain.ID, robotID domain.ID) (domain.Command, error) {
	if robotID == "" {
		return domain.Command{}, fmt.Errorf("%w: robot id is required", domain.ErrValidation)
	}

	cmd, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return domain.Command{}, err
	}

	if cmd.Status == domain.CommandStatusExecuting && cmd.RobotID == robotID {
		return cmd, nil
	}

	now := s.clock()
	head, err := s.repository.FindNextActionable(ctx, now, nil)
	if err != nil && !errors.Is(err, domain.ErrCommandNotFound) {
		return domain.Command{}, fmt.Errorf("finding next command: %w", err)
	}
	if err != nil || head.ID != cmd.ID {
		return domain.Command{}, fmt.Errorf("%w: command %s in status %s is not next in queue", domain.ErrInvalidTransition, cmd.ID, cmd.Status)
	}

	claimed, err := s.claim(ctx, head, robotID, now)
	switch {
	case errors.Is(err, ErrFleetBusy):
		return domain.Command{}, fmt.Errorf("%w: another command is executing", domain.ErrInvalidTransition)
	case errors.Is(err, ErrVersionConflict):
		return domain.Command{}, fmt.Errorf("%w: command %s was claimed concurrently", domain.ErrInvalidTransition, cmd.ID)
	}
	return claimed, err
}

func (s *SimpleDispatchService) claim(ctx context.Context, cmd domain.Command, robotID domain.ID, now time.Time) (domain.Command, error) {
	expected := cmd.Version
	event, err := cmd.Claim(robotID, now)
	if err != nil {
		return domain.Command{}, err
	}

	if err := s.repository.SaveClaim(ctx, cmd, expected); err != nil {
		return domain.Command{}, err
	}

	slog.Info("command claimed",
		slog.String("command_id", cmd.ID.String()),
		slog.String("robot_id", robotID.String()),
		slog.Int("retry_count", cmd.RetryCount),
	)
	s.emit(ctx, event)

	return cmd, nil
}

func (s *SimpleDispatchService) ReportOutcome(ctx context.Context, id domain.ID, outcome Outcome) (domain.Command, error) {
	cmd, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return domain.Command{}, err
	}

	if cmd.Status != domain.CommandStatusExecuting {
		return domain.Command{}, fmt.Errorf("%w: command %s is %s, not executing", domain.ErrInvalidTransition, cmd.ID, cmd.Status)
	}
	if outcome.RobotID != "" && outcome.RobotID != cmd.RobotID {
		return domain.Command{}, fmt.Errorf("%w: command %s is held by another robot", domain.ErrInvalidTransition, cmd.ID)
	}
	if outcome.RetryCount != nil && *outcome.RetryCount != cmd.RetryCount {
		return domain.Command{}, fmt.Errorf("%w: report for attempt %d, command %s is on attempt %d",
			domain.ErrInvalidTransition, *outcome.RetryCount, cmd.ID, cmd.RetryCount)
	}

	expected := cmd.Version
	now := s.clock()
	var event domain.CommandEvent
	if outcome.Success {
		event, err = cmd.Complete(now)
	} else {
		event, err = cmd.Fail(outcome.ErrorMessage, now)
	}
	if err != nil {
		return domain.Command{}, err
	}

	err = s.repository.SaveTransition(ctx, cmd, expected)
	if errors.Is(err, ErrVersionConflict) {
		return domain.Command{}, fmt.Errorf("%w: command %s changed while reporting", domain.ErrInvalidTransition, cmd.ID)
	}
	if err != nil {
		return domain.Command{}, err
	}

	attrs := []any{
		slog.String("command_id", cmd.ID.String()),
		slog.String("status", string(cmd.Status)),
	}
	if cmd.ErrorMessage != nil {
		attrs = append(attrs, slog.String("error_message", *cmd.ErrorMessage))
	}
	slog.Info("command finalized", attrs...)
	s.emit(ctx, event)

	return cmd, nil
}

func (s *SimpleDispatchService) Confirm(ctx context.Context, id domain.ID) (domain.Command, error) {
	cmd, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return domain.Command{}, err
	}

	expected := cmd.Version
	event, err := cmd.Confirm(s.clock())
	if err != nil {
		return domain.Command{}, err
	}

	err = s.repository.SaveTransition(ctx, cmd, expected)
	if errors.Is(err, ErrVersionConflict) {
		return domain.Command{}, fmt.Errorf("%w: command %s changed while confirming", domain.ErrInvalidTransition, cmd.ID)
	}
	if err != nil {
		return domain.Command{}, err
	}

	slog.Info("command confirmed", slog.String("command_id", cmd.ID.String()))
	s.emit(ctx, event)

	return cmd, nil
}

// Cancel withdraws a pending or confirmed command before any robot takes it.
func (s *SimpleDispatchService) Cancel(ctx context.Context, id domain.ID, reason string) (domain.Command, error) {
	cmd, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return domain.Command{}, err
	}

	expected := cmd.Version
	event, err := cmd.Cancel(reason, s.clock())
	if err != nil {
		return domain.Command{}, err
	}

	err = s.repository.SaveTransition(ctx, cmd, expected)
	if errors.Is(err, ErrVersionConflict) {
		return domain.Command{}, fmt.Errorf("%w: command %s changed while cancelling", domain.ErrInvalidTransition, cmd.ID)
	}
	if err != nil {
		return domain.Command{}, err
	}

	slog.Info("command cancelled",
		slog.String("command_id", cmd.ID.String()),
		slog.String("error_message", *cmd.ErrorMessage),
	)
	s.emit(ctx, event)

	return cmd, nil
}

// ExpireStalled requeues commands that stayed executing past the claim
// timeout, or fails them once they used up their retries.
func (s *SimpleDispatchService) ExpireStalled(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	now := s.clock()

	stalled, err := s.repository.FindStalled(ctx, now.Add(-s.config.ClaimTimeout))
	if err != nil {
		return result, fmt.Errorf("finding stalled commands: %w", err)
	}

	for _, cmd := range stalled {
		expected := cmd.Version
		var event domain.CommandEvent
		if cmd.RetryCount >= s.config.MaxRetries {
			reason := fmt.Sprintf("%s: no outcome reported within %s after %d retries", domain.ErrClaimTimeout, s.config.ClaimTimeout, cmd.RetryCount)
			event, err = cmd.Expire(reason, now)
		} else {
			event, err = cmd.Requeue(now)
		}
		if err != nil {
			return result, err
		}

		err = s.repository.SaveTransition(ctx, cmd, expected)
		if errors.Is(err, ErrVersionConflict) {
			slog.Debug("stalled command changed during sweep", slog.String("command_id", cmd.ID.String()))
			continue
		}
		if err != nil {
			return result, err
		}

		if cmd.Status == domain.CommandStatusFailed {
			result.Failed++
			slog.Warn("stalled command failed",
				slog.String("command_id", cmd.ID.String()),
				slog.Int("retry_count", cmd.RetryCount),
			)
		} else {
			result.Requeued++
			slog.Warn("stalled command requeued",
				slog.String("command_id", cmd.ID.String()),
				slog.Int("retry_count", cmd.RetryCount),
			)
		}
		s.emit(ctx, event)
	}

	return result, nil
}

func (s *SimpleDispatchService) emit(ctx context.Context, event domain.CommandEvent) {
	s.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", event.Type),
		attribute.String("intent", string(event.Intent)),
	))

	msg := async.BrokerMessage{Event: event.Type, Value: event}
	err := s.broker.Publish(ctx, CommandEventsTopic, msg)
	if errors.Is(err, async.ErrTopicNotFound) {
		return
	}
	if err != nil {
		span := trace.SpanFromContext(ctx)
		slog.Error("publishing command event",
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("span_id", span.SpanContext().SpanID().String()),
			slog.Any("error", err),
		)
	}
}
