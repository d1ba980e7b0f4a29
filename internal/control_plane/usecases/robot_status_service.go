package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"nami-server/internal/shared_kernel/domain"
)

type RobotStatusConfig struct {
	DefaultLocation domain.Location
	DefaultBattery  int
}

func NewRobotStatusService(
	repository CommandRepository,
	states RobotStateCache,
	config RobotStatusConfig,
	clock Clock,
) *SimpleRobotStatusService {
	return &SimpleRobotStatusService{
		repository: repository,
		states:     states,
		config:     config,
		clock:      clock,
	}
}

var _ RobotStatusService = (*SimpleRobotStatusService)(nil)

type SimpleRobotStatusService struct {
	repository CommandRepository
	states     RobotStateCache
	config     RobotStatusConfig
	clock      Clock
}

func (s *SimpleRobotStatusService) Report(ctx context.Context, state domain.RobotState) error {
	if state.RobotID == "" {
		return fmt.Errorf("%w: robot id is required", domain.ErrValidation)
	}
	if _, err := domain.ParseRobotStatus(string(state.Status)); err != nil {
		return err
	}
	if state.Battery < 0 || state.Battery > domain.BatteryFull {
		return fmt.Errorf("%w: battery must be between 0 and %d", domain.ErrValidation, domain.BatteryFull)
	}

	state.UpdatedAt = s.clock()
	if state.IsBatteryLow() {
		slog.Warn("robot battery low",
			slog.String("robot_id", state.RobotID.String()),
			slog.Int("battery", state.Battery),
		)
	}

	return s.states.Set(ctx, state)
}

// Status prefers the robot's own heartbeat. Without a live heartbeat it
// derives busy or idle from the executing command.
func (s *SimpleRobotStatusService) Status(ctx context.Context, robotID domain.ID) (RobotStatusView, error) {
	executing, err := s.repository.FindExecuting(ctx)
	hasExecuting := err == nil
	if err != nil && !errors.Is(err, domain.ErrCommandNotFound) {
		return RobotStatusView{}, fmt.Errorf("finding executing command: %w", err)
	}

	if state, ok := s.states.Get(ctx, robotID); ok {
		view := RobotStatusView{
			RobotID:     state.RobotID,
			Status:      state.Status,
			Location:    state.Location,
			Battery:     state.Battery,
			CurrentTask: state.CurrentTask,
			Live:        true,
			UpdatedAt:   state.UpdatedAt,
		}
		if hasExecuting && executing.RobotID == robotID {
			view.CurrentCommandID = executing.ID
		}
		return view, nil
	}

	view := RobotStatusView{
		RobotID:  robotID,
		Status:   domain.RobotStatusIdle,
		Location: s.config.DefaultLocation,
		Battery:  s.config.DefaultBattery,
	}
	if hasExecuting {
		view.Status = domain.RobotStatusBusy
		view.CurrentTask = DescribeTask(executing)
		view.CurrentCommandID = executing.ID
		if executing.ClaimedAt != nil {
			view.UpdatedAt = *executing.ClaimedAt
		}
	}
	return view, nil
}

// DescribeTask renders a command as a short human readable task.
func DescribeTask(cmd domain.Command) string {
	switch details := cmd.Details.(type) {
	case domain.DeliveryDetails:
		return fmt.Sprintf("deliver %s from %s to %s", details.Item, details.From, details.To)
	case domain.MedicineDeliveryDetails:
		return fmt.Sprintf("deliver %s to %s in %s", details.Medicine, details.Patient, details.Room)
	case domain.RobotControlDetails:
		return cmd.Action
	default:
		return fmt.Sprintf("%s to %s", cmd.Action, cmd.Target)
	}
}
