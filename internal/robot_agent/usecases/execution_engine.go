package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"nami-server/internal/shared_kernel/domain"
)

type ExecutionConfig struct {
	PharmacyLocation domain.Location
	HomeLocation     domain.Location
}

func NewExecutionEngine(config ExecutionConfig, locomotion Locomotion, state *StateHolder) *ExecutionEngine {
	return &ExecutionEngine{
		config:     config,
		locomotion: locomotion,
		state:      state,
	}
}

var _ Executor = (*ExecutionEngine)(nil)

// ExecutionEngine runs the action sequence of one claimed command. Steps run
// in order and the first failing step ends the sequence.
type ExecutionEngine struct {
	config     ExecutionConfig
	locomotion Locomotion
	state      *StateHolder
}

type step struct {
	name string
	run  func(context.Context) error
}

// Execute returns nil on success, domain.ErrUnknownIntent for commands no
// handler exists for and domain.ErrActionFailure when a step fails.
func (e *ExecutionEngine) Execute(ctx context.Context, cmd domain.Command) error {
	steps, err := e.plan(cmd)
	if err != nil {
		slog.Error("command cannot be executed",
			slog.String("command_id", cmd.ID.String()),
			slog.String("intent", string(cmd.Intent)),
			slog.Any("error", err),
		)
		return err
	}

	for i, s := range steps {
		slog.Info("step started",
			slog.String("command_id", cmd.ID.String()),
			slog.String("step", s.name),
			slog.Int("index", i+1),
			slog.Int("total", len(steps)),
		)

		if err := s.run(ctx); err != nil {
			slog.Warn("step failed",
				slog.String("command_id", cmd.ID.String()),
				slog.String("step", s.name),
				slog.Any("error", err),
			)
			return fmt.Errorf("%w: %s: %v", domain.ErrActionFailure, s.name, err)
		}

		slog.Info("step done", slog.String("command_id", cmd.ID.String()), slog.String("step", s.name))
	}

	return nil
}

func (e *ExecutionEngine) plan(cmd domain.Command) ([]step, error) {
	switch cmd.Intent {
	case domain.IntentNavigation:
		return []step{e.move("navigate to "+cmd.Target, domain.Location(cmd.Target))}, nil

	case domain.IntentDelivery:
		details, ok := cmd.Details.(domain.DeliveryDetails)
		if !ok {
			return nil, fmt.Errorf("%w: delivery without delivery details", domain.ErrValidation)
		}
		to := details.To
		if to == "" {
			to = cmd.Target
		}
		var steps []step
		if details.From != "" {
			steps = append(steps, e.move(fmt.Sprintf("pick up %s at %s", details.Item, details.From), domain.Location(details.From)))
		}
		return append(steps, e.move(fmt.Sprintf("deliver %s to %s", details.Item, to), domain.Location(to))), nil

	case domain.IntentMedicineDelivery:
		details, ok := cmd.Details.(domain.MedicineDeliveryDetails)
		if !ok {
			return nil, fmt.Errorf("%w: medicine delivery without medicine details", domain.ErrValidation)
		}
		room := details.Room
		if room == "" {
			room = cmd.Target
		}
		return []step{
			e.move(fmt.Sprintf("collect %s at %s", details.Medicine, e.config.PharmacyLocation), e.config.PharmacyLocation),
			e.move(fmt.Sprintf("deliver %s to %s in %s", details.Medicine, details.Patient, room), domain.Location(room)),
		}, nil

	case domain.IntentRobotControl:
		return e.control(cmd.Action)

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownIntent, cmd.Intent)
	}
}

func (e *ExecutionEngine) control(action string) ([]step, error) {
	switch action {
	case domain.ActionStop:
		return []step{{name: "stop", run: func(context.Context) error {
			e.state.Stop()
			return nil
		}}}, nil
	case domain.ActionResume:
		return []step{{name: "resume", run: func(context.Context) error {
			e.state.Resume()
			return nil
		}}}, nil
	case domain.ActionReturnHome:
		return []step{e.move("return home to "+e.config.HomeLocation.String(), e.config.HomeLocation)}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported robot control action %q", domain.ErrValidation, action)
	}
}

func (e *ExecutionEngine) move(name string, destination domain.Location) step {
	return step{
		name: name,
		run: func(ctx context.Context) error {
			return e.locomotion.MoveTo(ctx, destination)
		},
	}
}
