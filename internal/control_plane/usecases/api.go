package usecases

import (
	"context"
	"nami-server/internal/shared_kernel/domain"
	"time"
)

//go:generate mockgen -source=./api.go -destination=../../../test/unit/doubles/control_plane/usecases/api_mock.go -package=usecases

// Clock returns the current time. Services take it as a dependency so tests
// can pin the time.
type Clock func() time.Time

func SystemClock() Clock {
	return func() time.Time { return time.Now().UTC() }
}

type DispatchService interface {
	Enqueue(context.Context, CommandRequest) (domain.Command, error)
	Get(context.Context, domain.ID) (domain.Command, error)
	List(context.Context, CommandFilter) ([]domain.Command, error)
	// Peek returns the next claimable command without claiming it, or
	// domain.ErrCommandNotFound.
	Peek(context.Context) (domain.Command, error)
	// ClaimNext atomically takes the oldest claimable command. The boolean is
	// false when there is nothing to claim.
	ClaimNext(ctx context.Context, robotID domain.ID, intents []domain.Intent) (domain.Command, bool, error)
	ClaimByID(ctx context.Context, id domain.ID, robotID domain.ID) (domain.Command, error)
	ReportOutcome(ctx context.Context, id domain.ID, outcome Outcome) (domain.Command, error)
	Confirm(context.Context, domain.ID) (domain.Command, error)
	// Cancel fails a command that no robot has claimed. An empty reason
	// records domain.CancelledByStaff.
	Cancel(ctx context.Context, id domain.ID, reason string) (domain.Command, error)
	ExpireStalled(context.Context) (SweepResult, error)
	QueueDepth(context.Context) (int64, error)
}

type RobotStatusService interface {
	Report(context.Context, domain.RobotState) error
	Status(context.Context, domain.ID) (RobotStatusView, error)
}

// CommandEventNotifier forwards a stored transition to an outside system.
type CommandEventNotifier interface {
	Notify(context.Context, domain.CommandEvent) error
}

type Outcome struct {
	RobotID      domain.ID
	Success      bool
	ErrorMessage string
	// RetryCount echoes the attempt the robot executed; nil skips the check.
	RetryCount *int
}

type SweepResult struct {
	Requeued int
	Failed   int
}

type RobotStatusView struct {
	RobotID          domain.ID
	Status           domain.RobotStatus
	Location         domain.Location
	Battery          int
	CurrentTask      string
	CurrentCommandID domain.ID
	Live             bool
	UpdatedAt        time.Time
}
