package usecases

import (
	"context"
	"nami-server/internal/shared_kernel/domain"
)

//go:generate mockgen -source=api.go -destination=../../../test/unit/doubles/robot_agent/usecases/api_mock.go -package=usecases -mock_names=DispatchClient=MockDispatchClient,Locomotion=MockLocomotion,Executor=MockExecutor

// DispatchClient is the robot side of the dispatch protocol. Transport
// problems are reported as domain.ErrConnectivity.
type DispatchClient interface {
	// ClaimNext returns false when nothing is claimable.
	ClaimNext(ctx context.Context, robotID domain.ID, intents []domain.Intent) (domain.Command, bool, error)
	ReportOutcome(ctx context.Context, report OutcomeReport) error
	ReportStatus(ctx context.Context, state domain.RobotState) error
}

// Locomotion moves the robot. Implementations block for the travel time and
// honor ctx cancellation.
type Locomotion interface {
	MoveTo(ctx context.Context, destination domain.Location) error
}

type Executor interface {
	Execute(ctx context.Context, cmd domain.Command) error
}

type OutcomeReport struct {
	CommandID    domain.ID
	RobotID      domain.ID
	RetryCount   int
	Success      bool
	ErrorMessage string
}

// NewOutcomeReport turns the result of Execute into the report sent back to
// the dispatch queue.
func NewOutcomeReport(robotID domain.ID, cmd domain.Command, err error) OutcomeReport {
	report := OutcomeReport{
		CommandID:  cmd.ID,
		RobotID:    robotID,
		RetryCount: cmd.RetryCount,
		Success:    err == nil,
	}
	if err != nil {
		report.ErrorMessage = err.Error()
	}
	return report
}
