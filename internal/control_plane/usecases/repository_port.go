package usecases

import (
	"context"
	"errors"
	"nami-server/internal/shared_kernel/domain"
	"time"
)

//go:generate mockgen -source=repository_port.go -destination=../../../test/unit/doubles/control_plane/usecases/repository_port_mock.go -package=usecases -mock_names=CommandRepository=MockCommandRepository,RobotStateCache=MockRobotStateCache

var (
	// ErrVersionConflict means the command changed between read and write.
	ErrVersionConflict = errors.New("command version conflict")
	// ErrFleetBusy means another command already holds the dispatch lease.
	ErrFleetBusy = errors.New("fleet busy")
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

type CommandFilter struct {
	Status *domain.CommandStatus
	Intent *domain.Intent
	Limit  int
}

type CommandRepository interface {
	Create(context.Context, domain.Command) error
	GetByID(context.Context, domain.ID) (domain.Command, error)
	// FindAll returns the newest commands first.
	FindAll(context.Context, CommandFilter) ([]domain.Command, error)
	// FindNextActionable returns the oldest command claimable at the given
	// time, optionally restricted to some intents, or domain.ErrCommandNotFound.
	FindNextActionable(ctx context.Context, now time.Time, intents []domain.Intent) (domain.Command, error)
	CountActionable(ctx context.Context, now time.Time) (int64, error)
	ExistsWaiting(ctx context.Context, intent domain.Intent, target string, since time.Time) (bool, error)
	FindExecuting(context.Context) (domain.Command, error)
	FindStalled(ctx context.Context, claimedBefore time.Time) ([]domain.Command, error)

	// SaveClaim stores a command that was just claimed. It takes the dispatch
	// lease and swaps the command row only if it still has the expected
	// version; otherwise nothing is written.
	SaveClaim(ctx context.Context, cmd domain.Command, expected domain.Version) error
	// SaveTransition stores any other transition with the same version check
	// and releases the lease once the command leaves executing.
	SaveTransition(ctx context.Context, cmd domain.Command, expected domain.Version) error
}

type RobotStateCache interface {
	Set(context.Context, domain.RobotState) error
	Get(context.Context, domain.ID) (domain.RobotState, bool)
}
