package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"nami-server/internal/shared_kernel/domain"
	"strings"
	"time"
)

const DefaultDrainPerMove = 2

type SimulatedLocomotionConfig struct {
	TravelTime   time.Duration
	DrainPerMove int
	// Unreachable destinations fail the move, matched case-insensitively.
	Unreachable []string
}

// NewSimulatedLocomotion models a move as a bounded wait. It never plans a
// path.
func NewSimulatedLocomotion(config SimulatedLocomotionConfig, state *StateHolder) *SimulatedLocomotion {
	unreachable := make(map[string]struct{}, len(config.Unreachable))
	for _, location := range config.Unreachable {
		unreachable[normalizeLocation(location)] = struct{}{}
	}

	return &SimulatedLocomotion{
		travelTime:   config.TravelTime,
		drainPerMove: config.DrainPerMove,
		unreachable:  unreachable,
		state:        state,
	}
}

var _ Locomotion = (*SimulatedLocomotion)(nil)

type SimulatedLocomotion struct {
	travelTime   time.Duration
	drainPerMove int
	unreachable  map[string]struct{}
	state        *StateHolder
}

func (l *SimulatedLocomotion) MoveTo(ctx context.Context, destination domain.Location) error {
	if _, blocked := l.unreachable[normalizeLocation(destination.String())]; blocked {
		return fmt.Errorf("%s is unreachable, path obstructed", destination)
	}

	slog.Debug("moving", slog.String("destination", destination.String()), slog.Duration("travel_time", l.travelTime))

	timer := time.NewTimer(l.travelTime)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("moving to %s: %w", destination, ctx.Err())
	case <-timer.C:
	}

	l.state.Arrive(destination, l.drainPerMove)
	return nil
}

func normalizeLocation(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
