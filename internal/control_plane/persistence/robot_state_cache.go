package persistence

import (
	"context"
	"log/slog"
	"nami-server/internal/control_plane/usecases"
	"nami-server/internal/infra/cache"
	"nami-server/internal/shared_kernel/domain"
	"time"
)

const _robotStateKeyPrefix = "robot_state:"

// RistrettoRobotStateCache keeps the last heartbeat of every robot. Entries
// expire after the TTL so a silent robot stops being reported as live.
type RistrettoRobotStateCache struct {
	cache cache.Cache[domain.RobotState]
	ttl   time.Duration
}

var _ usecases.RobotStateCache = (*RistrettoRobotStateCache)(nil)

func NewRistrettoRobotStateCache(c cache.Cache[domain.RobotState], ttl time.Duration) *RistrettoRobotStateCache {
	return &RistrettoRobotStateCache{cache: c, ttl: ttl}
}

func (c *RistrettoRobotStateCache) Set(ctx context.Context, state domain.RobotState) error {
	if !c.cache.Set(ctx, _robotStateKeyPrefix+state.RobotID.String(), state, c.ttl) {
		slog.Warn("robot state not cached", slog.String("robot_id", state.RobotID.String()))
	}
	return nil
}

func (c *RistrettoRobotStateCache) Get(ctx context.Context, robotID domain.ID) (domain.RobotState, bool) {
	return c.cache.Get(ctx, _robotStateKeyPrefix+robotID.String())
}
