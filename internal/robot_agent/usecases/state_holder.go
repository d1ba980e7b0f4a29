package usecases

import (
	"nami-server/internal/shared_kernel/domain"
	"sync"
	"time"
)

// StateHolder owns the robot state record. The poller and the execution
// engine share it instead of keeping their own counters.
type StateHolder struct {
	mu    sync.RWMutex
	state domain.RobotState
	clock func() time.Time
}

func NewStateHolder(initial domain.RobotState, clock func() time.Time) *StateHolder {
	return &StateHolder{state: initial, clock: clock}
}

func (h *StateHolder) Snapshot() domain.RobotState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

func (h *StateHolder) update(fn func(*domain.RobotState)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(&h.state)
	h.state.UpdatedAt = h.clock()
}

// StartTask marks the robot busy unless it was stopped.
func (h *StateHolder) StartTask(task string) {
	h.update(func(s *domain.RobotState) {
		if !s.IsStopped() {
			s.Status = domain.RobotStatusBusy
		}
		s.CurrentTask = task
	})
}

// FinishTask returns a busy robot to idle. A stopped robot stays stopped.
func (h *StateHolder) FinishTask() {
	h.update(func(s *domain.RobotState) {
		if s.IsBusy() {
			s.Status = domain.RobotStatusIdle
		}
		s.CurrentTask = ""
	})
}

func (h *StateHolder) Stop() {
	h.update(func(s *domain.RobotState) {
		s.Status = domain.RobotStatusStopped
	})
}

func (h *StateHolder) Resume() {
	h.update(func(s *domain.RobotState) {
		if s.IsStopped() {
			s.Status = domain.RobotStatusIdle
		}
	})
}

// Arrive records a completed move and drains the battery by drain points.
func (h *StateHolder) Arrive(location domain.Location, drain int) {
	h.update(func(s *domain.RobotState) {
		s.Location = location
		s.Drain(drain)
	})
}
