package domain

import (
	"fmt"
	"time"
)

type RobotStatus string

const (
	RobotStatusIdle    RobotStatus = "idle"
	RobotStatusBusy    RobotStatus = "busy"
	RobotStatusStopped RobotStatus = "stopped"
)

func ParseRobotStatus(value string) (RobotStatus, error) {
	switch s := RobotStatus(value); s {
	case RobotStatusIdle, RobotStatusBusy, RobotStatusStopped:
		return s, nil
	default:
		return "", fmt.Errorf("%w: unknown robot status %q", ErrValidation, value)
	}
}

const (
	BatteryFull = 100
	BatteryLow  = 20
)

// RobotState is the per-robot record of what the robot is doing and where it is.
type RobotState struct {
	RobotID     ID
	Status      RobotStatus
	Location    Location
	Battery     int
	CurrentTask string
	UpdatedAt   time.Time
}

func (s RobotState) IsBusy() bool {
	return s.Status == RobotStatusBusy
}

func (s RobotState) IsStopped() bool {
	return s.Status == RobotStatusStopped
}

func (s RobotState) IsBatteryLow() bool {
	return s.Battery <= BatteryLow
}

// Drain lowers the battery level without going below zero.
func (s *RobotState) Drain(amount int) {
	s.Battery -= amount
	if s.Battery < 0 {
		s.Battery = 0
	}
}

func NewRobotState(robotID ID, location Location) RobotState {
	return RobotState{
		RobotID:  robotID,
		Status:   RobotStatusIdle,
		Location: location,
		Battery:  BatteryFull,
	}
}
