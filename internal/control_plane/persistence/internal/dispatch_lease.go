package internal

import "time"

// FleetLeaseID names the single lease row. Holding it is what makes a command
// the one executing command of the fleet.
const FleetLeaseID = "fleet"

type DispatchLease struct {
	ID        string     `gorm:"primaryKey"`
	CommandID string     `gorm:"not null;default:''"`
	RobotID   string     `gorm:"not null;default:''"`
	ClaimedAt *time.Time
	// LastSeq is the arrival number handed to the newest command.
	LastSeq uint64 `gorm:"not null;default:0"`
}

func (DispatchLease) TableName() string {
	return "dispatch_leases"
}
