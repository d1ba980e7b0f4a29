package usecases_test

import (
	"nami-server/internal/robot_agent/usecases"
	"nami-server/internal/shared_kernel/domain"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StateHolder", func() {
	var (
		now    time.Time
		holder *usecases.StateHolder
	)

	BeforeEach(func() {
		now = time.Date(2025, 10, 11, 9, 0, 0, 0, time.UTC)
		holder = usecases.NewStateHolder(domain.NewRobotState("nami-01", "Nurse Station"), func() time.Time { return now })
	})

	It("should go busy and back to idle around a task", func() {
		holder.StartTask("navigate to Room 405")
		Expect(holder.Snapshot().Status).To(Equal(domain.RobotStatusBusy))
		Expect(holder.Snapshot().CurrentTask).To(Equal("navigate to Room 405"))
		Expect(holder.Snapshot().UpdatedAt).To(Equal(now))

		holder.FinishTask()
		Expect(holder.Snapshot().Status).To(Equal(domain.RobotStatusIdle))
		Expect(holder.Snapshot().CurrentTask).To(BeEmpty())
	})

	It("should stay stopped across tasks until resumed", func() {
		holder.StartTask("stop")
		holder.Stop()
		holder.FinishTask()
		Expect(holder.Snapshot().IsStopped()).To(BeTrue())

		holder.StartTask("resume")
		Expect(holder.Snapshot().IsStopped()).To(BeTrue())
		holder.Resume()
		holder.FinishTask()
		Expect(holder.Snapshot().Status).To(Equal(domain.RobotStatusIdle))
	})

	It("should never drain below zero", func() {
		holder.Arrive("Room 1", domain.BatteryFull+10)
		Expect(holder.Snapshot().Battery).To(Equal(0))
	})
})
