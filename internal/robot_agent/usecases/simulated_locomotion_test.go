package usecases_test

import (
	"context"
	"nami-server/internal/robot_agent/usecases"
	"nami-server/internal/shared_kernel/domain"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SimulatedLocomotion", func() {
	var (
		state      *usecases.StateHolder
		locomotion *usecases.SimulatedLocomotion
	)

	BeforeEach(func() {
		state = usecases.NewStateHolder(domain.NewRobotState("nami-01", "Nurse Station"), time.Now)
		locomotion = usecases.NewSimulatedLocomotion(usecases.SimulatedLocomotionConfig{
			TravelTime:   10 * time.Millisecond,
			DrainPerMove: 5,
			Unreachable:  []string{"Records"},
		}, state)
	})

	It("should arrive and drain the battery", func() {
		Expect(locomotion.MoveTo(context.Background(), "Room 405")).To(Succeed())

		snapshot := state.Snapshot()
		Expect(snapshot.Location).To(Equal(domain.Location("Room 405")))
		Expect(snapshot.Battery).To(Equal(domain.BatteryFull - 5))
	})

	It("should fail unreachable destinations without moving", func() {
		err := locomotion.MoveTo(context.Background(), " records ")
		Expect(err).To(MatchError(ContainSubstring("obstructed")))
		Expect(state.Snapshot().Location).To(Equal(domain.Location("Nurse Station")))
	})

	It("should give up when cancelled", func() {
		slow := usecases.NewSimulatedLocomotion(usecases.SimulatedLocomotionConfig{TravelTime: time.Hour}, state)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := slow.MoveTo(ctx, "Room 405")
		Expect(err).To(MatchError(context.Canceled))
	})
})
