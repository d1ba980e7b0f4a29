package usecases_test

import (
	"context"
	"errors"
	"nami-server/internal/robot_agent/usecases"
	"nami-server/internal/shared_kernel/domain"
	mockusecases "nami-server/test/unit/doubles/robot_agent/usecases"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("ExecutionEngine", func() {
	var (
		ctx        context.Context
		locomotion *mockusecases.MockLocomotion
		state      *usecases.StateHolder
		engine     *usecases.ExecutionEngine
	)

	BeforeEach(func() {
		ctx = context.Background()
		locomotion = mockusecases.NewMockLocomotion(gomock.NewController(GinkgoT()))
		state = usecases.NewStateHolder(domain.NewRobotState("nami-01", "Nurse Station"), time.Now)
		engine = usecases.NewExecutionEngine(usecases.ExecutionConfig{
			PharmacyLocation: "Pharmacy",
			HomeLocation:     "Nurse Station",
		}, locomotion, state)
	})

	It("should navigate in a single step", func() {
		locomotion.EXPECT().MoveTo(gomock.Any(), domain.Location("Room 405")).Return(nil)

		err := engine.Execute(ctx, domain.Command{
			ID:      "cmd-1",
			Intent:  domain.IntentNavigation,
			Target:  "Room 405",
			Details: domain.NavigationDetails{},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should stop a delivery when the pickup fails", func() {
		locomotion.EXPECT().
			MoveTo(gomock.Any(), domain.Location("Records")).
			Return(errors.New("Records is unreachable, path obstructed"))

		err := engine.Execute(ctx, domain.Command{
			ID:      "cmd-2",
			Intent:  domain.IntentDelivery,
			Target:  "Room 201",
			Details: domain.DeliveryDetails{Item: "files", From: "Records", To: "Room 201"},
		})
		Expect(errors.Is(err, domain.ErrActionFailure)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("pick up files at Records"))
	})

	It("should run a delivery as pickup then drop off", func() {
		gomock.InOrder(
			locomotion.EXPECT().MoveTo(gomock.Any(), domain.Location("Laundry")).Return(nil),
			locomotion.EXPECT().MoveTo(gomock.Any(), domain.Location("Room 210")).Return(nil),
		)

		err := engine.Execute(ctx, domain.Command{
			Intent:  domain.IntentDelivery,
			Details: domain.DeliveryDetails{Item: "linens", From: "Laundry", To: "Room 210"},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should go straight to the destination when no pickup point is given", func() {
		locomotion.EXPECT().MoveTo(gomock.Any(), domain.Location("Room 302")).Return(nil)

		err := engine.Execute(ctx, domain.Command{
			Intent:  domain.IntentDelivery,
			Target:  "Room 302",
			Details: domain.DeliveryDetails{To: "Room 302"},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should collect medicine at the pharmacy before visiting the patient", func() {
		gomock.InOrder(
			locomotion.EXPECT().MoveTo(gomock.Any(), domain.Location("Pharmacy")).Return(nil),
			locomotion.EXPECT().MoveTo(gomock.Any(), domain.Location("Room 302")).Return(nil),
		)

		err := engine.Execute(ctx, domain.Command{
			Intent:  domain.IntentMedicineDelivery,
			Target:  "Room 302",
			Details: domain.MedicineDeliveryDetails{Medicine: "Metformin", Patient: "John Doe", Room: "Room 302"},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should reject intents without a handler", func() {
		err := engine.Execute(ctx, domain.Command{Intent: "teleport", Target: "Moon"})
		Expect(errors.Is(err, domain.ErrUnknownIntent)).To(BeTrue())
		Expect(errors.Is(err, domain.ErrActionFailure)).To(BeFalse())
	})

	Context("robot control", func() {
		It("should stop and resume without moving", func() {
			err := engine.Execute(ctx, domain.Command{Intent: domain.IntentRobotControl, Action: domain.ActionStop, Details: domain.RobotControlDetails{}})
			Expect(err).NotTo(HaveOccurred())
			Expect(state.Snapshot().IsStopped()).To(BeTrue())

			err = engine.Execute(ctx, domain.Command{Intent: domain.IntentRobotControl, Action: domain.ActionResume, Details: domain.RobotControlDetails{}})
			Expect(err).NotTo(HaveOccurred())
			Expect(state.Snapshot().Status).To(Equal(domain.RobotStatusIdle))
		})

		It("should navigate home on return_home", func() {
			locomotion.EXPECT().MoveTo(gomock.Any(), domain.Location("Nurse Station")).Return(nil)

			err := engine.Execute(ctx, domain.Command{Intent: domain.IntentRobotControl, Action: domain.ActionReturnHome, Details: domain.RobotControlDetails{}})
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
