package usecases_test

import (
	"context"
	"errors"
	"nami-server/internal/control_plane/usecases"
	"nami-server/internal/shared_kernel/domain"
	mockusecases "nami-server/test/unit/doubles/control_plane/usecases"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("RobotStatusService", func() {
	var (
		ctx        context.Context
		ctrl       *gomock.Controller
		repository *mockusecases.MockCommandRepository
		states     *mockusecases.MockRobotStateCache
		now        time.Time
		service    *usecases.SimpleRobotStatusService
	)

	BeforeEach(func() {
		ctx = context.Background()
		ctrl = gomock.NewController(GinkgoT())
		repository = mockusecases.NewMockCommandRepository(ctrl)
		states = mockusecases.NewMockRobotStateCache(ctrl)
		now = time.Date(2025, 10, 11, 9, 0, 0, 0, time.UTC)
		service = usecases.NewRobotStatusService(repository, states, usecases.RobotStatusConfig{
			DefaultLocation: "Nurse Station",
			DefaultBattery:  100,
		}, func() time.Time { return now })
	})

	Context("Report", func() {
		It("should stamp and store a valid heartbeat", func() {
			states.EXPECT().Set(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, state domain.RobotState) error {
					Expect(state.RobotID).To(Equal(domain.ID("nami-01")))
					Expect(state.UpdatedAt).To(Equal(now))
					return nil
				},
			)

			err := service.Report(ctx, domain.RobotState{RobotID: "nami-01", Status: domain.RobotStatusIdle, Battery: 80})
			Expect(err).NotTo(HaveOccurred())
		})

		DescribeTable("should reject invalid heartbeats",
			func(state domain.RobotState) {
				err := service.Report(ctx, state)
				Expect(errors.Is(err, domain.ErrValidation)).To(BeTrue())
			},
			Entry("missing robot id", domain.RobotState{Status: domain.RobotStatusIdle, Battery: 50}),
			Entry("unknown status", domain.RobotState{RobotID: "nami-01", Status: "dancing", Battery: 50}),
			Entry("battery above full", domain.RobotState{RobotID: "nami-01", Status: domain.RobotStatusIdle, Battery: 101}),
			Entry("negative battery", domain.RobotState{RobotID: "nami-01", Status: domain.RobotStatusIdle, Battery: -1}),
		)
	})

	Context("Status", func() {
		It("should prefer a live heartbeat", func() {
			executing := domain.Command{ID: "cmd-1", RobotID: "nami-01", Status: domain.CommandStatusExecuting}
			repository.EXPECT().FindExecuting(gomock.Any()).Return(executing, nil)
			states.EXPECT().Get(gomock.Any(), domain.ID("nami-01")).Return(domain.RobotState{
				RobotID:     "nami-01",
				Status:      domain.RobotStatusBusy,
				Location:    "Room 405",
				Battery:     64,
				CurrentTask: "navigate to Room 405",
				UpdatedAt:   now,
			}, true)

			view, err := service.Status(ctx, "nami-01")
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Live).To(BeTrue())
			Expect(view.Location).To(Equal(domain.Location("Room 405")))
			Expect(view.Battery).To(Equal(64))
			Expect(view.CurrentCommandID).To(Equal(domain.ID("cmd-1")))
		})

		It("should derive busy from the executing command without a heartbeat", func() {
			claimedAt := now.Add(-time.Minute)
			executing := domain.Command{
				ID:        "cmd-1",
				Action:    domain.ActionNavigate,
				Target:    "Room 405",
				RobotID:   "nami-01",
				Status:    domain.CommandStatusExecuting,
				Details:   domain.NavigationDetails{},
				ClaimedAt: &claimedAt,
			}
			repository.EXPECT().FindExecuting(gomock.Any()).Return(executing, nil)
			states.EXPECT().Get(gomock.Any(), domain.ID("nami-01")).Return(domain.RobotState{}, false)

			view, err := service.Status(ctx, "nami-01")
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Live).To(BeFalse())
			Expect(view.Status).To(Equal(domain.RobotStatusBusy))
			Expect(view.CurrentTask).To(Equal("navigate to Room 405"))
			Expect(view.UpdatedAt).To(Equal(claimedAt))
		})

		It("should report idle at the default location when nothing runs", func() {
			repository.EXPECT().FindExecuting(gomock.Any()).Return(domain.Command{}, domain.ErrCommandNotFound)
			states.EXPECT().Get(gomock.Any(), domain.ID("nami-01")).Return(domain.RobotState{}, false)

			view, err := service.Status(ctx, "nami-01")
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Status).To(Equal(domain.RobotStatusIdle))
			Expect(view.Location).To(Equal(domain.Location("Nurse Station")))
			Expect(view.Battery).To(Equal(100))
		})

		It("should surface repository failures", func() {
			repository.EXPECT().FindExecuting(gomock.Any()).Return(domain.Command{}, errors.New("connection reset"))

			_, err := service.Status(ctx, "nami-01")
			Expect(err).To(MatchError(ContainSubstring("connection reset")))
		})
	})

	DescribeTable("DescribeTask",
		func(cmd domain.Command, expected string) {
			Expect(usecases.DescribeTask(cmd)).To(Equal(expected))
		},
		Entry("delivery",
			domain.Command{Details: domain.DeliveryDetails{Item: "linens", From: "Laundry", To: "Room 210"}},
			"deliver linens from Laundry to Room 210"),
		Entry("medicine",
			domain.Command{Details: domain.MedicineDeliveryDetails{Medicine: "Metformin", Patient: "Anna", Room: "Room 302"}},
			"deliver Metformin to Anna in Room 302"),
		Entry("robot control",
			domain.Command{Action: domain.ActionStop, Details: domain.RobotControlDetails{}},
			"stop"),
	)
})
