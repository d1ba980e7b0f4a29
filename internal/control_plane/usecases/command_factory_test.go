package usecases_test

import (
	"errors"
	"nami-server/internal/control_plane/usecases"
	"nami-server/internal/shared_kernel/domain"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CommandFactory", func() {
	var (
		now     time.Time
		factory *usecases.CommandFactory
	)

	BeforeEach(func() {
		now = time.Date(2025, 10, 11, 9, 0, 0, 0, time.UTC)
		factory = usecases.NewCommandFactory(usecases.FactoryConfig{}, func() time.Time { return now })
	})

	Context("navigation", func() {
		It("should create a pending command with the default action", func() {
			cmd, err := factory.Create(usecases.CommandRequest{Intent: "navigation", Target: "Room 405"})

			Expect(err).NotTo(HaveOccurred())
			Expect(cmd.Intent).To(Equal(domain.IntentNavigation))
			Expect(cmd.Action).To(Equal(domain.ActionNavigate))
			Expect(cmd.Target).To(Equal("Room 405"))
			Expect(cmd.Status).To(Equal(domain.CommandStatusPending))
			Expect(cmd.RequiresConfirmation).To(BeFalse())
			Expect(cmd.DispatchAfter).To(Equal(now))
			Expect(cmd.CreatedAt).To(Equal(now))
		})

		It("should normalize a bare room number", func() {
			cmd, err := factory.Create(usecases.CommandRequest{Intent: "Navigation", Target: "302"})

			Expect(err).NotTo(HaveOccurred())
			Expect(cmd.Target).To(Equal("Room 302"))
		})

		It("should keep coordinates", func() {
			cmd, err := factory.Create(usecases.CommandRequest{
				Intent:      "navigation",
				Target:      "Nurse station",
				Coordinates: &domain.Coordinates{X: 3, Y: 4},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(*cmd.Coordinates).To(Equal(domain.Coordinates{X: 3, Y: 4}))
		})

		It("should reject a missing target", func() {
			_, err := factory.Create(usecases.CommandRequest{Intent: "navigation"})
			Expect(errors.Is(err, domain.ErrValidation)).To(BeTrue())
		})
	})

	Context("delivery", func() {
		It("should take the target from the drop-off location", func() {
			cmd, err := factory.Create(usecases.CommandRequest{
				Intent:  "delivery",
				Details: usecases.RequestDetails{Item: "lab samples", From: "Lab", To: "201"},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(cmd.Target).To(Equal("Room 201"))
			Expect(cmd.Action).To(Equal(domain.ActionDeliver))
			Expect(cmd.Details).To(Equal(domain.DeliveryDetails{Item: "lab samples", From: "Lab", To: "Room 201"}))
		})

		It("should reject a delivery without pickup location", func() {
			_, err := factory.Create(usecases.CommandRequest{
				Intent:  "delivery",
				Target:  "Room 201",
				Details: usecases.RequestDetails{Item: "files"},
			})
			Expect(errors.Is(err, domain.ErrValidation)).To(BeTrue())
		})
	})

	Context("medicine delivery", func() {
		It("should target the patient's room", func() {
			cmd, err := factory.Create(usecases.CommandRequest{
				Intent:  "medicine_delivery",
				Details: usecases.RequestDetails{Medicine: "Metformin", Patient: "Jane Doe", Dosage: "500mg", Room: "302"},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(cmd.Target).To(Equal("Room 302"))
			Expect(cmd.Details).To(Equal(domain.MedicineDeliveryDetails{
				Medicine: "Metformin", Patient: "Jane Doe", Dosage: "500mg", Room: "Room 302",
			}))
		})

		It("should reject a missing patient", func() {
			_, err := factory.Create(usecases.CommandRequest{
				Intent:  "medicine_delivery",
				Target:  "Room 302",
				Details: usecases.RequestDetails{Medicine: "Metformin"},
			})
			Expect(errors.Is(err, domain.ErrValidation)).To(BeTrue())
		})
	})

	Context("robot control", func() {
		It("should accept a known control action", func() {
			cmd, err := factory.Create(usecases.CommandRequest{Intent: "robot_control", Action: "STOP"})

			Expect(err).NotTo(HaveOccurred())
			Expect(cmd.Action).To(Equal(domain.ActionStop))
			Expect(cmd.Target).To(Equal("robot"))
		})

		It("should reject an unknown control action", func() {
			_, err := factory.Create(usecases.CommandRequest{Intent: "robot_control", Action: "dance"})
			Expect(errors.Is(err, domain.ErrValidation)).To(BeTrue())
		})
	})

	Context("intent", func() {
		It("should reject an empty intent", func() {
			_, err := factory.Create(usecases.CommandRequest{Target: "Room 1"})
			Expect(errors.Is(err, domain.ErrValidation)).To(BeTrue())
		})

		It("should reject an unknown intent", func() {
			_, err := factory.Create(usecases.CommandRequest{Intent: "teleport", Target: "Moon"})
			Expect(errors.Is(err, domain.ErrValidation)).To(BeTrue())
			Expect(errors.Is(err, domain.ErrUnknownIntent)).To(BeTrue())
		})
	})

	Context("confirmation", func() {
		It("should require confirmation for configured intents", func() {
			factory = usecases.NewCommandFactory(usecases.FactoryConfig{
				ConfirmationRequired: []domain.Intent{domain.IntentMedicineDelivery},
			}, func() time.Time { return now })

			medicine, err := factory.Create(usecases.CommandRequest{
				Intent:  "medicine_delivery",
				Details: usecases.RequestDetails{Medicine: "Insulin", Patient: "John", Room: "110"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(medicine.RequiresConfirmation).To(BeTrue())

			navigation, err := factory.Create(usecases.CommandRequest{Intent: "navigation", Target: "Lobby"})
			Expect(err).NotTo(HaveOccurred())
			Expect(navigation.RequiresConfirmation).To(BeFalse())
		})
	})

	Context("scheduling", func() {
		DescribeTable("should resolve date and time",
			func(date, clock string, expected time.Time) {
				cmd, err := factory.Create(usecases.CommandRequest{
					Intent: "navigation",
					Target: "Room 405",
					Date:   date,
					Time:   clock,
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(cmd.DispatchAfter).To(Equal(expected))
			},
			Entry("today at 11am", "today", "11am", time.Date(2025, 10, 11, 11, 0, 0, 0, time.UTC)),
			Entry("time only", "", "11:30am", time.Date(2025, 10, 11, 11, 30, 0, 0, time.UTC)),
			Entry("tomorrow 24h clock", "tomorrow", "14:00", time.Date(2025, 10, 12, 14, 0, 0, 0, time.UTC)),
			Entry("explicit date", "2025-10-20", "3 pm", time.Date(2025, 10, 20, 15, 0, 0, 0, time.UTC)),
			Entry("date only", "tomorrow", "", time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC)),
		)

		It("should resolve times in the configured location", func() {
			location := time.FixedZone("UTC+2", 2*60*60)
			factory = usecases.NewCommandFactory(usecases.FactoryConfig{Location: location}, func() time.Time { return now })

			cmd, err := factory.Create(usecases.CommandRequest{Intent: "navigation", Target: "Lobby", Time: "11am"})
			Expect(err).NotTo(HaveOccurred())
			Expect(cmd.DispatchAfter).To(Equal(time.Date(2025, 10, 11, 9, 0, 0, 0, time.UTC)))
		})

		It("should reject an unrecognized time", func() {
			_, err := factory.Create(usecases.CommandRequest{Intent: "navigation", Target: "Lobby", Time: "noonish"})
			Expect(errors.Is(err, domain.ErrValidation)).To(BeTrue())
		})

		It("should reject an unrecognized date", func() {
			_, err := factory.Create(usecases.CommandRequest{Intent: "navigation", Target: "Lobby", Date: "next week"})
			Expect(errors.Is(err, domain.ErrValidation)).To(BeTrue())
		})
	})
})
