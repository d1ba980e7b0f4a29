package domain_test

import (
	"errors"
	"nami-server/internal/shared_kernel/domain"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Command", func() {
	var now time.Time

	ginkgo.BeforeEach(func() {
		now = time.Date(2025, 10, 11, 9, 0, 0, 0, time.UTC)
	})

	newNavigation := func() domain.Command {
		cmd, err := domain.NewCommandBuilder().
			WithIntent(domain.IntentNavigation).
			WithAction(domain.ActionNavigate).
			WithTarget("Room 405").
			WithCreatedAt(now).
			Build()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		return cmd
	}

	ginkgo.Context("Build", func() {
		ginkgo.It("should create a pending command with defaults", func() {
			cmd := newNavigation()

			gomega.Expect(cmd.ID).NotTo(gomega.BeEmpty())
			gomega.Expect(cmd.Version).To(gomega.Equal(domain.Version(1)))
			gomega.Expect(cmd.Status).To(gomega.Equal(domain.CommandStatusPending))
			gomega.Expect(cmd.DispatchAfter).To(gomega.Equal(now))
			gomega.Expect(cmd.Details).To(gomega.Equal(domain.NavigationDetails{}))
			gomega.Expect(cmd.CompletedAt).To(gomega.BeNil())
			gomega.Expect(cmd.ErrorMessage).To(gomega.BeNil())
		})

		ginkgo.It("should reject an unknown intent", func() {
			_, err := domain.NewCommandBuilder().
				WithIntent(domain.Intent("teleport")).
				WithTarget("Moon").
				Build()

			gomega.Expect(errors.Is(err, domain.ErrValidation)).To(gomega.BeTrue())
			gomega.Expect(errors.Is(err, domain.ErrUnknownIntent)).To(gomega.BeTrue())
		})

		ginkgo.It("should reject a missing target", func() {
			_, err := domain.NewCommandBuilder().
				WithIntent(domain.IntentNavigation).
				Build()

			gomega.Expect(errors.Is(err, domain.ErrValidation)).To(gomega.BeTrue())
		})

		ginkgo.It("should reject medicine details without a patient", func() {
			_, err := domain.NewCommandBuilder().
				WithIntent(domain.IntentMedicineDelivery).
				WithTarget("Room 302").
				WithDetails(domain.MedicineDeliveryDetails{Medicine: "Metformin"}).
				Build()

			gomega.Expect(errors.Is(err, domain.ErrValidation)).To(gomega.BeTrue())
		})

		ginkgo.It("should reject details belonging to another intent", func() {
			_, err := domain.NewCommandBuilder().
				WithIntent(domain.IntentNavigation).
				WithTarget("Room 201").
				WithDetails(domain.DeliveryDetails{Item: "files", From: "Records", To: "Room 201"}).
				Build()

			gomega.Expect(errors.Is(err, domain.ErrValidation)).To(gomega.BeTrue())
		})
	})

	ginkgo.Context("IsActionable", func() {
		ginkgo.It("should not be actionable before dispatch_after", func() {
			cmd := newNavigation()
			cmd.DispatchAfter = now.Add(time.Hour)

			gomega.Expect(cmd.IsActionable(now)).To(gomega.BeFalse())
			gomega.Expect(cmd.IsActionable(now.Add(time.Hour))).To(gomega.BeTrue())
		})

		ginkgo.It("should wait for confirmation when required", func() {
			cmd := newNavigation()
			cmd.RequiresConfirmation = true
			gomega.Expect(cmd.IsActionable(now)).To(gomega.BeFalse())

			_, err := cmd.Confirm(now)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(cmd.IsActionable(now)).To(gomega.BeTrue())
		})
	})

	ginkgo.Context("transitions", func() {
		ginkgo.It("should run the happy path to completed", func() {
			cmd := newNavigation()

			claimed, err := cmd.Claim("robot-1", now)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(claimed.Type).To(gomega.Equal(domain.EventClaim))
			gomega.Expect(claimed.FromStatus).To(gomega.Equal(domain.CommandStatusPending))
			gomega.Expect(claimed.ToStatus).To(gomega.Equal(domain.CommandStatusExecuting))
			gomega.Expect(cmd.RobotID).To(gomega.Equal(domain.ID("robot-1")))
			gomega.Expect(cmd.Version).To(gomega.Equal(domain.Version(2)))

			completedAt := now.Add(3 * time.Second)
			_, err = cmd.Complete(completedAt)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(cmd.Status).To(gomega.Equal(domain.CommandStatusCompleted))
			gomega.Expect(*cmd.CompletedAt).To(gomega.Equal(completedAt))
			gomega.Expect(cmd.ErrorMessage).To(gomega.BeNil())
		})

		ginkgo.It("should store the failure reason", func() {
			cmd := newNavigation()
			_, _ = cmd.Claim("robot-1", now)

			event, err := cmd.Fail("path obstructed", now)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(cmd.Status).To(gomega.Equal(domain.CommandStatusFailed))
			gomega.Expect(*cmd.ErrorMessage).To(gomega.Equal("path obstructed"))
			gomega.Expect(event.ErrorMessage).To(gomega.Equal("path obstructed"))
		})

		ginkgo.It("should reject a second terminal report and keep the first outcome", func() {
			cmd := newNavigation()
			_, _ = cmd.Claim("robot-1", now)
			_, _ = cmd.Fail("path obstructed", now)
			snapshot := cmd

			_, err := cmd.Complete(now.Add(time.Minute))
			gomega.Expect(errors.Is(err, domain.ErrInvalidTransition)).To(gomega.BeTrue())
			gomega.Expect(cmd).To(gomega.Equal(snapshot))
		})

		ginkgo.It("should reject completing a command that was never claimed", func() {
			cmd := newNavigation()

			_, err := cmd.Complete(now)
			gomega.Expect(errors.Is(err, domain.ErrInvalidTransition)).To(gomega.BeTrue())
			gomega.Expect(cmd.Status).To(gomega.Equal(domain.CommandStatusPending))
		})

		ginkgo.It("should reject claiming an executing command", func() {
			cmd := newNavigation()
			_, _ = cmd.Claim("robot-1", now)

			_, err := cmd.Claim("robot-2", now)
			gomega.Expect(errors.Is(err, domain.ErrInvalidTransition)).To(gomega.BeTrue())
			gomega.Expect(cmd.RobotID).To(gomega.Equal(domain.ID("robot-1")))
		})

		ginkgo.It("should requeue a stalled command and count the retry", func() {
			cmd := newNavigation()
			_, _ = cmd.Claim("robot-1", now)

			_, err := cmd.Requeue(now)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(cmd.Status).To(gomega.Equal(domain.CommandStatusPending))
			gomega.Expect(cmd.RetryCount).To(gomega.Equal(1))
			gomega.Expect(cmd.RobotID).To(gomega.BeEmpty())
			gomega.Expect(cmd.ClaimedAt).To(gomega.BeNil())
			gomega.Expect(cmd.CompletedAt).To(gomega.BeNil())
		})

		ginkgo.It("should requeue a confirmed command back to confirmed", func() {
			cmd := newNavigation()
			cmd.RequiresConfirmation = true
			_, _ = cmd.Confirm(now)
			_, _ = cmd.Claim("robot-1", now)

			_, err := cmd.Requeue(now)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(cmd.Status).To(gomega.Equal(domain.CommandStatusConfirmed))
			gomega.Expect(cmd.IsActionable(now)).To(gomega.BeTrue())
		})

		ginkgo.It("should expire with a timeout message", func() {
			cmd := newNavigation()
			_, _ = cmd.Claim("robot-1", now)

			_, err := cmd.Expire("", now)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(cmd.Status).To(gomega.Equal(domain.CommandStatusFailed))
			gomega.Expect(*cmd.ErrorMessage).To(gomega.ContainSubstring("claim timeout"))
		})

		ginkgo.It("should cancel a command awaiting confirmation", func() {
			cmd := newNavigation()
			cmd.RequiresConfirmation = true

			event, err := cmd.Cancel("", now.Add(time.Minute))
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(cmd.Status).To(gomega.Equal(domain.CommandStatusFailed))
			gomega.Expect(*cmd.ErrorMessage).To(gomega.Equal(domain.CancelledByStaff))
			gomega.Expect(*cmd.CompletedAt).To(gomega.Equal(now.Add(time.Minute)))
			gomega.Expect(event.Type).To(gomega.Equal(domain.EventCancel))
			gomega.Expect(cmd.IsActionable(now.Add(time.Hour))).To(gomega.BeFalse())
		})

		ginkgo.It("should cancel a confirmed command with the given reason", func() {
			cmd := newNavigation()
			cmd.RequiresConfirmation = true
			_, _ = cmd.Confirm(now)

			_, err := cmd.Cancel("  patient discharged ", now)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(*cmd.ErrorMessage).To(gomega.Equal("patient discharged"))
		})

		ginkgo.It("should reject cancelling a command a robot already claimed", func() {
			cmd := newNavigation()
			_, _ = cmd.Claim("robot-1", now)
			snapshot := cmd

			_, err := cmd.Cancel("", now)
			gomega.Expect(errors.Is(err, domain.ErrInvalidTransition)).To(gomega.BeTrue())
			gomega.Expect(cmd).To(gomega.Equal(snapshot))
		})

		ginkgo.It("should keep completed_at in step with terminal status", func() {
			cmd := newNavigation()
			gomega.Expect(cmd.CompletedAt == nil).To(gomega.Equal(!cmd.Status.IsTerminal()))

			_, _ = cmd.Claim("robot-1", now)
			gomega.Expect(cmd.CompletedAt == nil).To(gomega.Equal(!cmd.Status.IsTerminal()))

			_, _ = cmd.Requeue(now)
			gomega.Expect(cmd.CompletedAt == nil).To(gomega.Equal(!cmd.Status.IsTerminal()))

			_, _ = cmd.Claim("robot-1", now)
			_, _ = cmd.Complete(now)
			gomega.Expect(cmd.CompletedAt == nil).To(gomega.Equal(!cmd.Status.IsTerminal()))
		})
	})
})
