package usecases_test

import (
	"context"
	"errors"
	"nami-server/internal/control_plane/usecases"
	mockusecases "nami-server/test/unit/doubles/control_plane/usecases"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("ClaimTimeoutWorker", func() {
	var (
		ctrl    *gomock.Controller
		service *mockusecases.MockDispatchService
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		service = mockusecases.NewMockDispatchService(ctrl)
	})

	It("should reject an invalid schedule", func() {
		_, err := usecases.NewClaimTimeoutWorker("every now and then", service)
		Expect(err).To(HaveOccurred())
	})

	It("should sweep on schedule until cancelled", func() {
		var sweeps atomic.Int32
		service.EXPECT().ExpireStalled(gomock.Any()).DoAndReturn(
			func(context.Context) (usecases.SweepResult, error) {
				if sweeps.Add(1) == 1 {
					return usecases.SweepResult{}, errors.New("database is locked")
				}
				return usecases.SweepResult{Requeued: 1}, nil
			},
		).MinTimes(2)

		worker, err := usecases.NewClaimTimeoutWorker("@every 1s", service)
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		finished := make(chan struct{})
		go worker.Run(ctx, func() { close(finished) })

		Eventually(sweeps.Load, 5*time.Second, 100*time.Millisecond).Should(BeNumerically(">=", 2))

		cancel()
		Eventually(finished, 3*time.Second).Should(BeClosed())
	})
})
