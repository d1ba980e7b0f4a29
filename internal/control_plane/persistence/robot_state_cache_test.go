package persistence_test

import (
	"context"
	"nami-server/internal/control_plane/persistence"
	"nami-server/internal/infra/cache"
	"nami-server/internal/shared_kernel/domain"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RistrettoRobotStateCache", func() {
	var (
		store *cache.Ristretto[domain.RobotState]
		ctx   context.Context
	)

	BeforeEach(func() {
		var err error
		store, err = cache.New[domain.RobotState](cache.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	AfterEach(func() {
		store.Close()
	})

	It("should return the last heartbeat of a robot", func() {
		states := persistence.NewRistrettoRobotStateCache(store, time.Minute)
		state := domain.NewRobotState("robot-1", "Lobby")
		state.Status = domain.RobotStatusBusy
		state.CurrentTask = "navigate to Room 405"

		Expect(states.Set(ctx, state)).To(Succeed())

		found, ok := states.Get(ctx, "robot-1")
		Expect(ok).To(BeTrue())
		Expect(found).To(Equal(state))
	})

	It("should forget a robot after the TTL", func() {
		states := persistence.NewRistrettoRobotStateCache(store, 50*time.Millisecond)
		Expect(states.Set(ctx, domain.NewRobotState("robot-1", "Lobby"))).To(Succeed())

		Eventually(func() bool {
			_, ok := states.Get(ctx, "robot-1")
			return ok
		}, time.Second, 20*time.Millisecond).Should(BeFalse())
	})

	It("should not know robots that never reported", func() {
		states := persistence.NewRistrettoRobotStateCache(store, time.Minute)

		_, ok := states.Get(ctx, "robot-2")
		Expect(ok).To(BeFalse())
	})
})
