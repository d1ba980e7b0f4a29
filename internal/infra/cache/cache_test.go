package cache_test

import (
	"context"
	"nami-server/internal/infra/cache"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type heartbeat struct {
	Status  string
	Battery int
}

var _ = ginkgo.Describe("Ristretto", func() {
	var (
		store *cache.Ristretto[heartbeat]
		ctx   context.Context
	)

	ginkgo.BeforeEach(func() {
		var err error
		store, err = cache.New[heartbeat](cache.DefaultConfig())
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		ctx = context.Background()
	})

	ginkgo.AfterEach(func() {
		store.Close()
	})

	ginkgo.It("should make a written value visible right away", func() {
		gomega.Expect(store.Set(ctx, "robot-1", heartbeat{Status: "idle", Battery: 90}, 0)).To(gomega.BeTrue())

		value, found := store.Get(ctx, "robot-1")
		gomega.Expect(found).To(gomega.BeTrue())
		gomega.Expect(value).To(gomega.Equal(heartbeat{Status: "idle", Battery: 90}))
	})

	ginkgo.It("should return the zero value for unknown keys", func() {
		value, found := store.Get(ctx, "robot-9")
		gomega.Expect(found).To(gomega.BeFalse())
		gomega.Expect(value).To(gomega.BeZero())
	})

	ginkgo.It("should expire a value after its TTL", func() {
		store.Set(ctx, "robot-1", heartbeat{Status: "busy"}, 50*time.Millisecond)

		gomega.Eventually(func() bool {
			_, found := store.Get(ctx, "robot-1")
			return found
		}, time.Second, 20*time.Millisecond).Should(gomega.BeFalse())
	})

	ginkgo.It("should remove a deleted value", func() {
		store.Set(ctx, "robot-1", heartbeat{Status: "idle"}, 0)

		store.Delete(ctx, "robot-1")

		_, found := store.Get(ctx, "robot-1")
		gomega.Expect(found).To(gomega.BeFalse())
	})

	ginkgo.When("the context is cancelled", func() {
		var cancelled context.Context

		ginkgo.BeforeEach(func() {
			var cancel context.CancelFunc
			cancelled, cancel = context.WithCancel(ctx)
			cancel()
		})

		ginkgo.It("should refuse writes", func() {
			gomega.Expect(store.Set(cancelled, "robot-1", heartbeat{Status: "idle"}, 0)).To(gomega.BeFalse())
		})

		ginkgo.It("should report a miss", func() {
			store.Set(ctx, "robot-1", heartbeat{Status: "idle"}, 0)

			_, found := store.Get(cancelled, "robot-1")
			gomega.Expect(found).To(gomega.BeFalse())
		})
	})
})
