package communication_test

import (
	"context"
	"errors"
	"nami-server/internal/control_plane/communication"
	"nami-server/internal/control_plane/communication/internal"
	"nami-server/internal/infra/pubsub"
	"nami-server/internal/shared_kernel/domain"
	pubsubdoubles "nami-server/test/unit/doubles/infra/pubsub"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/riferrei/srclient"
	"go.uber.org/mock/gomock"
)

var _ = Describe("KafkaAuditNotifier", func() {
	var (
		event      domain.CommandEvent
		occurredAt time.Time
	)

	BeforeEach(func() {
		occurredAt = time.Date(2025, 10, 11, 9, 0, 0, 0, time.UTC)
		event = domain.CommandEvent{
			ID:           "event-1",
			Type:         domain.EventFail,
			CommandID:    "command-1",
			Intent:       domain.IntentDelivery,
			Action:       domain.ActionDeliver,
			Target:       "Room 201",
			FromStatus:   domain.CommandStatusExecuting,
			ToStatus:     domain.CommandStatusFailed,
			RobotID:      "nami-01",
			RetryCount:   1,
			ErrorMessage: "path obstructed",
			OccurredAt:   occurredAt,
		}
	})

	When("publishing through the in-memory broker", func() {
		var broker *pubsub.MemoryBroker

		BeforeEach(func() {
			broker = pubsub.GetMemoryBroker()
			broker.Reset()
		})

		It("should publish an avro record keyed by command id", func() {
			notifier, err := communication.NewKafkaAuditNotifier(pubsub.NewMemoryPublisherFactory(), "", nil)
			Expect(err).NotTo(HaveOccurred())

			var (
				key      pubsub.Key
				received pubsub.Message
			)
			broker.Subscribe(communication.DefaultAuditTopic, "audit-test", func(_ context.Context, k pubsub.Key, m pubsub.Message) error {
				key, received = k, m
				return nil
			})

			Expect(notifier.Notify(context.Background(), event)).To(Succeed())

			Expect(key).To(Equal(pubsub.Key("command-1")))
			record, ok := received.(internal.CommandEventRecord)
			Expect(ok).To(BeTrue())
			Expect(record.Type).To(Equal(domain.EventFail))
			Expect(record.ToStatus).To(Equal("failed"))
			Expect(record.RobotID).To(Equal("nami-01"))
			Expect(*record.ErrorMessage).To(Equal("path obstructed"))
			Expect(record.OccurredAt.Equal(occurredAt)).To(BeTrue())
		})

		It("should leave the error message empty for successful transitions", func() {
			notifier, err := communication.NewKafkaAuditNotifier(pubsub.NewMemoryPublisherFactory(), "audit", nil)
			Expect(err).NotTo(HaveOccurred())

			var received pubsub.Message
			broker.Subscribe("audit", "audit-test", func(_ context.Context, _ pubsub.Key, m pubsub.Message) error {
				received = m
				return nil
			})

			event.Type = domain.EventComplete
			event.ToStatus = domain.CommandStatusCompleted
			event.ErrorMessage = ""
			Expect(notifier.Notify(context.Background(), event)).To(Succeed())

			record := received.(internal.CommandEventRecord)
			Expect(record.ErrorMessage).To(BeNil())
		})
	})

	When("a schema registry is configured", func() {
		var (
			broker   *pubsub.MemoryBroker
			registry *srclient.MockSchemaRegistryClient
		)

		BeforeEach(func() {
			broker = pubsub.GetMemoryBroker()
			broker.Reset()
			registry = srclient.CreateMockSchemaRegistryClient("http://registry.test")
		})

		It("should register the schema under the topic subject and round trip the record", func() {
			notifier, err := communication.NewKafkaAuditNotifier(pubsub.NewMemoryPublisherFactory(), "audit", registry)
			Expect(err).NotTo(HaveOccurred())

			var received pubsub.Message
			broker.Subscribe("audit", "audit-test", func(_ context.Context, _ pubsub.Key, m pubsub.Message) error {
				received = m
				return nil
			})

			Expect(notifier.Notify(context.Background(), event)).To(Succeed())

			registered, err := registry.GetLatestSchema("audit-value")
			Expect(err).NotTo(HaveOccurred())
			Expect(registered.Schema()).To(ContainSubstring("RobotCommandEvent"))

			record, ok := received.(internal.CommandEventRecord)
			Expect(ok).To(BeTrue())
			Expect(record.CommandID).To(Equal("command-1"))
			Expect(record.RetryCount).To(Equal(1))
			Expect(*record.ErrorMessage).To(Equal("path obstructed"))
			Expect(record.OccurredAt.Equal(occurredAt)).To(BeTrue())
		})

		It("should keep a missing error message empty", func() {
			notifier, err := communication.NewKafkaAuditNotifier(pubsub.NewMemoryPublisherFactory(), "audit", registry)
			Expect(err).NotTo(HaveOccurred())

			var received pubsub.Message
			broker.Subscribe("audit", "audit-test", func(_ context.Context, _ pubsub.Key, m pubsub.Message) error {
				received = m
				return nil
			})

			event.ErrorMessage = ""
			Expect(notifier.Notify(context.Background(), event)).To(Succeed())

			record := received.(internal.CommandEventRecord)
			Expect(record.ErrorMessage).To(BeNil())
		})
	})

	When("the publisher fails", func() {
		It("should return the error", func() {
			ctrl := gomock.NewController(GinkgoT())
			factory := pubsubdoubles.NewMockPublisherFactory(ctrl)
			publisher := pubsubdoubles.NewMockPublisher(ctrl)

			factory.EXPECT().New(pubsub.Topic("audit"), gomock.Any()).Return(publisher, nil)
			publisher.EXPECT().
				Publish(gomock.Any(), pubsub.Key("command-1"), gomock.Any()).
				Return(errors.New("broker down"))

			notifier, err := communication.NewKafkaAuditNotifier(factory, "audit", nil)
			Expect(err).NotTo(HaveOccurred())

			err = notifier.Notify(context.Background(), event)
			Expect(err).To(MatchError(ContainSubstring("broker down")))
		})

		It("should fail creation when the factory fails", func() {
			ctrl := gomock.NewController(GinkgoT())
			factory := pubsubdoubles.NewMockPublisherFactory(ctrl)
			factory.EXPECT().New(gomock.Any(), gomock.Any()).Return(nil, errors.New("no brokers"))

			_, err := communication.NewKafkaAuditNotifier(factory, "audit", nil)
			Expect(err).To(HaveOccurred())
		})
	})
})
