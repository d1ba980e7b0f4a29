package async_test

import (
	"context"

	"nami-server/internal/infra/async"
	"nami-server/internal/shared_kernel/domain"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Local Broker", func() {
	var broker *async.LocalBroker
	var topic async.BrokerTopicName
	var subscription async.Subscription
	var message async.BrokerMessage
	var ctx context.Context

	BeforeEach(func() {
		broker = async.NewLocalBroker()
		ctx = context.TODO()
		topic = "command_events"
		message = async.BrokerMessage{
			Event: domain.EventClaim,
			Value: domain.CommandEvent{CommandID: "cmd-1", ToStatus: domain.CommandStatusExecuting},
		}
	})

	Context("Subscribe", func() {
		When("add a new subscriber for a topic", func() {
			It("should receive published messages", func() {
				subscription, _ = broker.Subscribe(topic)

				Expect(broker.Publish(ctx, topic, message)).To(Succeed())

				Eventually(subscription.Receiver).Should(Receive(HaveField("Event", domain.EventClaim)))
			})
		})

		When("multiple subscriptors", func() {
			It("should deliver to every subscriptor", func() {
				subscription, _ = broker.Subscribe(topic)
				subscription2, _ := broker.Subscribe(topic)

				broker.Publish(ctx, topic, message)

				Eventually(subscription.Receiver).Should(Receive(HaveField("Value", HaveField("CommandID", domain.ID("cmd-1")))))
				Eventually(subscription2.Receiver).Should(Receive(HaveField("Value", HaveField("CommandID", domain.ID("cmd-1")))))
			})
		})

		When("messages are published in sequence", func() {
			It("should keep the publish order", func() {
				subscription, _ = broker.Subscribe(topic)

				for _, event := range []string{domain.EventCreate, domain.EventClaim, domain.EventComplete} {
					broker.Publish(ctx, topic, async.BrokerMessage{Event: event})
				}

				var received async.BrokerMessage
				Eventually(subscription.Receiver).Should(Receive(&received))
				Expect(received.Event).To(Equal(domain.EventCreate))
				Eventually(subscription.Receiver).Should(Receive(&received))
				Expect(received.Event).To(Equal(domain.EventClaim))
				Eventually(subscription.Receiver).Should(Receive(&received))
				Expect(received.Event).To(Equal(domain.EventComplete))
			})
		})

		When("a subscriptor stops reading", func() {
			It("should not block the publisher", func() {
				subscription, _ = broker.Subscribe(topic)

				for range async.DefaultReceiverBuffer + 10 {
					Expect(broker.Publish(ctx, topic, message)).To(Succeed())
				}

				Expect(subscription.Receiver).To(HaveLen(async.DefaultReceiverBuffer))
			})
		})

		When("stop broker", func() {
			It("should close the receiver", func() {
				subscription, _ = broker.Subscribe(topic)

				go broker.Stop()

				Eventually(subscription.Receiver).Should(BeClosed())
			})
		})
	})

	Context("Unsubscribe", func() {
		When("there is no subscriptor", func() {
			It("should return topic not found", func() {
				err := broker.Unsubscribe(topic, async.Subscription{ID: "2d582ce4-88e1-40a8-bc14-5cf0311943fd"})

				Expect(err).Should(MatchError(async.ErrTopicNotFound))
			})
		})

		When("subscriptor doesn't exists", func() {
			It("should return subscriptor not found", func() {
				subscription, _ = broker.Subscribe(topic)

				err := broker.Unsubscribe(topic, async.Subscription{ID: "2d582ce4-88e1-40a8-bc14-5cf0311943fd"})

				Expect(err).Should(MatchError(async.ErrSubscriptorNotFound))
			})
		})

		When("subscriptor does exists", func() {
			It("should not receive any further message", func() {
				subscription, _ = broker.Subscribe(topic)
				broker.Unsubscribe(topic, subscription)

				Expect(broker.Publish(ctx, topic, message)).To(Succeed())

				Eventually(subscription.Receiver).Should(BeClosed())
				Consistently(subscription.Receiver).ShouldNot(Receive(HaveField("Event", domain.EventClaim)))
			})
		})

		When("is called twice", func() {
			It("should not panic", func() {
				subscription, _ = broker.Subscribe(topic)
				broker.Unsubscribe(topic, subscription)

				Expect(broker.Unsubscribe(topic, subscription)).To(Succeed())
			})
		})
	})

	Context("Publish", func() {
		When("topic doesn't exists", func() {
			It("should return an error", func() {
				err := broker.Publish(ctx, topic, message)

				Expect(err).Should(MatchError(async.ErrTopicNotFound))
			})
		})

		When("every subscriptor left", func() {
			It("should return no error", func() {
				subscription, _ = broker.Subscribe(topic)
				broker.Unsubscribe(topic, subscription)

				Expect(broker.Publish(ctx, topic, message)).To(Succeed())
			})
		})
	})
})
