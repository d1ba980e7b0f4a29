package async

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

type BrokerTopicName string

type BrokerMessage struct {
	Event string
	Value any
	Span  trace.Span
	Error error
}

type InternalBroker interface {
	Subscribe(topic BrokerTopicName) (Subscription, error)
	Unsubscribe(topic BrokerTopicName, subscription Subscription) error
	Publish(ctx context.Context, topic BrokerTopicName, msg BrokerMessage) error
	Stop()
}

var _ InternalBroker = (*LocalBroker)(nil)

var ErrTopicNotFound = errors.New("topic not found")
var ErrSubscriptorNotFound = errors.New("subscriptor not found")

// DefaultReceiverBuffer is the number of messages a slow subscriber may lag
// behind before new messages are dropped for it.
const DefaultReceiverBuffer = 64

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{
		subscriptors: make(map[BrokerTopicName][]*subscriptor),
	}
}

// LocalBroker is an in-process pub/sub. Delivery is in publish order per
// subscriber and never blocks the publisher.
type LocalBroker struct {
	mu           sync.RWMutex
	subscriptors map[BrokerTopicName][]*subscriptor
}

type subscriptor struct {
	mu           sync.RWMutex
	closed       bool
	subscription Subscription
	receiver     chan BrokerMessage
}

type Subscription struct {
	ID       string
	Receiver <-chan BrokerMessage
}

func (b *LocalBroker) Subscribe(topic BrokerTopicName) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	receiver := make(chan BrokerMessage, DefaultReceiverBuffer)
	subscription := Subscription{ID: uuid.NewString(), Receiver: receiver}

	active := slices.DeleteFunc(b.subscriptors[topic], func(s *subscriptor) bool { return s.isClosed() })
	b.subscriptors[topic] = append(active, &subscriptor{subscription: subscription, receiver: receiver})
	return subscription, nil
}

func (b *LocalBroker) Unsubscribe(topic BrokerTopicName, subscription Subscription) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subscriptors, ok := b.subscriptors[topic]
	if !ok {
		return ErrTopicNotFound
	}

	index := slices.IndexFunc(subscriptors, func(s *subscriptor) bool { return s.subscription.ID == subscription.ID })
	if index < 0 {
		return ErrSubscriptorNotFound
	}

	subscriptors[index].close()
	return nil
}

func (b *LocalBroker) Publish(ctx context.Context, topic BrokerTopicName, msg BrokerMessage) error {
	msg.Span = trace.SpanFromContext(ctx)

	b.mu.RLock()
	defer b.mu.RUnlock()

	subscriptors, ok := b.subscriptors[topic]
	if !ok {
		return ErrTopicNotFound
	}

	for _, s := range subscriptors {
		if !s.deliver(msg) {
			slog.Warn("subscriber is lagging, message dropped",
				slog.String("topic", string(topic)),
				slog.String("subscription", s.subscription.ID),
				slog.String("event", msg.Event),
			)
		}
	}

	return nil
}

func (b *LocalBroker) Stop() {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, subscriptors := range b.subscriptors {
		for _, s := range subscriptors {
			s.close()
		}
	}
}

// deliver reports false only when the receiver buffer is full.
func (s *subscriptor) deliver(msg BrokerMessage) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return true
	}

	select {
	case s.receiver <- msg:
		return true
	default:
		return false
	}
}

func (s *subscriptor) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *subscriptor) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.receiver)
}
