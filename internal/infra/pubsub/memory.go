package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

var _ PublisherFactory = (*MemoryPublisherFactory)(nil)

// In-memory implementation for local runs and tests
type MemoryPublisherFactory struct {
	broker *MemoryBroker
}

func NewMemoryPublisherFactory() *MemoryPublisherFactory {
	return &MemoryPublisherFactory{
		broker: GetMemoryBroker(),
	}
}

func (f *MemoryPublisherFactory) New(topic Topic, codec Codec) (Publisher, error) {
	return &MemoryPublisher{
		broker: f.broker,
		topic:  topic,
		codec:  codec,
	}, nil
}

var _ Publisher = (*MemoryPublisher)(nil)

// MemoryPublisher round-trips every message through the codec so encoding
// problems surface without Kafka.
type MemoryPublisher struct {
	broker *MemoryBroker
	topic  Topic
	codec  Codec
}

func (p *MemoryPublisher) Publish(ctx context.Context, key Key, message Message) error {
	if p.codec != nil {
		data, err := p.codec.Encode(message)
		if err != nil {
			return err
		}
		message, err = p.codec.Decode(data)
		if err != nil {
			return err
		}
	}
	return p.broker.Publish(ctx, p.topic, key, message)
}

// MemoryBroker is a singleton that manages all in-memory pubsub operations
type MemoryBroker struct {
	subscribers map[Topic]map[string]MessageHandler
	counts      map[Topic]int
	mu          sync.RWMutex
}

var (
	memoryBroker     *MemoryBroker
	memoryBrokerOnce sync.Once
)

func GetMemoryBroker() *MemoryBroker {
	memoryBrokerOnce.Do(func() {
		memoryBroker = &MemoryBroker{
			subscribers: make(map[Topic]map[string]MessageHandler),
			counts:      make(map[Topic]int),
		}
	})
	return memoryBroker
}

// Publish delivers synchronously, one handler per group.
func (b *MemoryBroker) Publish(ctx context.Context, topic Topic, key Key, message Message) error {
	b.mu.Lock()
	b.counts[topic]++
	handlers := make([]MessageHandler, 0, len(b.subscribers[topic]))
	for _, handler := range b.subscribers[topic] {
		handlers = append(handlers, handler)
	}
	b.mu.Unlock()

	for _, handler := range handlers {
		b.deliver(ctx, topic, key, message, handler)
	}

	return nil
}

func (b *MemoryBroker) deliver(ctx context.Context, topic Topic, key Key, message Message, handler MessageHandler) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in message handler",
				slog.String("topic", string(topic)),
				slog.String("panic", fmt.Sprint(r)),
			)
		}
	}()

	if err := handler(ctx, key, message); err != nil {
		slog.Error("error in message handler",
			slog.String("topic", string(topic)),
			slog.Any("error", err),
		)
	}
}

// Subscribe replaces any earlier handler registered for the same group.
func (b *MemoryBroker) Subscribe(topic Topic, group string, handler MessageHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subscribers[topic] == nil {
		b.subscribers[topic] = make(map[string]MessageHandler)
	}
	b.subscribers[topic][group] = handler
}

// Reset clears all topics and consumers (useful for testing)
func (b *MemoryBroker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers = make(map[Topic]map[string]MessageHandler)
	b.counts = make(map[Topic]int)
}

// GetMessageCount returns how many messages were published to a topic
func (b *MemoryBroker) GetMessageCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.counts[topic]
}
