package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lovoo/goka"
)

const (
	defaultConnectRetries = 10
	defaultConnectBackoff = 5 * time.Second
)

var _ PublisherFactory = (*KafkaPublisherFactory)(nil)

type KafkaPublisherFactoryOptions struct {
	Brokers []string
	Retries int
	Backoff time.Duration
}

func NewKafkaPublisherFactory(opts KafkaPublisherFactoryOptions) *KafkaPublisherFactory {
	if opts.Retries <= 0 {
		opts.Retries = defaultConnectRetries
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultConnectBackoff
	}
	return &KafkaPublisherFactory{opts: opts}
}

type KafkaPublisherFactory struct {
	opts KafkaPublisherFactoryOptions
}

func (f *KafkaPublisherFactory) New(topic Topic, codec Codec) (Publisher, error) {
	publisher, err := NewKafkaPublisher(f.opts, string(topic), codec)
	if err != nil {
		return nil, fmt.Errorf("creating publisher: %w", err)
	}

	return publisher, nil
}

// publisherKey represents a unique key for a publisher instance
type publisherKey struct {
	brokers   string
	topic     string
	codecType string
}

// publisherInstance holds a publisher and its initialization state
type publisherInstance struct {
	publisher *SimpleKafkaPublisher
	once      sync.Once
	err       error
}

// publishersMap stores singleton instances of publishers
var (
	publishersMap   = make(map[publisherKey]*publisherInstance)
	publishersMutex sync.Mutex
)

// NewKafkaPublisher returns one emitter per brokers, topic and codec type.
// A failed connection is remembered and returned to later callers.
func NewKafkaPublisher(opts KafkaPublisherFactoryOptions, topic string, codec Codec) (*SimpleKafkaPublisher, error) {
	key := publisherKey{
		brokers:   strings.Join(opts.Brokers, ","),
		topic:     topic,
		codecType: fmt.Sprintf("%T", codec),
	}

	publishersMutex.Lock()
	instance, exists := publishersMap[key]
	if !exists {
		instance = &publisherInstance{}
		publishersMap[key] = instance
	}
	publishersMutex.Unlock()

	instance.once.Do(func() {
		slog.Debug("creating kafka publisher",
			slog.String("topic", topic),
			slog.String("codec", key.codecType))

		var err error
		for try := 0; try < opts.Retries; try++ {
			slog.Debug("connecting to kafka brokers", slog.String("brokers", key.brokers))
			var emitter *goka.Emitter
			emitter, err = goka.NewEmitter(opts.Brokers, goka.Stream(topic), codec)
			if err == nil {
				instance.publisher = &SimpleKafkaPublisher{emitter}
				return
			}
			if try < opts.Retries-1 {
				time.Sleep(opts.Backoff)
			}
		}

		instance.err = fmt.Errorf("connecting to kafka brokers after %d retries: %w", opts.Retries, err)
	})

	if instance.err != nil {
		return nil, instance.err
	}

	return instance.publisher, nil
}

var _ Publisher = (*SimpleKafkaPublisher)(nil)

type SimpleKafkaPublisher struct {
	emitter *goka.Emitter
}

func (p *SimpleKafkaPublisher) Publish(_ context.Context, key Key, message Message) error {
	slog.Debug("publishing message", slog.String("key", string(key)))
	err := p.emitter.EmitSync(string(key), message)
	if err != nil {
		slog.Error("emitting message", slog.String("error", err.Error()))
		return err
	}

	return nil
}

// Close flushes pending messages.
func (p *SimpleKafkaPublisher) Close() error {
	return p.emitter.Finish()
}
