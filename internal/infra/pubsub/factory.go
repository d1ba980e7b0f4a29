package pubsub

import "time"

// Factory picks the publisher implementation based on environment
type Factory struct {
	publisherFactory PublisherFactory
}

// NewFactory falls back to the in-memory broker when no Kafka brokers are
// configured.
func NewFactory(opts FactoryOptions) *Factory {
	if opts.Environment == "local" || len(opts.KafkaBrokers) == 0 {
		return &Factory{
			publisherFactory: NewMemoryPublisherFactory(),
		}
	}

	return &Factory{
		publisherFactory: NewKafkaPublisherFactory(KafkaPublisherFactoryOptions{
			Brokers: opts.KafkaBrokers,
			Retries: opts.ConnectRetries,
			Backoff: opts.ConnectBackoff,
		}),
	}
}

type FactoryOptions struct {
	Environment    string
	KafkaBrokers   []string
	ConnectRetries int
	ConnectBackoff time.Duration
}

// GetPublisherFactory returns the configured publisher factory
func (f *Factory) GetPublisherFactory() PublisherFactory {
	return f.publisherFactory
}

// NewPublisher creates a new publisher for the given topic and codec
func (f *Factory) NewPublisher(topic Topic, codec Codec) (Publisher, error) {
	return f.publisherFactory.New(topic, codec)
}
