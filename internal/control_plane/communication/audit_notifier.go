package communication

import (
	"context"
	"fmt"
	"nami-server/internal/control_plane/communication/internal"
	"nami-server/internal/control_plane/usecases"
	"nami-server/internal/infra/pubsub"
	"nami-server/internal/shared_kernel/domain"
)

const DefaultAuditTopic pubsub.Topic = "robot_command_events"

// NewKafkaAuditNotifier publishes every transition as an Avro record keyed by
// command id, so one command's history stays in one partition. With a schema
// registry the records use the Confluent wire format under "<topic>-value";
// a nil registry writes bare Avro.
func NewKafkaAuditNotifier(factory pubsub.PublisherFactory, topic pubsub.Topic, registry pubsub.SchemaRegistry) (*KafkaAuditNotifier, error) {
	if topic == "" {
		topic = DefaultAuditTopic
	}

	codec, err := newAuditCodec(topic, registry)
	if err != nil {
		return nil, fmt.Errorf("creating audit codec: %w", err)
	}

	publisher, err := factory.New(topic, codec)
	if err != nil {
		return nil, fmt.Errorf("creating publisher: %w", err)
	}

	return &KafkaAuditNotifier{
		publisher: publisher,
	}, nil
}

func newAuditCodec(topic pubsub.Topic, registry pubsub.SchemaRegistry) (pubsub.Codec, error) {
	if registry == nil {
		return pubsub.NewAvroCodec(internal.CommandEventSchema, internal.CommandEventRecord{})
	}

	return pubsub.NewConfluentAvroCodec(registry, string(topic)+"-value", internal.CommandEventSchema, pubsub.AvroNative{
		To: func(value any) (map[string]any, error) {
			record, ok := value.(internal.CommandEventRecord)
			if !ok {
				return nil, fmt.Errorf("unexpected audit value %T", value)
			}
			return record.Native(), nil
		},
		From: func(native map[string]any) (any, error) {
			return internal.CommandEventRecordFromNative(native)
		},
	})
}

var _ usecases.CommandEventNotifier = (*KafkaAuditNotifier)(nil)

type KafkaAuditNotifier struct {
	publisher pubsub.Publisher
}

func (n *KafkaAuditNotifier) Notify(ctx context.Context, event domain.CommandEvent) error {
	record := internal.FromCommandEvent(event)
	err := n.publisher.Publish(ctx, pubsub.Key(event.CommandID), record)
	if err != nil {
		return fmt.Errorf("publishing to kafka: %w", err)
	}

	return nil
}
