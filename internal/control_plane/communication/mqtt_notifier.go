package communication

import (
	"context"
	"fmt"
	"nami-server/internal/control_plane/communication/internal"
	"nami-server/internal/control_plane/usecases"
	"nami-server/internal/infra/mqtt"
	"nami-server/internal/shared_kernel/domain"
)

const _robotEventsTopic = "nami/robots/%s/events"

// NewMQTTCommandNotifier pushes transitions to the robot holding the command.
// Events that precede a claim go to fallbackRobotID.
func NewMQTTCommandNotifier(client mqtt.Client, fallbackRobotID domain.ID) *MQTTCommandNotifier {
	return &MQTTCommandNotifier{
		client:          client,
		fallbackRobotID: fallbackRobotID,
	}
}

var _ usecases.CommandEventNotifier = (*MQTTCommandNotifier)(nil)

type MQTTCommandNotifier struct {
	client          mqtt.Client
	fallbackRobotID domain.ID
}

func (n *MQTTCommandNotifier) Notify(_ context.Context, event domain.CommandEvent) error {
	robotID := event.RobotID
	if robotID == "" {
		robotID = n.fallbackRobotID
	}
	if robotID == "" {
		return nil
	}

	topic := RobotEventsTopic(robotID)
	if err := n.client.Publish(topic, internal.NotificationFromCommandEvent(event)); err != nil {
		return fmt.Errorf("notifying robot %s: %w", robotID, err)
	}

	return nil
}

func RobotEventsTopic(robotID domain.ID) string {
	return fmt.Sprintf(_robotEventsTopic, robotID)
}
