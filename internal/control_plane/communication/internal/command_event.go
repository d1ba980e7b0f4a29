package internal

import (
	"fmt"
	"nami-server/internal/shared_kernel/domain"
	"time"

	"github.com/linkedin/goavro/v2"
)

const CommandEventSchema = `{
	"type": "record",
	"name": "RobotCommandEvent",
	"namespace": "nami.robot",
	"fields": [
		{"name": "id", "type": "string"},
		{"name": "type", "type": "string"},
		{"name": "command_id", "type": "string"},
		{"name": "intent", "type": "string"},
		{"name": "action", "type": "string"},
		{"name": "target", "type": "string"},
		{"name": "from_status", "type": "string", "default": ""},
		{"name": "to_status", "type": "string"},
		{"name": "robot_id", "type": "string", "default": ""},
		{"name": "retry_count", "type": "int"},
		{"name": "error_message", "type": ["null", "string"], "default": null},
		{"name": "occurred_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

// CommandEventRecord is the audit stream shape of a transition.
type CommandEventRecord struct {
	ID           string    `avro:"id"`
	Type         string    `avro:"type"`
	CommandID    string    `avro:"command_id"`
	Intent       string    `avro:"intent"`
	Action       string    `avro:"action"`
	Target       string    `avro:"target"`
	FromStatus   string    `avro:"from_status"`
	ToStatus     string    `avro:"to_status"`
	RobotID      string    `avro:"robot_id"`
	RetryCount   int       `avro:"retry_count"`
	ErrorMessage *string   `avro:"error_message"`
	OccurredAt   time.Time `avro:"occurred_at"`
}

func FromCommandEvent(event domain.CommandEvent) CommandEventRecord {
	record := CommandEventRecord{
		ID:         event.ID.String(),
		Type:       event.Type,
		CommandID:  event.CommandID.String(),
		Intent:     string(event.Intent),
		Action:     event.Action,
		Target:     event.Target,
		FromStatus: string(event.FromStatus),
		ToStatus:   string(event.ToStatus),
		RobotID:    event.RobotID.String(),
		RetryCount: event.RetryCount,
		OccurredAt: event.OccurredAt.UTC(),
	}
	if event.ErrorMessage != "" {
		message := event.ErrorMessage
		record.ErrorMessage = &message
	}
	return record
}

// Native is the record in the generic form goavro encodes.
func (r CommandEventRecord) Native() map[string]any {
	native := map[string]any{
		"id":            r.ID,
		"type":          r.Type,
		"command_id":    r.CommandID,
		"intent":        r.Intent,
		"action":        r.Action,
		"target":        r.Target,
		"from_status":   r.FromStatus,
		"to_status":     r.ToStatus,
		"robot_id":      r.RobotID,
		"retry_count":   r.RetryCount,
		"error_message": nil,
		"occurred_at":   r.OccurredAt,
	}
	if r.ErrorMessage != nil {
		native["error_message"] = goavro.Union("string", *r.ErrorMessage)
	}
	return native
}

func CommandEventRecordFromNative(native map[string]any) (CommandEventRecord, error) {
	record := CommandEventRecord{}
	fields := map[string]*string{
		"id":          &record.ID,
		"type":        &record.Type,
		"command_id":  &record.CommandID,
		"intent":      &record.Intent,
		"action":      &record.Action,
		"target":      &record.Target,
		"from_status": &record.FromStatus,
		"to_status":   &record.ToStatus,
		"robot_id":    &record.RobotID,
	}
	for field, dst := range fields {
		value, ok := native[field].(string)
		if !ok {
			return CommandEventRecord{}, fmt.Errorf("field %s: expected string, got %T", field, native[field])
		}
		*dst = value
	}

	switch retries := native["retry_count"].(type) {
	case int32:
		record.RetryCount = int(retries)
	case int:
		record.RetryCount = retries
	default:
		return CommandEventRecord{}, fmt.Errorf("field retry_count: expected int, got %T", retries)
	}

	occurredAt, ok := native["occurred_at"].(time.Time)
	if !ok {
		return CommandEventRecord{}, fmt.Errorf("field occurred_at: expected timestamp, got %T", native["occurred_at"])
	}
	record.OccurredAt = occurredAt.UTC()

	if union, ok := native["error_message"].(map[string]any); ok {
		if message, ok := union["string"].(string); ok {
			record.ErrorMessage = &message
		}
	}
	return record, nil
}

// Notification is the MessagePack payload pushed to robots over MQTT.
type Notification struct {
	EventID      string `msgpack:"event_id"`
	Event        string `msgpack:"event"`
	CommandID    string `msgpack:"command_id"`
	Intent       string `msgpack:"intent"`
	Action       string `msgpack:"action"`
	Target       string `msgpack:"target"`
	Status       string `msgpack:"status"`
	RetryCount   int    `msgpack:"retry_count"`
	ErrorMessage string `msgpack:"error_message,omitempty"`
	OccurredAt   int64  `msgpack:"occurred_at"`
}

func NotificationFromCommandEvent(event domain.CommandEvent) Notification {
	return Notification{
		EventID:      event.ID.String(),
		Event:        event.Type,
		CommandID:    event.CommandID.String(),
		Intent:       string(event.Intent),
		Action:       event.Action,
		Target:       event.Target,
		Status:       string(event.ToStatus),
		RetryCount:   event.RetryCount,
		ErrorMessage: event.ErrorMessage,
		OccurredAt:   event.OccurredAt.UnixMilli(),
	}
}
