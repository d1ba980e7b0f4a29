package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Details is the intent specific payload of a command. Every implementation
// belongs to exactly one intent, so a type switch over Details is exhaustive
// over the known intents.
type Details interface {
	Intent() Intent
	Validate() error
}

type NavigationDetails struct{}

func (NavigationDetails) Intent() Intent { return IntentNavigation }

func (NavigationDetails) Validate() error { return nil }

type DeliveryDetails struct {
	Item string `json:"item"`
	From string `json:"from"`
	To   string `json:"to"`
}

func (DeliveryDetails) Intent() Intent { return IntentDelivery }

func (d DeliveryDetails) Validate() error {
	if strings.TrimSpace(d.From) == "" {
		return fmt.Errorf("%w: delivery requires a pickup location", ErrValidation)
	}
	if strings.TrimSpace(d.To) == "" {
		return fmt.Errorf("%w: delivery requires a drop-off location", ErrValidation)
	}
	return nil
}

type MedicineDeliveryDetails struct {
	Medicine string `json:"medicine"`
	Patient  string `json:"patient"`
	Dosage   string `json:"dosage,omitempty"`
	Room     string `json:"room,omitempty"`
}

func (MedicineDeliveryDetails) Intent() Intent { return IntentMedicineDelivery }

func (d MedicineDeliveryDetails) Validate() error {
	if strings.TrimSpace(d.Medicine) == "" {
		return fmt.Errorf("%w: medicine delivery requires a medicine", ErrValidation)
	}
	if strings.TrimSpace(d.Patient) == "" {
		return fmt.Errorf("%w: medicine delivery requires a patient", ErrValidation)
	}
	return nil
}

type RobotControlDetails struct{}

func (RobotControlDetails) Intent() Intent { return IntentRobotControl }

func (RobotControlDetails) Validate() error { return nil }

// MarshalDetails encodes the payload without its intent tag; the tag is
// stored next to it on the command.
func MarshalDetails(d Details) ([]byte, error) {
	if d == nil {
		return []byte("{}"), nil
	}

	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s details: %w", d.Intent(), err)
	}

	return data, nil
}

// UnmarshalDetails decodes a payload using the intent as the union tag.
func UnmarshalDetails(intent Intent, data []byte) (Details, error) {
	if len(data) == 0 {
		data = []byte("{}")
	}

	switch intent {
	case IntentNavigation:
		return NavigationDetails{}, nil
	case IntentRobotControl:
		return RobotControlDetails{}, nil
	case IntentDelivery:
		var d DeliveryDetails
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("unmarshaling delivery details: %w", err)
		}
		return d, nil
	case IntentMedicineDelivery:
		var d MedicineDeliveryDetails
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("unmarshaling medicine delivery details: %w", err)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntent, intent)
	}
}
