package pubsub

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/hamba/avro/v2"
)

// Codec matches goka.Codec so the same value serves emitters and the
// in-memory broker.
type Codec interface {
	Encode(value any) (data []byte, err error)
	Decode(data []byte) (value any, err error)
}

func NewJSONCodec(prototype any) *JSONCodec {
	return &JSONCodec{prototype}
}

var _ Codec = &JSONCodec{}

type JSONCodec struct {
	prototype any
}

func (c *JSONCodec) Encode(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshaling data: %w", err)
	}

	return data, nil
}

func (c *JSONCodec) Decode(data []byte) (any, error) {
	instance := reflect.New(reflect.TypeOf(c.prototype))
	err := json.Unmarshal(data, instance.Interface())
	if err != nil {
		return nil, fmt.Errorf("unmarshaling data: %w", err)
	}

	return instance.Elem().Interface(), nil
}

// NewAvroCodec parses schema once. Decode returns values of the prototype's
// type, not pointers.
func NewAvroCodec(schema string, prototype any) (*AvroCodec, error) {
	parsed, err := avro.Parse(schema)
	if err != nil {
		return nil, fmt.Errorf("parsing avro schema: %w", err)
	}

	return &AvroCodec{
		schema:    parsed,
		prototype: reflect.TypeOf(prototype),
	}, nil
}

var _ Codec = &AvroCodec{}

type AvroCodec struct {
	schema    avro.Schema
	prototype reflect.Type
}

func (c *AvroCodec) Encode(value any) ([]byte, error) {
	data, err := avro.Marshal(c.schema, value)
	if err != nil {
		return nil, fmt.Errorf("encoding avro: %w", err)
	}

	return data, nil
}

func (c *AvroCodec) Decode(data []byte) (any, error) {
	instance := reflect.New(c.prototype)
	if err := avro.Unmarshal(c.schema, data, instance.Interface()); err != nil {
		return nil, fmt.Errorf("decoding avro: %w", err)
	}

	return instance.Elem().Interface(), nil
}
