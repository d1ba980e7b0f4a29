package pubsub

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"nami-server/internal/infra/cache"
	"strconv"
	"sync"
	"time"

	"github.com/linkedin/goavro/v2"
	"github.com/riferrei/srclient"
)

const (
	_confluentMagicByte  = 0
	_confluentHeaderSize = 5
	_schemaCodecTTL      = 5 * time.Minute
)

var ErrMalformedFrame = errors.New("malformed confluent avro frame")

// SchemaRegistry is the part of the registry client the codec needs.
// *srclient.SchemaRegistryClient satisfies it.
type SchemaRegistry interface {
	CreateSchema(subject string, schema string, schemaType srclient.SchemaType, references ...srclient.Reference) (*srclient.Schema, error)
	GetSchema(schemaID int) (*srclient.Schema, error)
}

func NewSchemaRegistry(url string) *srclient.SchemaRegistryClient {
	return srclient.CreateSchemaRegistryClient(url)
}

// AvroNative converts records to and from the generic values goavro works on.
type AvroNative struct {
	To   func(value any) (map[string]any, error)
	From func(native map[string]any) (any, error)
}

// NewConfluentAvroCodec frames records as magic byte, big endian schema id,
// then the Avro binary body. The schema is registered under subject on the
// first Encode.
func NewConfluentAvroCodec(registry SchemaRegistry, subject, schema string, native AvroNative) (*ConfluentAvroCodec, error) {
	own, err := goavro.NewCodec(schema)
	if err != nil {
		return nil, fmt.Errorf("parsing avro schema: %w", err)
	}

	codecs, err := cache.New[*goavro.Codec](cache.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("creating schema codec cache: %w", err)
	}

	return &ConfluentAvroCodec{
		registry: registry,
		subject:  subject,
		schema:   schema,
		own:      own,
		native:   native,
		codecs:   codecs,
	}, nil
}

var _ Codec = &ConfluentAvroCodec{}

type ConfluentAvroCodec struct {
	registry SchemaRegistry
	subject  string
	schema   string
	own      *goavro.Codec
	native   AvroNative
	codecs   cache.Cache[*goavro.Codec]

	mu       sync.Mutex
	schemaID int
}

func (c *ConfluentAvroCodec) Encode(value any) ([]byte, error) {
	native, err := c.native.To(value)
	if err != nil {
		return nil, fmt.Errorf("converting to avro native: %w", err)
	}

	schemaID, err := c.registeredID()
	if err != nil {
		return nil, err
	}

	body, err := c.own.BinaryFromNative(nil, native)
	if err != nil {
		return nil, fmt.Errorf("encoding avro: %w", err)
	}

	frame := make([]byte, _confluentHeaderSize, _confluentHeaderSize+len(body))
	frame[0] = _confluentMagicByte
	binary.BigEndian.PutUint32(frame[1:_confluentHeaderSize], uint32(schemaID))
	return append(frame, body...), nil
}

// Decode reads frames written under any schema id the registry knows.
func (c *ConfluentAvroCodec) Decode(data []byte) (any, error) {
	if len(data) < _confluentHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedFrame, len(data))
	}
	if data[0] != _confluentMagicByte {
		return nil, fmt.Errorf("%w: magic byte %d", ErrMalformedFrame, data[0])
	}
	schemaID := int(binary.BigEndian.Uint32(data[1:_confluentHeaderSize]))

	codec, err := c.codecFor(schemaID)
	if err != nil {
		return nil, err
	}

	decoded, _, err := codec.NativeFromBinary(data[_confluentHeaderSize:])
	if err != nil {
		return nil, fmt.Errorf("decoding avro: %w", err)
	}
	record, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: schema %d is not a record", ErrMalformedFrame, schemaID)
	}

	return c.native.From(record)
}

func (c *ConfluentAvroCodec) registeredID() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.schemaID != 0 {
		return c.schemaID, nil
	}

	registered, err := c.registry.CreateSchema(c.subject, c.schema, srclient.Avro)
	if err != nil {
		return 0, fmt.Errorf("registering schema for %s: %w", c.subject, err)
	}

	c.schemaID = registered.ID()
	c.codecs.Set(context.Background(), strconv.Itoa(c.schemaID), c.own, _schemaCodecTTL)
	return c.schemaID, nil
}

func (c *ConfluentAvroCodec) codecFor(schemaID int) (*goavro.Codec, error) {
	ctx := context.Background()
	key := strconv.Itoa(schemaID)
	if codec, ok := c.codecs.Get(ctx, key); ok {
		return codec, nil
	}

	c.mu.Lock()
	own := c.schemaID != 0 && c.schemaID == schemaID
	c.mu.Unlock()
	if own {
		return c.own, nil
	}

	registered, err := c.registry.GetSchema(schemaID)
	if err != nil {
		return nil, fmt.Errorf("fetching schema %d: %w", schemaID, err)
	}
	codec, err := goavro.NewCodec(registered.Schema())
	if err != nil {
		return nil, fmt.Errorf("parsing schema %d: %w", schemaID, err)
	}

	c.codecs.Set(ctx, key, codec, _schemaCodecTTL)
	return codec, nil
}
