package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"github.com/confluentinc/confluent-kafka-go/v2/schemaregistry"

	"go.uber.org/zap"

	"github.com/kirovets/avro/internal/avrolog"
	"github.com/kirovets/avro/pkg/schema"
)

// Client resolves schemas against Confluent Schema Registry, translating
// between the wire concept of a numeric schema ID and this module's own
// pkg/schema.Schema representation.
type Client struct {
	raw     schemaregistry.Client
	backoff func() backoff.BackOff
	baseLog *zap.Logger

	mu         sync.RWMutex
	idToSchema map[int]*resolvedSchema
	nameToID   map[nameSubjectKey]int
}

type resolvedSchema struct {
	schema     schema.Schema
	schemaName string
}

type nameSubjectKey struct {
	subject    string
	schemaJSON string
}

// Option configures a Client.
type Option func(*Client)

// WithBackOff overrides the retry policy used for registry round trips.
// The default is an exponential backoff capped at 3 retries.
func WithBackOff(factory func() backoff.BackOff) Option {
	return func(c *Client) { c.backoff = factory }
}

// WithLogger sets the base logger this client tees request-scoped fields
// onto (via internal/avrolog.Combine) whenever a call's context carries its
// own logger. Defaults to the zap global.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.baseLog = l }
}

func NewClient(raw schemaregistry.Client, opts ...Option) *Client {
	c := &Client{
		raw:        raw,
		baseLog:    zap.L(),
		idToSchema: make(map[int]*resolvedSchema),
		nameToID:   make(map[nameSubjectKey]int),
	}
	c.backoff = func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// log returns the client's base logger teed with whatever logger ctx
// carries, so a caller's request-scoped fields (trace ID, consumer group)
// show up alongside this client's own static fields without either side
// losing its sinks.
func (c *Client) log(ctx context.Context) *zap.Logger {
	return avrolog.Combine(c.baseLog, ctx)
}

// Close releases the underlying registry connection.
func (c *Client) Close() error {
	return c.raw.Close()
}

// Register publishes binding.Schema under subject "<topic>-value" and
// returns its schema ID, retrying transient registry failures. Results are
// cached by (subject, schema) so repeat calls for the same binding are free.
func (c *Client) Register(ctx context.Context, binding *TopicBinding) (int, error) {
	subject := binding.Topic + "-value"
	schemaJSON := binding.Schema.String()
	key := nameSubjectKey{subject: subject, schemaJSON: schemaJSON}

	c.mu.RLock()
	id, cached := c.nameToID[key]
	c.mu.RUnlock()
	if cached {
		return id, nil
	}

	info := schemaregistry.SchemaInfo{
		Schema:     schemaJSON,
		SchemaType: "AVRO",
	}

	var registeredID int
	op := func() error {
		var err error
		registeredID, err = c.raw.Register(subject, info, false)
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(c.backoff(), ctx)); err != nil {
		return 0, fmt.Errorf("registry: failed to register schema %q for subject %q: %w", binding.SchemaName, subject, err)
	}

	c.log(ctx).Debug("registered schema", zap.String("subject", subject), zap.Int("schema_id", registeredID))

	c.mu.Lock()
	c.nameToID[key] = registeredID
	c.mu.Unlock()
	return registeredID, nil
}

// ResolveWriterSchema fetches and parses the writer schema for schemaID,
// caching the parsed result so repeated messages carrying the same ID never
// hit the registry twice.
func (c *Client) ResolveWriterSchema(ctx context.Context, schemaID int) (schema.Schema, string, error) {
	c.mu.RLock()
	cached, ok := c.idToSchema[schemaID]
	c.mu.RUnlock()
	if ok {
		return cached.schema, cached.schemaName, nil
	}

	subjects, err := c.getSubjectsAndVersionsByID(ctx, schemaID)
	if err != nil {
		return nil, "", fmt.Errorf("registry: failed to look up subjects for schema ID %d: %w", schemaID, err)
	}
	if len(subjects) == 0 {
		return nil, "", fmt.Errorf("registry: no subjects found for schema ID %d", schemaID)
	}
	subject := subjects[0].Subject

	info, err := c.getBySubjectAndID(ctx, subject, schemaID)
	if err != nil {
		return nil, "", fmt.Errorf("registry: failed to fetch schema %d for subject %q: %w", schemaID, subject, err)
	}

	parsed, err := schema.Parse(info.Schema)
	if err != nil {
		return nil, "", fmt.Errorf("registry: failed to parse schema %d: %w", schemaID, err)
	}
	named, ok := parsed.(schema.NamedSchema)
	if !ok {
		return nil, "", fmt.Errorf("registry: schema %d is not a named schema", schemaID)
	}

	c.mu.Lock()
	c.idToSchema[schemaID] = &resolvedSchema{schema: parsed, schemaName: named.FullName()}
	c.mu.Unlock()

	c.log(ctx).Debug("resolved writer schema", zap.String("subject", subject), zap.Int("schema_id", schemaID), zap.String("schema_name", named.FullName()))
	return parsed, named.FullName(), nil
}

func (c *Client) getSubjectsAndVersionsByID(ctx context.Context, schemaID int) ([]schemaregistry.SubjectAndVersion, error) {
	var subjects []schemaregistry.SubjectAndVersion
	op := func() error {
		var err error
		subjects, err = c.raw.GetSubjectsAndVersionsByID(schemaID)
		return err
	}
	err := backoff.Retry(op, backoff.WithContext(c.backoff(), ctx))
	return subjects, err
}

func (c *Client) getBySubjectAndID(ctx context.Context, subject string, schemaID int) (schemaregistry.SchemaInfo, error) {
	var info schemaregistry.SchemaInfo
	op := func() error {
		var err error
		info, err = c.raw.GetBySubjectAndID(subject, schemaID)
		return err
	}
	err := backoff.Retry(op, backoff.WithContext(c.backoff(), ctx))
	return info, err
}
