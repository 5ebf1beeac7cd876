package registry

import (
	"fmt"
	"sync"

	"github.com/kirovets/avro/pkg/schema"
)

// TopicBinding ties a schema to the Kafka topic it is published on. Values
// moving through pkg/datum are generic maps rather than typed structs, so
// bindings key off the schema's full name instead of a Go reflect.Type.
type TopicBinding struct {
	Schema     schema.Schema
	SchemaName string
	Topic      string
}

// Bindings is a registry of TopicBinding keyed by schema name (for producing,
// where the caller already knows what it's writing) and by topic (for
// consuming, where only the topic is known up front).
type Bindings struct {
	mu      sync.RWMutex
	byName  map[string]*TopicBinding
	byTopic map[string]*TopicBinding
}

func NewBindings() *Bindings {
	return &Bindings{
		byName:  make(map[string]*TopicBinding),
		byTopic: make(map[string]*TopicBinding),
	}
}

// Register adds a binding. schemaName must be unique across the registry;
// topic need not be, but only the most recently registered binding for a
// given topic is retrievable via ByTopic.
func (b *Bindings) Register(s schema.Schema, topic string) (*TopicBinding, error) {
	named, ok := s.(schema.NamedSchema)
	if !ok {
		return nil, fmt.Errorf("registry: schema for topic %q must be a named schema (record, enum, or fixed)", topic)
	}
	if topic == "" {
		return nil, fmt.Errorf("registry: topic cannot be empty")
	}
	binding := &TopicBinding{
		Schema:     s,
		SchemaName: named.FullName(),
		Topic:      topic,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.byName[binding.SchemaName]; exists {
		return nil, fmt.Errorf("registry: schema %q already registered", binding.SchemaName)
	}
	b.byName[binding.SchemaName] = binding
	b.byTopic[topic] = binding
	return binding, nil
}

func (b *Bindings) ByName(schemaName string) (*TopicBinding, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	binding, ok := b.byName[schemaName]
	if !ok {
		return nil, fmt.Errorf("registry: no binding registered for schema %q", schemaName)
	}
	return binding, nil
}

func (b *Bindings) ByTopic(topic string) (*TopicBinding, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	binding, ok := b.byTopic[topic]
	if !ok {
		return nil, fmt.Errorf("registry: no binding registered for topic %q", topic)
	}
	return binding, nil
}

func (b *Bindings) All() []*TopicBinding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*TopicBinding, 0, len(b.byName))
	for _, binding := range b.byName {
		out = append(out, binding)
	}
	return out
}
