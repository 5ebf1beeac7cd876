// Package datum orchestrates schema-directed encoding and decoding: it
// recurses over a schema, delegating leaf reads/writes to pkg/codec
// (binary) or pkg/jsoncodec (JSON) and applying pkg/logical conversions,
// and hands off to pkg/resolution when the writer and reader schemas
// differ.
package datum

import (
	"go.uber.org/zap"

	"github.com/kirovets/avro/pkg/codec"
	"github.com/kirovets/avro/pkg/logical"
)

// Model bundles the configuration a Reader/Writer pair needs: which
// logical type conversions are active and where to log decode/encode
// diagnostics. It is built once and shared across many Reader/Writer
// instances, using functional options rather than a config struct
// threaded by value.
type Model struct {
	logical  *logical.Registry
	log      *zap.Logger
	lenient  bool
	maxAlloc int64
}

type Option func(*Model)

// WithLogicalRegistry overrides the default conversion set. Pass a
// registry built from logical.NewRegistry() with Add/Remove calls to
// customize which logical types are active.
func WithLogicalRegistry(r *logical.Registry) Option {
	return func(m *Model) { m.logical = r }
}

// WithLogger routes Model diagnostics to l instead of the zap package
// global default.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) { m.log = l }
}

// WithLenient controls whether JSON decoding tolerates record fields with
// no counterpart in the schema. The default is strict: an unrecognized
// field is a jsoncodec.UnknownFieldError.
func WithLenient(lenient bool) Option {
	return func(m *Model) { m.lenient = lenient }
}

// WithMaxAllocation overrides codec.DefaultMaxAllocation, the ceiling a
// bytes/string length or an array/map block count read from binary input
// must not exceed before ReadBinary/ReadBinaryResolving fail with a
// CapacityError instead of trusting an attacker-controlled varint to size
// an allocation.
func WithMaxAllocation(n int64) Option {
	return func(m *Model) { m.maxAlloc = n }
}

// NewModel builds a Model with the default logical type registry active.
func NewModel(opts ...Option) *Model {
	m := &Model{
		logical:  logical.NewRegistry(),
		log:      zap.L(),
		maxAlloc: codec.DefaultMaxAllocation,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
