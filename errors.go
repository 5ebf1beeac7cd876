package avro

import (
	"github.com/kirovets/avro/pkg/codec"
	"github.com/kirovets/avro/pkg/jsoncodec"
	"github.com/kirovets/avro/pkg/logical"
	"github.com/kirovets/avro/pkg/resolution"
	"github.com/kirovets/avro/pkg/schema"
)

// These aliases present the error taxonomy of the subpackages at the
// package root so a caller matching on error type with errors.As doesn't
// need to import pkg/schema, pkg/codec, and friends just to name the type.

// UnresolvedSchemaError is returned when a named-type reference cannot be
// linked within its parse scope.
type UnresolvedSchemaError = schema.UnresolvedSchemaError

// InvalidSchemaError is returned when a schema violates one of the
// structural invariants of the data model.
type InvalidSchemaError = schema.InvalidSchemaError

// MalformedError signals truncated or otherwise invalid wire bytes.
type MalformedError = codec.MalformedError

// TypeMismatchError signals a JSON value that doesn't match the shape its
// schema requires.
type TypeMismatchError = jsoncodec.TypeMismatchError

// UnknownFieldError signals a JSON object field with no counterpart in the
// record schema.
type UnknownFieldError = jsoncodec.UnknownFieldError

// UnionBranchError signals a JSON union value that doesn't unambiguously
// select one branch.
type UnionBranchError = jsoncodec.UnionBranchError

// MissingFieldError signals a record field absent from input with no
// declared default to fall back to.
type MissingFieldError = jsoncodec.MissingFieldError

// ResolutionMismatchError signals a writer and reader schema that cannot be
// reconciled (incompatible types, no promotion path).
type ResolutionMismatchError = resolution.MismatchError

// ConversionError signals a logical type conversion that failed against its
// declared base type.
type ConversionError = logical.ConversionError

// CapacityError signals a length or block-count prefix read from binary
// input that exceeds the configured allocation ceiling (datum.Model's
// maxAlloc, set via datum.WithMaxAllocation), rejecting the value before it
// is trusted to size an allocation or drive a decode loop.
type CapacityError = codec.CapacityError
