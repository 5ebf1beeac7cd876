package schema

import "fmt"

// UnresolvedSchemaError is returned when a named-type reference cannot be
// linked within its parse scope.
type UnresolvedSchemaError struct {
	Name string
}

func (e *UnresolvedSchemaError) Error() string {
	return fmt.Sprintf("avro: unresolved schema reference %q", e.Name)
}

// InvalidSchemaError is returned when a schema violates one of the
// structural invariants of the data model (union shape, duplicate names,
// default incompatible with the first union branch, and similar).
type InvalidSchemaError struct {
	Reason string
}

func (e *InvalidSchemaError) Error() string {
	return "avro: invalid schema: " + e.Reason
}
