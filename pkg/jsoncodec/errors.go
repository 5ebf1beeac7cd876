package jsoncodec

// TypeMismatchError reports a JSON value whose shape does not match the
// schema being decoded against.
type TypeMismatchError struct {
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return "jsoncodec: expected " + e.Expected + ", got " + e.Got
}

// UnknownFieldError reports a JSON object key with no matching record
// field, raised only when the decoder runs in strict mode.
type UnknownFieldError struct {
	Record string
	Field  string
}

func (e *UnknownFieldError) Error() string {
	return "jsoncodec: unknown field " + e.Field + " for record " + e.Record
}

// UnionBranchError reports a union value whose JSON tag does not name any
// branch of the union schema.
type UnionBranchError struct {
	Reason string
}

func (e *UnionBranchError) Error() string {
	return "jsoncodec: union branch error: " + e.Reason
}

// MissingFieldError reports a record field with no JSON value and no
// schema default.
type MissingFieldError struct {
	Record string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return "jsoncodec: missing field " + e.Field + " for record " + e.Record
}
