package codec

import "fmt"

// MalformedError signals truncated or otherwise invalid wire bytes.
type MalformedError struct {
	Reason string
	Cause  error
}

func (e *MalformedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("avro: malformed data: %s: %v", e.Reason, e.Cause)
	}
	return "avro: malformed data: " + e.Reason
}

func (e *MalformedError) Unwrap() error { return e.Cause }

func malformed(reason string, cause error) error {
	return &MalformedError{Reason: reason, Cause: cause}
}

// CapacityError signals a length or count prefix read from the wire that
// exceeds the reader's configured allocation ceiling: a bytes/string
// length, or an array/map block count, taken directly from an attacker-
// controlled varint before anything has validated it against the data
// actually available.
type CapacityError struct {
	Reason   string
	Declared int64
	Limit    int64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("avro: capacity exceeded: %s: declared %d exceeds limit %d", e.Reason, e.Declared, e.Limit)
}

func capacityExceeded(reason string, declared, limit int64) error {
	return &CapacityError{Reason: reason, Declared: declared, Limit: limit}
}
