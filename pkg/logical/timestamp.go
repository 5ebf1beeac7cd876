package logical

import (
	"time"

	"github.com/kirovets/avro/pkg/schema"
)

// TimestampMillisConversion implements "timestamp-millis": a long counting
// milliseconds since the Unix epoch (UTC), exposed as time.Time.
type TimestampMillisConversion struct{}

func (TimestampMillisConversion) LogicalTypeName() string { return "timestamp-millis" }

func (TimestampMillisConversion) FromWire(base interface{}, _ *schema.Properties) (interface{}, error) {
	ms, ok := base.(int64)
	if !ok {
		return nil, &ConversionError{LogicalType: "timestamp-millis", Reason: "base value is not int64"}
	}
	return time.UnixMilli(ms).UTC(), nil
}

func (TimestampMillisConversion) ToWire(value interface{}, _ *schema.Properties) (interface{}, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, &ConversionError{LogicalType: "timestamp-millis", Reason: "value is not time.Time"}
	}
	return t.UnixMilli(), nil
}

// TimestampMicrosConversion implements "timestamp-micros": a long counting
// microseconds since the Unix epoch (UTC), exposed as time.Time.
type TimestampMicrosConversion struct{}

func (TimestampMicrosConversion) LogicalTypeName() string { return "timestamp-micros" }

func (TimestampMicrosConversion) FromWire(base interface{}, _ *schema.Properties) (interface{}, error) {
	us, ok := base.(int64)
	if !ok {
		return nil, &ConversionError{LogicalType: "timestamp-micros", Reason: "base value is not int64"}
	}
	return time.UnixMicro(us).UTC(), nil
}

func (TimestampMicrosConversion) ToWire(value interface{}, _ *schema.Properties) (interface{}, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, &ConversionError{LogicalType: "timestamp-micros", Reason: "value is not time.Time"}
	}
	return t.UnixMicro(), nil
}
