package logical

import (
	"time"

	"github.com/kirovets/avro/pkg/schema"
)

// AnyTemporalConversion implements "any_temporal": a permissive logical
// type that normalizes whatever temporal shape the base value takes (int
// days, long millis/micros, ISO string, or {seconds,nanos} record) into a
// single time.Time, for schemas that accept any of the narrower temporal
// logical types interchangeably.
type AnyTemporalConversion struct{}

func (AnyTemporalConversion) LogicalTypeName() string { return "any_temporal" }

func (AnyTemporalConversion) FromWire(base interface{}, props *schema.Properties) (interface{}, error) {
	switch v := base.(type) {
	case int32:
		return time.Unix(0, 0).UTC().AddDate(0, 0, int(v)), nil
	case int64:
		unit := props.GetString("unit")
		if unit == "micros" {
			return time.UnixMicro(v).UTC(), nil
		}
		return time.UnixMilli(v).UTC(), nil
	case string, map[string]interface{}:
		return InstantConversion{}.FromWire(v, props)
	default:
		return nil, &ConversionError{LogicalType: "any_temporal", Reason: "unsupported base shape"}
	}
}

func (AnyTemporalConversion) ToWire(value interface{}, props *schema.Properties) (interface{}, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, &ConversionError{LogicalType: "any_temporal", Reason: "value is not time.Time"}
	}
	unit := props.GetString("unit")
	switch unit {
	case "days":
		return DateConversion{}.ToWire(t, props)
	case "micros":
		return t.UnixMicro(), nil
	default:
		return t.UnixMilli(), nil
	}
}
