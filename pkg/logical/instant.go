package logical

import (
	"time"

	"github.com/kirovets/avro/pkg/schema"
)

// InstantConversion implements the "instant" logical type, which allows
// three different base shapes: a long of milliseconds since the epoch, a
// string parsed with a schema-declared "format" property (default
// time.RFC3339Nano), or a two-field {seconds, nanos} record. All three
// expose the same time.Time value.
type InstantConversion struct{}

func (InstantConversion) LogicalTypeName() string { return "instant" }

func (InstantConversion) FromWire(base interface{}, props *schema.Properties) (interface{}, error) {
	switch v := base.(type) {
	case int64:
		return time.UnixMilli(v).UTC(), nil
	case string:
		format := instantFormat(props)
		t, err := time.Parse(format, v)
		if err != nil {
			return nil, &ConversionError{LogicalType: "instant", Reason: err.Error()}
		}
		return t.UTC(), nil
	case map[string]interface{}:
		seconds, secOK := asInt64(v["seconds"])
		nanos, nanoOK := asInt64(v["nanos"])
		if !secOK || !nanoOK {
			return nil, &ConversionError{LogicalType: "instant", Reason: "record shape missing seconds/nanos"}
		}
		return time.Unix(seconds, nanos).UTC(), nil
	default:
		return nil, &ConversionError{LogicalType: "instant", Reason: "unsupported base shape"}
	}
}

func (InstantConversion) ToWire(value interface{}, props *schema.Properties) (interface{}, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, &ConversionError{LogicalType: "instant", Reason: "value is not time.Time"}
	}
	shape := props.GetString("baseShape")
	switch shape {
	case "string":
		return t.UTC().Format(instantFormat(props)), nil
	case "record":
		return map[string]interface{}{"seconds": t.Unix(), "nanos": int64(t.Nanosecond())}, nil
	default:
		return t.UnixMilli(), nil
	}
}

func instantFormat(props *schema.Properties) string {
	if format := props.GetString("format"); format != "" {
		return format
	}
	return time.RFC3339Nano
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
