package logical

import (
	"time"

	"github.com/kirovets/avro/pkg/schema"
)

// DateConversion implements the "date" logical type: an int counting days
// since the Unix epoch, exposed as a UTC midnight time.Time.
type DateConversion struct{}

func (DateConversion) LogicalTypeName() string { return "date" }

func (DateConversion) FromWire(base interface{}, _ *schema.Properties) (interface{}, error) {
	days, ok := base.(int32)
	if !ok {
		return nil, &ConversionError{LogicalType: "date", Reason: "base value is not int32"}
	}
	return time.Unix(0, 0).UTC().AddDate(0, 0, int(days)), nil
}

func (DateConversion) ToWire(value interface{}, _ *schema.Properties) (interface{}, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, &ConversionError{LogicalType: "date", Reason: "value is not time.Time"}
	}
	epoch := time.Unix(0, 0).UTC()
	days := int32(t.UTC().Sub(epoch).Hours() / 24)
	return days, nil
}
