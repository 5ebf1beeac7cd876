package logical

import (
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirovets/avro/pkg/schema"
)

func TestRegistry_DefaultsRegistersEveryBuiltin(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"date", "timestamp-millis", "timestamp-micros", "decimal", "big-integer", "uuid", "instant", "any_temporal", "any"} {
		_, ok := r.Lookup(name)
		assert.True(t, ok, "expected %s to be registered", name)
	}
}

func TestRegistry_RemoveDropsConversion(t *testing.T) {
	r := NewRegistry()
	r.Remove("uuid")

	_, ok := r.Lookup("uuid")
	assert.False(t, ok)
}

func TestDateConversion_RoundTrip(t *testing.T) {
	c := DateConversion{}
	props := schema.NewProperties(nil)

	wire, err := c.ToWire(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), props)
	require.NoError(t, err)

	back, err := c.FromWire(wire, props)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), back)
}

func TestTimestampMillisConversion_RoundTrip(t *testing.T) {
	c := TimestampMillisConversion{}
	props := schema.NewProperties(nil)
	orig := time.Date(2024, 3, 15, 12, 30, 45, 123000000, time.UTC)

	wire, err := c.ToWire(orig, props)
	require.NoError(t, err)
	assert.Equal(t, int64(1710505845123), wire)

	back, err := c.FromWire(wire, props)
	require.NoError(t, err)
	assert.True(t, orig.Equal(back.(time.Time)))
}

func TestDecimalConversion_RoundTrip(t *testing.T) {
	c := DecimalConversion{}
	props := schema.NewProperties(map[string]interface{}{"scale": 2})
	d := decimal.RequireFromString("123.45")

	wire, err := c.ToWire(d, props)
	require.NoError(t, err)

	back, err := c.FromWire(wire, props)
	require.NoError(t, err)
	assert.True(t, d.Equal(back.(decimal.Decimal)))
}

func TestDecimalConversion_NegativeRoundTrip(t *testing.T) {
	c := DecimalConversion{}
	props := schema.NewProperties(map[string]interface{}{"scale": 2})
	d := decimal.RequireFromString("-9.99")

	wire, err := c.ToWire(d, props)
	require.NoError(t, err)

	back, err := c.FromWire(wire, props)
	require.NoError(t, err)
	assert.True(t, d.Equal(back.(decimal.Decimal)))
}

func TestBigIntegerConversion_RoundTrip(t *testing.T) {
	c := BigIntegerConversion{}
	props := schema.NewProperties(nil)
	n, _ := new(big.Int).SetString("-123456789012345678901234567890", 10)

	wire, err := c.ToWire(n, props)
	require.NoError(t, err)

	back, err := c.FromWire(wire, props)
	require.NoError(t, err)
	assert.Equal(t, 0, n.Cmp(back.(*big.Int)))
}

func TestUUIDConversion_RoundTrip(t *testing.T) {
	c := UUIDConversion{}
	props := schema.NewProperties(nil)
	id := uuid.New()

	wire, err := c.ToWire(id, props)
	require.NoError(t, err)

	back, err := c.FromWire(wire, props)
	require.NoError(t, err)
	assert.Equal(t, id, back)
}

func TestUUIDConversion_InvalidStringErrors(t *testing.T) {
	c := UUIDConversion{}
	_, err := c.FromWire("not-a-uuid", schema.NewProperties(nil))
	assert.Error(t, err)
}

func TestInstantConversion_MillisShape(t *testing.T) {
	c := InstantConversion{}
	props := schema.NewProperties(nil)
	orig := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	wire, err := c.ToWire(orig, props)
	require.NoError(t, err)
	assert.IsType(t, int64(0), wire)

	back, err := c.FromWire(wire, props)
	require.NoError(t, err)
	assert.True(t, orig.Equal(back.(time.Time)))
}

func TestInstantConversion_RecordShape(t *testing.T) {
	c := InstantConversion{}
	props := schema.NewProperties(map[string]interface{}{"baseShape": "record"})
	orig := time.Unix(1700000000, 500).UTC()

	wire, err := c.ToWire(orig, props)
	require.NoError(t, err)

	back, err := c.FromWire(wire, props)
	require.NoError(t, err)
	assert.True(t, orig.Equal(back.(time.Time)))
}

func TestAnyConversion_RoundTrip(t *testing.T) {
	c := AnyConversion{}
	props := schema.NewProperties(nil)
	val := Any{Schema: `"string"`, Content: []byte{0x02, 'h', 'i'}}

	wire, err := c.ToWire(val, props)
	require.NoError(t, err)

	back, err := c.FromWire(wire, props)
	require.NoError(t, err)
	assert.Equal(t, val, back)
}
