package datum

import (
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kirovets/avro/pkg/logical"
	"github.com/kirovets/avro/pkg/schema"
)

// findWriteBranch picks the union branch a domain value should be written
// as. Logical-typed branches are matched by the domain value's Go type
// (time.Time, decimal.Decimal, *big.Int, uuid.UUID, logical.Any); plain
// branches are matched by Avro's native Go shape (primitives by kind,
// records/maps by map[string]interface{}, arrays by []interface{},
// bytes/fixed by []byte). The first declared branch that matches wins.
// Conversion to the branch's wire shape happens once the branch is
// chosen, inside the normal write recursion, not here.
func findWriteBranch(value interface{}, u *schema.UnionSchema) (schema.Schema, bool) {
	for _, branch := range u.Types() {
		if lt := branch.Logical(); lt != nil {
			if domainMatchesLogical(value, lt.Name) {
				return branch, true
			}
			continue
		}
		if writeBranchMatches(value, branch) {
			return branch, true
		}
	}
	return nil, false
}

func domainMatchesLogical(value interface{}, name string) bool {
	switch value.(type) {
	case time.Time:
		switch name {
		case "date", "timestamp-millis", "timestamp-micros", "instant", "any_temporal":
			return true
		}
	case decimal.Decimal:
		return name == "decimal"
	case *big.Int:
		return name == "big-integer"
	case uuid.UUID:
		return name == "uuid"
	case logical.Any:
		return name == "any"
	}
	return false
}

func writeBranchMatches(value interface{}, branch schema.Schema) bool {
	switch branch.Type() {
	case schema.Boolean:
		_, ok := value.(bool)
		return ok
	case schema.Int, schema.Long, schema.Float, schema.Double:
		switch value.(type) {
		case int32, int64, float32, float64, int:
			return true
		default:
			return false
		}
	case schema.String, schema.Enum:
		_, ok := value.(string)
		return ok
	case schema.Bytes, schema.Fixed:
		_, ok := value.([]byte)
		return ok
	case schema.Array:
		_, ok := value.([]interface{})
		return ok
	case schema.Map, schema.Record:
		_, ok := value.(map[string]interface{})
		return ok
	default:
		return false
	}
}
