package resolution

import "github.com/kirovets/avro/pkg/schema"

// promotable holds the primitive widening table allowed when writer and
// reader primitive types differ: int can be read as long, float, or
// double; long as float or double; float as double; string and bytes may
// be read as each other.
var promotable = map[schema.Type]map[schema.Type]bool{
	schema.Int: {
		schema.Long:   true,
		schema.Float:  true,
		schema.Double: true,
	},
	schema.Long: {
		schema.Float:  true,
		schema.Double: true,
	},
	schema.Float: {
		schema.Double: true,
	},
	schema.String: {
		schema.Bytes: true,
	},
	schema.Bytes: {
		schema.String: true,
	},
}

// canPromote reports whether a writer value of type from can be read as
// type to, either because they are the same primitive or a promotion is
// permitted.
func canPromote(from, to schema.Type) bool {
	if from == to {
		return true
	}
	return promotable[from][to]
}

// CanPromote is the exported form of canPromote, used by callers outside
// this package (pkg/datum's JSON resolving reader) that need the same
// widening rule without duplicating the promotion table.
func CanPromote(from, to schema.Type) bool {
	return canPromote(from, to)
}
