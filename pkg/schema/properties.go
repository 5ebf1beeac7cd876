package schema

import (
	"sort"

	"github.com/samber/lo"
)

// reservedKeys are schema-shape keys that are never carried into the open
// property bag, matching the Avro spec's separation between the fixed
// schema shape and the free-form property map attached to it.
var reservedKeys = map[string]bool{
	"type": true, "name": true, "namespace": true, "fields": true,
	"symbols": true, "items": true, "values": true, "size": true,
	"aliases": true, "default": true, "order": true, "doc": true,
	"logicalType": true,
}

// Properties is the open key->JSON property map carried by every schema
// node. Values are the natural Go
// representation of a decoded JSON tree: string, float64, bool, nil,
// []interface{} or map[string]interface{}.
type Properties struct {
	values map[string]interface{}
}

// NewProperties builds a Properties bag from a raw decoded JSON object,
// stripping the schema-shape keys.
func NewProperties(raw map[string]interface{}) *Properties {
	p := &Properties{values: make(map[string]interface{}, len(raw))}
	for k, v := range raw {
		if reservedKeys[k] {
			continue
		}
		p.values[k] = v
	}
	return p
}

// Get returns the raw property value and whether it was present.
func (p *Properties) Get(name string) (interface{}, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[name]
	return v, ok
}

// GetString returns a string-valued property, or "" if absent or not a string.
func (p *Properties) GetString(name string) string {
	v, ok := p.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetInt returns an int-valued property, or 0 if absent or not numeric.
func (p *Properties) GetInt(name string) int {
	v, ok := p.Get(name)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}

// Set installs a property, replacing any existing value under that name.
func (p *Properties) Set(name string, value interface{}) {
	if p.values == nil {
		p.values = make(map[string]interface{})
	}
	p.values[name] = value
}

// Keys returns the property names in sorted order, giving a deterministic
// iteration order over the bag.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	keys := lo.Keys(p.values)
	sort.Strings(keys)
	return keys
}

// Len reports the number of properties in the bag.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.values)
}
