package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

var primitiveTypes = map[string]Type{
	"null": Null, "boolean": Boolean, "int": Int, "long": Long,
	"float": Float, "double": Double, "bytes": Bytes, "string": String,
}

// parseScope holds the named-type registry for one Parse call. Named types
// declared anywhere in the schema text are visible to every other node in
// the same scope.
type parseScope struct {
	names map[string]Schema
}

// Parse decodes Avro schema JSON text into the typed AST.
func Parse(text string) (Schema, error) {
	var raw interface{}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("avro: invalid schema JSON: %w", err)
	}
	scope := &parseScope{names: make(map[string]Schema)}
	return scope.parse(raw, "")
}

// MustParse is Parse but panics on error, for schema literals known to be
// valid at compile time (test fixtures, package-level constants).
func MustParse(text string) Schema {
	s, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}

func resolveName(name, namespace string) (string, string) {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name, name[:idx]
	}
	return FullName(namespace, name), namespace
}

func (c *parseScope) parse(raw interface{}, enclosingNamespace string) (Schema, error) {
	switch v := raw.(type) {
	case string:
		return c.parseNameOrPrimitive(v, enclosingNamespace)
	case []interface{}:
		return c.parseUnion(v, enclosingNamespace)
	case map[string]interface{}:
		return c.parseObject(v, enclosingNamespace)
	default:
		return nil, &InvalidSchemaError{Reason: fmt.Sprintf("unexpected schema node %T", raw)}
	}
}

func (c *parseScope) parseNameOrPrimitive(name, enclosingNamespace string) (Schema, error) {
	if t, ok := primitiveTypes[name]; ok {
		return NewPrimitiveSchema(t, nil), nil
	}
	full, _ := resolveName(name, enclosingNamespace)
	if s, ok := c.names[full]; ok {
		return s, nil
	}
	if s, ok := c.names[name]; ok {
		return s, nil
	}
	return nil, &UnresolvedSchemaError{Name: name}
}

func (c *parseScope) parseUnion(items []interface{}, enclosingNamespace string) (Schema, error) {
	branches := make([]Schema, 0, len(items))
	seenPrimitive := map[Type]bool{}
	seenNamed := map[string]bool{}
	for _, item := range items {
		branch, err := c.parse(item, enclosingNamespace)
		if err != nil {
			return nil, err
		}
		if branch.Type() == Union {
			return nil, &InvalidSchemaError{Reason: "union may not immediately contain another union"}
		}
		if named, ok := branch.(NamedSchema); ok {
			if seenNamed[named.FullName()] {
				return nil, &InvalidSchemaError{Reason: "union contains duplicate named branch " + named.FullName()}
			}
			seenNamed[named.FullName()] = true
		} else {
			if seenPrimitive[branch.Type()] {
				return nil, &InvalidSchemaError{Reason: "union contains duplicate branch type " + string(branch.Type())}
			}
			seenPrimitive[branch.Type()] = true
		}
		branches = append(branches, branch)
	}
	return NewUnionSchema(branches), nil
}

func (c *parseScope) parseObject(obj map[string]interface{}, enclosingNamespace string) (Schema, error) {
	rawType, ok := obj["type"]
	if !ok {
		return nil, &InvalidSchemaError{Reason: "object schema missing \"type\""}
	}

	// {"type": [...]} shorthand for a union wrapped in an object; not part of
	// the Avro spec proper but tolerated the way Java Avro's JsonSchemaParser
	// is lenient about it.
	if arr, isArr := rawType.([]interface{}); isArr {
		return c.parseUnion(arr, enclosingNamespace)
	}

	typeName, ok := rawType.(string)
	if !ok {
		return nil, &InvalidSchemaError{Reason: "\"type\" must be a string"}
	}

	props := NewProperties(obj)

	var built Schema
	var err error
	switch typeName {
	case "fixed":
		built, err = c.parseFixed(obj, enclosingNamespace, props)
	case "enum":
		built, err = c.parseEnum(obj, enclosingNamespace, props)
	case "array":
		built, err = c.parseArray(obj, enclosingNamespace, props)
	case "map":
		built, err = c.parseMap(obj, enclosingNamespace, props)
	case "record", "error":
		built, err = c.parseRecord(obj, enclosingNamespace, typeName == "error", props)
	default:
		if prim, ok := primitiveTypes[typeName]; ok {
			built = NewPrimitiveSchema(prim, props)
		} else {
			// Named-type reference written in object form, e.g. {"type": "Foo"}.
			return c.parseNameOrPrimitive(typeName, enclosingNamespace)
		}
	}
	if err != nil {
		return nil, err
	}

	if lt, ok := obj["logicalType"].(string); ok {
		built.SetLogical(&LogicalType{Name: lt, Props: props})
	}
	return built, nil
}

func stringsFrom(raw interface{}) []string {
	arr, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func namespaceOf(obj map[string]interface{}, enclosing string) string {
	if ns, ok := obj["namespace"].(string); ok {
		return ns
	}
	name, _ := obj["name"].(string)
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[:idx]
	}
	return enclosing
}

func simpleName(obj map[string]interface{}) (string, error) {
	name, ok := obj["name"].(string)
	if !ok || name == "" {
		return "", &InvalidSchemaError{Reason: "named type missing \"name\""}
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:], nil
	}
	return name, nil
}

func (c *parseScope) register(full string, s Schema) error {
	if _, exists := c.names[full]; exists {
		return &InvalidSchemaError{Reason: "duplicate named type " + full}
	}
	c.names[full] = s
	return nil
}

func (c *parseScope) parseFixed(obj map[string]interface{}, enclosing string, props *Properties) (Schema, error) {
	name, err := simpleName(obj)
	if err != nil {
		return nil, err
	}
	ns := namespaceOf(obj, enclosing)
	size, ok := obj["size"].(float64)
	if !ok {
		return nil, &InvalidSchemaError{Reason: "fixed type missing \"size\""}
	}
	aliases := stringsFrom(obj["aliases"])
	s := NewFixedSchema(name, ns, int(size), aliases, props)
	if err := c.register(s.FullName(), s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *parseScope) parseEnum(obj map[string]interface{}, enclosing string, props *Properties) (Schema, error) {
	name, err := simpleName(obj)
	if err != nil {
		return nil, err
	}
	ns := namespaceOf(obj, enclosing)
	symbols := stringsFrom(obj["symbols"])
	aliases := stringsFrom(obj["aliases"])
	def, hasDefault := obj["default"].(string)
	s := NewEnumSchema(name, ns, symbols, aliases, def, hasDefault, props)
	if hasDefault && s.IndexOf(def) < 0 {
		return nil, &InvalidSchemaError{Reason: "enum default " + def + " is not a member of its symbols"}
	}
	if err := c.register(s.FullName(), s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *parseScope) parseArray(obj map[string]interface{}, enclosing string, props *Properties) (Schema, error) {
	items, err := c.parse(obj["items"], enclosing)
	if err != nil {
		return nil, err
	}
	return NewArraySchema(items, props), nil
}

func (c *parseScope) parseMap(obj map[string]interface{}, enclosing string, props *Properties) (Schema, error) {
	values, err := c.parse(obj["values"], enclosing)
	if err != nil {
		return nil, err
	}
	return NewMapSchema(values, props), nil
}

func (c *parseScope) parseRecord(obj map[string]interface{}, enclosing string, isError bool, props *Properties) (Schema, error) {
	name, err := simpleName(obj)
	if err != nil {
		return nil, err
	}
	ns := namespaceOf(obj, enclosing)
	aliases := stringsFrom(obj["aliases"])

	rec := NewRecordSchema(name, ns, aliases, isError, props)
	// Register before parsing fields so a field type may refer back to this
	// record.
	if err := c.register(rec.FullName(), rec); err != nil {
		return nil, err
	}

	rawFields, _ := obj["fields"].([]interface{})
	fields := make([]*Field, 0, len(rawFields))
	seen := map[string]bool{}
	for i, rf := range rawFields {
		fobj, ok := rf.(map[string]interface{})
		if !ok {
			return nil, &InvalidSchemaError{Reason: "record field must be an object"}
		}
		fname, ok := fobj["name"].(string)
		if !ok || fname == "" {
			return nil, &InvalidSchemaError{Reason: "record field missing \"name\""}
		}
		if seen[fname] {
			return nil, &InvalidSchemaError{Reason: "duplicate field name " + fname + " in " + rec.FullName()}
		}
		seen[fname] = true

		fschema, err := c.parse(fobj["type"], ns)
		if err != nil {
			return nil, err
		}

		field := &Field{
			Name:     fname,
			Schema:   fschema,
			Order:    OrderAscending,
			Aliases:  stringsFrom(fobj["aliases"]),
			Props:    NewProperties(fobj),
			Position: i,
		}
		if order, ok := fobj["order"].(string); ok {
			field.Order = Order(order)
		}
		if def, ok := fobj["default"]; ok {
			if err := checkDefaultCompatible(fschema, def); err != nil {
				return nil, fmt.Errorf("field %s: %w", fname, err)
			}
			field.Default = def
			field.HasDefault = true
		}
		fields = append(fields, field)
	}
	rec.SetFields(fields)
	return rec, nil
}

// checkDefaultCompatible enforces that a field default must be
// JSON-compatible with the field schema's first branch (for a union
// field) or the field schema itself.
func checkDefaultCompatible(s Schema, def interface{}) error {
	target := s
	if u, ok := s.(*UnionSchema); ok {
		if len(u.Types()) == 0 {
			return &InvalidSchemaError{Reason: "union has no branches to default against"}
		}
		target = u.Types()[0]
	}
	switch target.Type() {
	case Null:
		if def != nil {
			return &InvalidSchemaError{Reason: "default for null field must be JSON null"}
		}
	case Boolean:
		if _, ok := def.(bool); !ok {
			return &InvalidSchemaError{Reason: "default for boolean field must be a JSON boolean"}
		}
	case Int, Long, Float, Double:
		if _, ok := def.(float64); !ok {
			return &InvalidSchemaError{Reason: "default for numeric field must be a JSON number"}
		}
	case String, Bytes, Enum, Fixed:
		if _, ok := def.(string); !ok {
			return &InvalidSchemaError{Reason: "default must be a JSON string"}
		}
	case Array:
		if _, ok := def.([]interface{}); !ok {
			return &InvalidSchemaError{Reason: "default for array field must be a JSON array"}
		}
	case Map, Record:
		if _, ok := def.(map[string]interface{}); !ok {
			return &InvalidSchemaError{Reason: "default must be a JSON object"}
		}
	}
	return nil
}
