package logical

import "github.com/kirovets/avro/pkg/schema"

// Any is the domain value for the "any" logical type: an escape hatch
// letting a schema carry a value whose exact shape isn't known until
// runtime. The wire form is a two-field record, {avsc: string, content:
// bytes}, holding the nested value's own schema text and its Avro-encoded
// bytes. Content always stays raw Avro binary, including on the JSON
// path: DecodeJSON/EncodeJSON round-trip it through the JSONCodec handed
// in at call time (pkg/datum's Reader/Writer) rather than pkg/logical
// importing pkg/datum directly, which would make pkg/datum import its own
// consumer.
type Any struct {
	Schema  string
	Content []byte
}

// AnyConversion implements the "any" logical type.
type AnyConversion struct{}

func (AnyConversion) LogicalTypeName() string { return "any" }

func (AnyConversion) FromWire(base interface{}, _ *schema.Properties) (interface{}, error) {
	rec, ok := base.(map[string]interface{})
	if !ok {
		return nil, &ConversionError{LogicalType: "any", Reason: "base value is not a {avsc,content} record"}
	}
	avsc, ok := rec["avsc"].(string)
	if !ok {
		return nil, &ConversionError{LogicalType: "any", Reason: "missing avsc field"}
	}
	content, ok := rec["content"].([]byte)
	if !ok {
		return nil, &ConversionError{LogicalType: "any", Reason: "missing content field"}
	}
	return Any{Schema: avsc, Content: content}, nil
}

func (AnyConversion) ToWire(value interface{}, _ *schema.Properties) (interface{}, error) {
	a, ok := value.(Any)
	if !ok {
		return nil, &ConversionError{LogicalType: "any", Reason: "value is not logical.Any"}
	}
	return map[string]interface{}{"avsc": a.Schema, "content": a.Content}, nil
}

// DecodeJSON implements DirectJSONCodec: an any's JSON form embeds
// content as an inline JSON value under the schema named by avsc, rather
// than as a Latin-1-mapped bytes string. The nested value is decoded
// against that schema and re-encoded to Avro binary so Any.Content stays
// the same raw-bytes representation FromWire produces.
func (AnyConversion) DecodeJSON(raw interface{}, _ *schema.Properties, codec JSONCodec) (interface{}, error) {
	rec, ok := raw.(map[string]interface{})
	if !ok {
		return nil, &ConversionError{LogicalType: "any", Reason: "JSON form must be a {avsc, content} object"}
	}
	avsc, ok := rec["avsc"].(string)
	if !ok {
		return nil, &ConversionError{LogicalType: "any", Reason: "missing avsc field"}
	}
	contentRaw, present := rec["content"]
	if !present {
		return nil, &ConversionError{LogicalType: "any", Reason: "missing content field"}
	}
	nested, err := schema.Parse(avsc)
	if err != nil {
		return nil, &ConversionError{LogicalType: "any", Reason: "avsc does not parse: " + err.Error()}
	}
	domain, err := codec.DecodeJSONValue(contentRaw, nested)
	if err != nil {
		return nil, err
	}
	content, err := codec.EncodeBinary(domain, nested)
	if err != nil {
		return nil, err
	}
	return Any{Schema: avsc, Content: content}, nil
}

// EncodeJSON is DecodeJSON's inverse: decodes the stored Avro-binary
// content against its own schema and inlines the result as JSON.
func (AnyConversion) EncodeJSON(value interface{}, _ *schema.Properties, codec JSONCodec) (interface{}, error) {
	a, ok := value.(Any)
	if !ok {
		return nil, &ConversionError{LogicalType: "any", Reason: "value is not logical.Any"}
	}
	nested, err := schema.Parse(a.Schema)
	if err != nil {
		return nil, &ConversionError{LogicalType: "any", Reason: "stored avsc does not parse: " + err.Error()}
	}
	domain, err := codec.DecodeBinary(a.Content, nested)
	if err != nil {
		return nil, err
	}
	tree, err := codec.EncodeJSONValue(domain, nested)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"avsc": a.Schema, "content": tree}, nil
}
