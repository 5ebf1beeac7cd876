package jsoncodec

// BytesFromJSONString decodes the Avro JSON convention for bytes/fixed
// values: a string where every code point is a single byte value 0-255
// (not UTF-8, not base64). This is how the reference JSON encoder emits
// bytes, and other implementations occasionally instead emit a JSON
// number for values under a big-integer/decimal logical type — a
// collision this decoder does not attempt to detect or paper over; a
// numeric JSON value against a bytes-based schema is a TypeMismatchError
// here, not a silently-accepted alternate encoding.
func BytesFromJSONString(s string) ([]byte, error) {
	runes := []rune(s)
	b := make([]byte, len(runes))
	for i, r := range runes {
		if r > 0xFF {
			return nil, &TypeMismatchError{Expected: "bytes (latin1 string)", Got: "non-latin1 rune in string"}
		}
		b[i] = byte(r)
	}
	return b, nil
}

// BytesToJSONString is the inverse of BytesFromJSONString.
func BytesToJSONString(b []byte) string {
	runes := make([]rune, len(b))
	for i, v := range b {
		runes[i] = rune(v)
	}
	return string(runes)
}
