// Package avro implements Apache Avro schema parsing, binary and JSON
// encoding, schema resolution, and logical type conversions, plus a
// Confluent Schema Registry client under pkg/registry for Kafka-style
// wire framing.
//
// The subpackages do the work: pkg/schema parses and represents schemas,
// pkg/codec and pkg/jsoncodec encode the binary and JSON leaf formats,
// pkg/grammar compiles schemas into symbol grammars and pkg/parser drives
// the plain (writer equals reader) grammar during binary reads and writes,
// pkg/resolution builds the promotion/remapping plan between a writer and
// reader schema, pkg/logical implements the standard logical type
// conversions, and pkg/datum ties all of it together into a schema-directed
// reader/writer pair. This package re-exports the pieces most callers need
// without importing half a dozen subpackages for a Marshal/Unmarshal call.
package avro
