package resolution

import "github.com/kirovets/avro/pkg/schema"

// PromotionData marks a primitive leaf of the resolving tree: the writer
// wrote WriterType on the wire, and the datum layer must read it as
// WriterType then widen it to ReaderType. WriterType
// equals ReaderType for the common exact-match case.
type PromotionData struct {
	WriterType schema.Type
	ReaderType schema.Type
}

// FixedMatchData marks a fixed leaf: writer and reader fixed schemas must
// share full name and size for resolution to have succeeded at all, so
// only the size is needed to drive the read.
type FixedMatchData struct {
	Size int
}
