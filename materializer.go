package bplist00

// Materializer receives decode events from the tree walker in document
// traversal order (depth-first, left-to-right) and builds a host-side
// representation of the document. It is the adapter spec.md §4.5 calls the
// materialization bridge: the same event stream can build the generic typed
// value tree (see package cf's TreeBuilder) or drive any other
// schema-aware consumer.
//
// Date and UID have no dedicated callback. The walker instead represents
// each as a one-field "pseudo-struct": BeginStruct with the magic struct
// name, then BeginMap(1), Identifier(the magic field name), the payload
// value, EndMap, EndStruct. A Materializer that wants a native Date/UID
// type recognizes that exact shape; one that doesn't just sees an ordinary
// one-entry map (spec.md §3, §9).
type Materializer interface {
	Bool(v bool) error
	Int64(v int64) error
	Float32(v float32) error
	Float64(v float64) error

	// BorrowedString is used for ASCII strings, which can be represented
	// as zero-copy views of the input. OwnedString is used for UTF-16
	// strings, which require re-encoding and so are never borrowed.
	BorrowedString(v string) error
	OwnedString(v string) error

	// BorrowedBytes is used for Data and UID payloads, both of which can
	// be represented as zero-copy views of the input.
	BorrowedBytes(v []byte) error

	// Unit is emitted for the Fill wire kind, which carries no payload.
	Unit() error

	BeginSequence(n int) error
	EndSequence() error

	BeginMap(n int) error
	// Identifier emits a synthetic map key that did not come from decoding
	// a wire object — currently only used for the Date/UID pseudo-struct
	// protocol's single field name.
	Identifier(name string) error
	EndMap() error

	BeginStruct(name string, fields []string) error
	EndStruct() error
}

// magic field names for the Date/UID pseudo-struct protocol (spec.md §3,
// §6). These strings appear nowhere in a bplist00 document; they are an
// in-memory protocol between the walker and a Materializer.
const (
	DateStructName = "$__bplist_private_Date"
	DateFieldName  = "$__bplist_private_Date_absolute_time"
	UidStructName  = "$__bplist_private_Uid"
	UidFieldName   = "$__bplist_private_Uid_data"
)
