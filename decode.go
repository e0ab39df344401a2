package bplist00

import (
	"reflect"

	"github.com/dhowett-plist-labs/bplist00/cf"
)

// FromBytes is the primary entry point: it decodes a complete bplist00
// document held in input and returns the generic typed value tree (package
// cf), or an error. input must remain valid and unmodified for as long as
// any borrowed string or byte slice reachable from the result is in use
// (spec.md §5).
func FromBytes(input []byte) (cf.Value, error) {
	tb := cf.NewTreeBuilder()
	if err := decodeDocument(input, tb); err != nil {
		return nil, err
	}
	return tb.Result()
}

// Decoder decodes a bplist00 document into a user-supplied Go value via
// reflection, the schema-driven materialization surface spec.md §1
// describes alongside the generic typed value tree. It works in two passes:
// FromBytes first materializes the document's typed value tree (which is
// itself built from the single-pass, document-ordered Materializer event
// stream — see package cf's TreeBuilder), and Decode then walks that tree
// with reflect, exactly the way the teacher library's unmarshal.go walks
// its own cf.Value tree. This keeps the ordering contract (materialization
// callbacks fire in document order) intact while giving idiomatic Go
// decode-into-a-struct ergonomics, instead of forcing every caller through
// the push-style Materializer interface.
type Decoder struct {
	input []byte
}

// NewDecoder returns a Decoder that reads a bplist00 document from input.
func NewDecoder(input []byte) *Decoder {
	return &Decoder{input: input}
}

// Decode parses the document and stores the result in the value pointed to
// by v. v must be a non-nil pointer.
//
// Decode follows package cf's Value variants to their natural Go
// counterparts: Boolean to bool, Integer to any integer kind, Real to
// float32/float64, String to string, Data to []byte, Array to a slice or
// array, Dictionary to a map or struct. Date additionally decodes into
// time.Time, and Uid additionally decodes into the Uid type; both also
// decode into any struct with a field tagged with their respective magic
// field name, per spec.md §4.5's pseudo-struct protocol.
func (d *Decoder) Decode(v interface{}) error {
	root, err := FromBytes(d.input)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &Error{Kind: ErrMessage, Message: "Decode requires a non-nil pointer"}
	}
	return unmarshal(root, rv.Elem())
}
