// Package cf implements the generic typed value tree bplist00 documents
// decode into: a tagged sum with one variant per spec.md §3 wire kind, plus
// the two pseudo-struct escape hatches (Date, Uid) that have no native
// representation in the host materialization contract.
//
// The name follows the teacher library's convention of naming this package
// after CoreFoundation, whose CFBinaryPList.c is the format's reference
// implementation and whose CFAbsoluteTime epoch Date values use.
package cf

// Kind identifies which variant of the typed value tree a Value holds.
type Kind int

const (
	Invalid Kind = iota
	BooleanKind
	IntegerKind
	RealKind
	DataKind
	DateKind
	UidKind
	StringKind
	ArrayKind
	DictionaryKind
	// UnitKind is not one of spec.md §3's named variants: it exists so the
	// rarely-seen Fill wire kind has somewhere to go without being
	// silently dropped from the tree.
	UnitKind
)

var kindNames = [...]string{
	Invalid:        "invalid",
	BooleanKind:    "boolean",
	IntegerKind:    "integer",
	RealKind:       "real",
	DataKind:       "data",
	DateKind:       "date",
	UidKind:        "uid",
	StringKind:     "string",
	ArrayKind:      "array",
	DictionaryKind: "dictionary",
	UnitKind:       "unit",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is the interface every typed-tree node implements.
type Value interface {
	Kind() Kind
}

// Boolean is a decoded Boolean object.
type Boolean bool

func (Boolean) Kind() Kind { return BooleanKind }

// Integer is a decoded UInt8/16/32 or SInt64 object, widened to int64.
type Integer int64

func (Integer) Kind() Kind { return IntegerKind }

// Real is a decoded Float32 or Float64 object, widened to float64.
type Real float64

func (Real) Kind() Kind { return RealKind }

// Data is a decoded Data object. It may be a zero-copy borrow of the
// decoder's input buffer.
type Data []byte

func (Data) Kind() Kind { return DataKind }

// Date wraps a decoded Date object's CFAbsoluteTime payload: seconds since
// 2001-01-01T00:00:00Z. This package does not interpret it further — no
// locale- or time-zone-aware handling is performed (spec.md Non-goals).
type Date float64

func (Date) Kind() Kind { return DateKind }

// Uid is a decoded Uid object's opaque payload (1-16 bytes). This package
// does not interpret it as an NSKeyedArchiver back-reference.
type Uid []byte

func (Uid) Kind() Kind { return UidKind }

// String is a decoded ASCII or UTF-16 string object.
type String string

func (String) Kind() Kind { return StringKind }

// Array is a decoded Array object: an ordered sequence of values.
type Array []Value

func (Array) Kind() Kind { return ArrayKind }

// Unit is emitted for the Fill wire kind, which carries no payload.
type Unit struct{}

func (Unit) Kind() Kind { return UnitKind }
