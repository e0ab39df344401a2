package bplist00

import "fmt"

// ErrorKind identifies one member of the closed set of ways a bplist00
// decode can fail. Every decode failure is fatal to that decode; none are
// recovered internally.
type ErrorKind int

const (
	_ ErrorKind = iota

	// ErrEof means the input was shorter than the minimum possible
	// envelope (8-byte header + 2 bytes + 32-byte trailer).
	ErrEof

	// ErrMissingOrInvalidHeader means the 6-byte "bplist" magic was absent.
	ErrMissingOrInvalidHeader
	// ErrUnsupportedVersion means the header's version bytes were not "00".
	ErrUnsupportedVersion
	// ErrMissingOrInvalidTrailer means the 32-byte trailer could not be
	// extracted, or its int-size fields are out of their [1,8] range.
	ErrMissingOrInvalidTrailer
	// ErrMissingOrInvalidOffsetTable means the offset table does not fit
	// between the header and the trailer.
	ErrMissingOrInvalidOffsetTable

	// ErrInvalidRootObject means the trailer's root object id is not a
	// valid index into the offset table.
	ErrInvalidRootObject
	// ErrRootObjectNotArrayOrDictionary means the root object's wire kind
	// is a primitive; only Array and Dictionary roots are exposed.
	ErrRootObjectNotArrayOrDictionary

	// ErrInvalidObjectReference means an object id is >= number_of_objects.
	ErrInvalidObjectReference
	// ErrInvalidOffsetToObject means an offset-table entry points outside
	// the object table's byte range.
	ErrInvalidOffsetToObject

	// ErrInvalidOrUnsupportedObjectFormat means a marker byte matched none
	// of the known (tag_mask, tag_bits, value_mask) patterns.
	ErrInvalidOrUnsupportedObjectFormat

	// ErrExpectedBoolean, and its siblings below, are raised when a parser
	// for a specific wire kind is invoked against an object of a different
	// kind, or the object's payload is truncated or malformed.
	ErrExpectedBoolean
	ErrExpectedFill
	ErrExpectedUInt
	ErrExpectedSInt64
	ErrExpectedFloat
	ErrExpectedDate
	ErrExpectedData
	ErrExpectedArray
	ErrExpectedAsciiString
	ErrExpectedUtf16String
	ErrExpectedUid
	ErrExpectedDictionary

	// ErrCycleDetected means a collection id was re-entered during
	// traversal, i.e. the object graph rooted at root_object is not
	// acyclic.
	ErrCycleDetected

	// ErrMessage carries an arbitrary error surfaced by a materializer,
	// e.g. a type mismatch against a user schema, or a count that does not
	// fit in a host machine word.
	ErrMessage
)

var errorKindNames = map[ErrorKind]string{
	ErrEof:                              "Eof",
	ErrMissingOrInvalidHeader:           "MissingOrInvalidHeader",
	ErrUnsupportedVersion:               "UnsupportedVersion",
	ErrMissingOrInvalidTrailer:          "MissingOrInvalidTrailer",
	ErrMissingOrInvalidOffsetTable:      "MissingOrInvalidOffsetTable",
	ErrInvalidRootObject:                "InvalidRootObject",
	ErrRootObjectNotArrayOrDictionary:   "RootObjectNotArrayOrDictionary",
	ErrInvalidObjectReference:           "InvalidObjectReference",
	ErrInvalidOffsetToObject:            "InvalidOffsetToObject",
	ErrInvalidOrUnsupportedObjectFormat: "InvalidOrUnsupportedObjectFormat",
	ErrExpectedBoolean:                  "ExpectedBoolean",
	ErrExpectedFill:                     "ExpectedFill",
	ErrExpectedUInt:                     "ExpectedUInt",
	ErrExpectedSInt64:                   "ExpectedSInt64",
	ErrExpectedFloat:                    "ExpectedFloat",
	ErrExpectedDate:                     "ExpectedDate",
	ErrExpectedData:                     "ExpectedData",
	ErrExpectedArray:                    "ExpectedArray",
	ErrExpectedAsciiString:              "ExpectedAsciiString",
	ErrExpectedUtf16String:              "ExpectedUtf16String",
	ErrExpectedUid:                      "ExpectedUid",
	ErrExpectedDictionary:               "ExpectedDictionary",
	ErrCycleDetected:                    "CycleDetected",
	ErrMessage:                          "Message",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the single error type this package returns. It carries a stable
// ErrorKind plus a human-readable description; no error carries the byte
// offset at which it occurred (see spec.md §9, a noted future extension).
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("bplist00: %s", e.Kind)
	}
	return fmt.Sprintf("bplist00: %s: %s", e.Kind, e.Message)
}

// expectedKindError maps a wire Kind to the ErrorKind raised when a parser
// expecting that Kind encounters something else, or a truncated payload.
func expectedKindError(k Kind) ErrorKind {
	switch k {
	case KindBoolean:
		return ErrExpectedBoolean
	case KindFill:
		return ErrExpectedFill
	case KindUint:
		return ErrExpectedUInt
	case KindSint64:
		return ErrExpectedSInt64
	case KindReal:
		return ErrExpectedFloat
	case KindDate:
		return ErrExpectedDate
	case KindData:
		return ErrExpectedData
	case KindArray:
		return ErrExpectedArray
	case KindASCIIString:
		return ErrExpectedAsciiString
	case KindUTF16String:
		return ErrExpectedUtf16String
	case KindUid:
		return ErrExpectedUid
	case KindDictionary:
		return ErrExpectedDictionary
	}
	return ErrMessage
}

// fail panics with a *Error; it unwinds to the recover boundary in
// decodeDocument, mirroring the teacher's bplistParser.parseDocument
// panic/recover idiom so the recursive descent parser doesn't have to
// thread "if err != nil" through every call site.
func fail(kind ErrorKind, format string, args ...interface{}) {
	panic(&Error{Kind: kind, Message: fmt.Sprintf(format, args...)})
}
