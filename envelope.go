package bplist00

import "bytes"

// Envelope sizes, per spec.md §3: an 8-byte header (6-byte magic + 2-byte
// version) and a 32-byte trailer.
const (
	headerSize  = 8
	trailerSize = 32
)

var magic = [6]byte{'b', 'p', 'l', 'i', 's', 't'}

// ParsedMetadata is the result of validating a document's envelope: the
// resolved offset table, the object reference width, the root object id,
// and the object table's byte range. It supplements spec.md's metadata(input)
// operation (§4.1) as an independently callable, independently testable
// step, mirroring the split the original Rust source keeps between its
// Document wrapper and the act of walking it (see SPEC_FULL.md §12).
type ParsedMetadata struct {
	Offsets             []uint64
	ObjectReferenceSize int
	RootObject          uint64
	ObjectTableRangeLo  uint64
	ObjectTableRangeHi  uint64 // exclusive; equal to offset_table_offset
}

// NumberOfObjects returns the number of objects addressed by the offset
// table.
func (m *ParsedMetadata) NumberOfObjects() uint64 { return uint64(len(m.Offsets)) }

func parseHeader(doc []byte) {
	if !bytes.Equal(doc[:6], magic[:]) {
		fail(ErrMissingOrInvalidHeader, "missing bplist magic in first 6 bytes")
	}
	if doc[6] != '0' || doc[7] != '0' {
		fail(ErrUnsupportedVersion, "unsupported bplist version %q", doc[6:8])
	}
}

type trailer struct {
	sortVersion          uint8
	offsetTableEntrySize uint8
	objectReferenceSize  uint8
	numberOfObjects      uint64
	rootObject           uint64
	offsetTableOffset    uint64
}

// parseTrailer extracts the 32-byte trailer from the end of doc. It performs
// no semantic checks beyond field extraction and int-size range validation,
// matching spec.md §4.1's "trailer" operation.
func parseTrailer(doc []byte) trailer {
	t := doc[len(doc)-trailerSize:]
	// t[0:5] is unused padding.
	tr := trailer{
		sortVersion:          t[5],
		offsetTableEntrySize: t[6],
		objectReferenceSize:  t[7],
		numberOfObjects:      beUint(t[8:16], 8),
		rootObject:           beUint(t[16:24], 8),
		offsetTableOffset:    beUint(t[24:32], 8),
	}
	if tr.offsetTableEntrySize < 1 || tr.offsetTableEntrySize > 8 {
		fail(ErrMissingOrInvalidTrailer, "offset_table_entry_size %d out of [1,8]", tr.offsetTableEntrySize)
	}
	if tr.objectReferenceSize < 1 || tr.objectReferenceSize > 8 {
		fail(ErrMissingOrInvalidTrailer, "object_reference_size %d out of [1,8]", tr.objectReferenceSize)
	}
	return tr
}

// ParseMetadata runs the §4.1 metadata(input) pipeline: it requires a
// minimum envelope length, parses and validates the header and trailer,
// checks the root object index, confirms the offset table fits between the
// header and the trailer, and decodes the offset table itself.
func ParseMetadata(doc []byte) *ParsedMetadata {
	if len(doc) < headerSize+2+trailerSize {
		fail(ErrEof, "input too short for a bplist00 envelope (%d bytes)", len(doc))
	}

	parseHeader(doc[:headerSize])
	trailerOffset := uint64(len(doc) - trailerSize)
	tr := parseTrailer(doc)

	if tr.rootObject >= tr.numberOfObjects {
		fail(ErrInvalidRootObject, "root object %d out of range (%d objects)", tr.rootObject, tr.numberOfObjects)
	}

	if tr.offsetTableOffset < headerSize {
		fail(ErrMissingOrInvalidOffsetTable, "offset table at 0x%x begins inside the header", tr.offsetTableOffset)
	}

	need := tr.numberOfObjects * uint64(tr.offsetTableEntrySize)
	if tr.offsetTableOffset+need > trailerOffset {
		fail(ErrMissingOrInvalidOffsetTable,
			"offset table (%d entries of %d bytes at 0x%x) does not fit before the trailer at 0x%x",
			tr.numberOfObjects, tr.offsetTableEntrySize, tr.offsetTableOffset, trailerOffset)
	}

	entrySize := int(tr.offsetTableEntrySize)
	table := doc[tr.offsetTableOffset : tr.offsetTableOffset+need]
	offsets := make([]uint64, tr.numberOfObjects)
	for i := range offsets {
		start := i * entrySize
		offsets[i] = beUint(table[start:start+entrySize], entrySize)
	}

	return &ParsedMetadata{
		Offsets:             offsets,
		ObjectReferenceSize: int(tr.objectReferenceSize),
		RootObject:          tr.rootObject,
		ObjectTableRangeLo:  headerSize,
		ObjectTableRangeHi:  tr.offsetTableOffset,
	}
}
