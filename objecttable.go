package bplist00

import (
	"math"
	"unicode/utf16"
)

// objectTable is a random-access view over a bplist00 document's object
// table byte range. Every operation is keyed by object id and validates
// offsets and references before trusting them, per spec.md §4.3.
type objectTable struct {
	doc     []byte
	offsets []uint64
	refSize int
	rangeLo uint64
	rangeHi uint64 // exclusive; offset_table_offset
}

func newObjectTable(doc []byte, md *ParsedMetadata) *objectTable {
	return &objectTable{
		doc:     doc,
		offsets: md.Offsets,
		refSize: md.ObjectReferenceSize,
		rangeLo: md.ObjectTableRangeLo,
		rangeHi: md.ObjectTableRangeHi,
	}
}

func (t *objectTable) numObjects() uint64 { return uint64(len(t.offsets)) }

// dataFor resolves object id to its bytes, starting at its marker byte. The
// returned slice is bounded to the end of the object table range, so a
// malformed object's self-declared length can never walk into or past the
// offset table — a stricter reading than the "take(n) exceeding input
// length" fallback spec.md §9 flags as the source's only real backstop.
func (t *objectTable) dataFor(id uint64) []byte {
	if id >= t.numObjects() {
		fail(ErrInvalidObjectReference, "object reference %d out of range (%d objects)", id, t.numObjects())
	}
	off := t.offsets[id]
	if off < t.rangeLo || off >= t.rangeHi {
		fail(ErrInvalidOffsetToObject, "object #%d offset 0x%x outside object table range [0x%x, 0x%x)", id, off, t.rangeLo, t.rangeHi)
	}
	return t.doc[off:t.rangeHi]
}

func (t *objectTable) kindOf(id uint64) Kind {
	b := t.dataFor(id)
	if len(b) == 0 {
		fail(ErrInvalidOrUnsupportedObjectFormat, "object #%d has no marker byte", id)
	}
	k := classifyMarker(b[0])
	if k == KindInvalid {
		fail(ErrInvalidOrUnsupportedObjectFormat, "object #%d has unrecognized marker 0x%02x", id, b[0])
	}
	return k
}

// expect resolves id and re-validates its marker matches want, failing with
// that kind's Expected<Kind> error otherwise.
func (t *objectTable) expect(id uint64, want Kind) []byte {
	b := t.dataFor(id)
	if len(b) == 0 || classifyMarker(b[0]) != want {
		fail(expectedKindError(want), "object #%d is not a %s", id, want)
	}
	return b
}

func (t *objectTable) parseBoolean(id uint64) bool {
	b := t.expect(id, KindBoolean)
	return b[0]&0x01 == 1
}

func (t *objectTable) parseFill(id uint64) {
	t.expect(id, KindFill)
}

// parseUint decodes a UInt8/16/32 object and returns it widened to uint64.
func (t *objectTable) parseUint(id uint64) uint64 {
	b := t.expect(id, KindUint)
	n := 1 << (b[0] & 0x0F)
	payload := takeExpect(b, 1+n, ErrExpectedUInt)
	return beUint(payload[1:1+n], n)
}

// parseSInt64 decodes an SInt64 object as two's-complement signed int64.
func (t *objectTable) parseSInt64(id uint64) int64 {
	b := t.expect(id, KindSint64)
	payload := takeExpect(b, 1+8, ErrExpectedSInt64)
	return int64(beUint(payload[1:9], 8))
}

// parseReal decodes a Float32 or Float64 object. wide reports which: false
// for Float32 (value is still widened to float64 for the caller's
// convenience, but the original payload width is preserved so the walker
// can drive the Materializer's matching Float32/Float64 callback).
func (t *objectTable) parseReal(id uint64) (value float64, wide bool) {
	b := t.expect(id, KindReal)
	switch b[0] & 0x0F {
	case 0x2:
		payload := takeExpect(b, 1+4, ErrExpectedFloat)
		return float64(math.Float32frombits(uint32(beUint(payload[1:5], 4)))), false
	case 0x3:
		payload := takeExpect(b, 1+8, ErrExpectedFloat)
		return math.Float64frombits(beUint(payload[1:9], 8)), true
	}
	fail(ErrExpectedFloat, "unsupported real width in marker 0x%02x", b[0])
	panic("unreachable")
}

// parseDate decodes a Date object's CFAbsoluteTime payload: an IEEE-754
// double counting seconds since 2001-01-01T00:00:00Z.
func (t *objectTable) parseDate(id uint64) float64 {
	b := t.expect(id, KindDate)
	payload := takeExpect(b, 1+8, ErrExpectedDate)
	return math.Float64frombits(beUint(payload[1:9], 8))
}

// parseCount decodes the inline count header shared by Data, ASCII/UTF-16
// strings, Array and Dictionary (spec.md §3 "Count encoding", §4.3 edge
// cases). b must begin at the object's marker byte. It returns the decoded
// count and the number of header bytes consumed (including the marker).
//
// When value_bits is 15, the count is an extended count: a full integer
// object (any UInt8/16/32 or SInt64 marker) immediately follows the marker
// and is reinterpreted as unsigned, even when its own marker is SInt64 — a
// negative SInt64 therefore decodes as a huge unsigned count, which then
// fails the host-word range check below rather than silently wrapping.
// Both behaviors are documented, not accidental: see spec.md §9.
func (t *objectTable) parseCount(b []byte, errKind ErrorKind) (count, consumed int) {
	valueBits := b[0] & 0x0F
	if valueBits != 0x0F {
		return int(valueBits), 1
	}

	if len(b) < 2 {
		fail(errKind, "truncated extended count header")
	}
	intMarker := b[1]
	var width int
	switch classifyMarker(intMarker) {
	case KindUint:
		width = 1 << (intMarker & 0x0F)
	case KindSint64:
		width = 8
	default:
		fail(errKind, "extended count header is not an integer object (marker 0x%02x)", intMarker)
	}
	if len(b) < 2+width {
		fail(errKind, "truncated extended count payload")
	}
	v := beUint(b[2:2+width], width)
	if v > uint64(math.MaxInt) {
		fail(ErrMessage, "extended count %d overflows host machine word", v)
	}
	return int(v), 2 + width
}

func (t *objectTable) parseData(id uint64) []byte {
	b := t.expect(id, KindData)
	cnt, hdr := t.parseCount(b, ErrExpectedData)
	end := hdr + cnt
	if end < hdr || end > len(b) {
		fail(ErrExpectedData, "data payload (%d bytes) runs past the object table", cnt)
	}
	return b[hdr:end]
}

// parseASCIIString decodes an ASCII string object and returns a zero-copy
// borrow of the input buffer, after validating every byte is <= 0x7F.
func (t *objectTable) parseASCIIString(id uint64) string {
	b := t.expect(id, KindASCIIString)
	cnt, hdr := t.parseCount(b, ErrExpectedAsciiString)
	end := hdr + cnt
	if end < hdr || end > len(b) {
		fail(ErrExpectedAsciiString, "ascii string payload (%d bytes) runs past the object table", cnt)
	}
	raw := b[hdr:end]
	for _, c := range raw {
		if c > 0x7F {
			fail(ErrExpectedAsciiString, "ascii string contains byte 0x%02x above 0x7F", c)
		}
	}
	return borrowedString(raw)
}

// parseUTF16String decodes a UTF-16BE string object. Unlike ASCII strings,
// it always returns an owned string: the 16-bit code units must be
// re-encoded to UTF-8, so there is no zero-copy borrow to offer.
func (t *objectTable) parseUTF16String(id uint64) string {
	b := t.expect(id, KindUTF16String)
	cnt, hdr := t.parseCount(b, ErrExpectedUtf16String)
	need := hdr + cnt*2
	if need < hdr || need > len(b) {
		fail(ErrExpectedUtf16String, "utf16 string payload (%d units) runs past the object table", cnt)
	}
	units := make([]uint16, cnt)
	for i := 0; i < cnt; i++ {
		start := hdr + 2*i
		units[i] = uint16(beUint(b[start:start+2], 2))
	}
	if !validUTF16(units) {
		fail(ErrExpectedUtf16String, "utf16 string contains an unpaired surrogate")
	}
	return string(utf16.Decode(units))
}

// validUTF16 reports whether units contains only valid standalone code
// points and properly paired surrogates.
func validUTF16(units []uint16) bool {
	for i := 0; i < len(units); i++ {
		r := units[i]
		switch {
		case r >= 0xD800 && r <= 0xDBFF: // high surrogate
			if i+1 >= len(units) {
				return false
			}
			low := units[i+1]
			if low < 0xDC00 || low > 0xDFFF {
				return false
			}
			i++
		case r >= 0xDC00 && r <= 0xDFFF: // unpaired low surrogate
			return false
		}
	}
	return true
}

// parseUid decodes a Uid object. Its length is value_bits+1 (1..16 bytes);
// there is no extended-count form for Uid.
func (t *objectTable) parseUid(id uint64) []byte {
	b := t.expect(id, KindUid)
	n := int(b[0]&0x0F) + 1
	payload := takeExpect(b, 1+n, ErrExpectedUid)
	return payload[1 : 1+n]
}

// parseRefs decodes count object-reference entries of t.refSize bytes each,
// starting at byte offset start within b.
func (t *objectTable) parseRefs(b []byte, start, count int, errKind ErrorKind) []uint64 {
	need := start + count*t.refSize
	if need < start || need > len(b) {
		fail(errKind, "reference list (%d entries) runs past the object table", count)
	}
	refs := make([]uint64, count)
	for i := 0; i < count; i++ {
		off := start + i*t.refSize
		refs[i] = beUint(b[off:off+t.refSize], t.refSize)
	}
	return refs
}

func (t *objectTable) parseArray(id uint64) []uint64 {
	b := t.expect(id, KindArray)
	cnt, hdr := t.parseCount(b, ErrExpectedArray)
	return t.parseRefs(b, hdr, cnt, ErrExpectedArray)
}

// parseDictionary decodes a Dictionary object into parallel key and value
// reference slices. Keys precede all values contiguously on the wire (not
// interleaved); the returned slices pair them positionally.
func (t *objectTable) parseDictionary(id uint64) (keys, values []uint64) {
	b := t.expect(id, KindDictionary)
	cnt, hdr := t.parseCount(b, ErrExpectedDictionary)
	all := t.parseRefs(b, hdr, cnt*2, ErrExpectedDictionary)
	return all[:cnt], all[cnt:]
}
