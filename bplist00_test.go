package bplist00

import (
	"bytes"
	"math"
	"reflect"
	"testing"

	"github.com/dhowett-plist-labs/bplist00/cf"
)

func TestFromBytesEmptyArray(t *testing.T) {
	doc := buildDocument([][]byte{arrayObject()}, 0, 1)

	v, err := FromBytes(doc)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	arr, ok := v.(cf.Array)
	if !ok {
		t.Fatalf("root is %T, want cf.Array", v)
	}
	if len(arr) != 0 {
		t.Fatalf("len(arr) = %d, want 0", len(arr))
	}
}

// buildDocument assembles a minimal, well-formed bplist00 document from an
// object table (objects in id order, each already including its own marker
// byte and payload) plus a root id and reference width, computing offsets
// and the trailer itself. It exists so tests can express fixtures as Go
// byte slices instead of hand-counted hex, the way the envelope and object
// table components are more naturally tested in isolation.
func buildDocument(objects [][]byte, root uint64, refSize int) []byte {
	var buf bytes.Buffer
	buf.WriteString("bplist00")

	offsets := make([]uint64, len(objects))
	for i, obj := range objects {
		offsets[i] = uint64(buf.Len())
		buf.Write(obj)
	}

	offsetTableOffset := uint64(buf.Len())
	for _, off := range offsets {
		var b [8]byte
		for i := 0; i < 8; i++ {
			b[7-i] = byte(off)
			off >>= 8
		}
		buf.Write(b[:])
	}

	var trailer [32]byte
	trailer[6] = 8 // offset_table_entry_size: always write full-width offsets above
	trailer[7] = byte(refSize)
	putBE64(trailer[8:16], uint64(len(objects)))
	putBE64(trailer[16:24], root)
	putBE64(trailer[24:32], offsetTableOffset)
	buf.Write(trailer[:])

	return buf.Bytes()
}

func putBE64(b []byte, v uint64) {
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}

func uintObject(n uint64) []byte {
	switch {
	case n <= 0xFF:
		return []byte{0x10, byte(n)}
	case n <= 0xFFFF:
		return []byte{0x11, byte(n >> 8), byte(n)}
	default:
		return []byte{0x12, byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
	}
}

func asciiObject(s string) []byte {
	out := []byte{0x50 | byte(len(s))}
	return append(out, s...)
}

func arrayObject(refs ...byte) []byte {
	out := []byte{0xA0 | byte(len(refs))}
	return append(out, refs...)
}

func dictObject(n int, refs ...byte) []byte {
	out := []byte{0xD0 | byte(n)}
	return append(out, refs...)
}

// arrayObjectExt builds an Array object via the value_bits=15 extended-count
// escape instead of the inline nibble count, regardless of how many refs it
// holds, so the escape path itself is exercised directly.
func arrayObjectExt(refs ...byte) []byte {
	out := []byte{0xAF}
	out = append(out, uintObject(uint64(len(refs)))...)
	return append(out, refs...)
}

func fillObject() []byte { return []byte{0x0F} }

func realObject32(v float32) []byte {
	out := []byte{0x22}
	bits := math.Float32bits(v)
	return append(out, byte(bits>>24), byte(bits>>16), byte(bits>>8), byte(bits))
}

func realObject64(v float64) []byte {
	out := []byte{0x23}
	bits := math.Float64bits(v)
	var b [8]byte
	for i := 7; i >= 0; i-- {
		b[i] = byte(bits)
		bits >>= 8
	}
	return append(out, b[:]...)
}

func dateObject(v float64) []byte {
	out := []byte{0x33}
	bits := math.Float64bits(v)
	var b [8]byte
	for i := 7; i >= 0; i-- {
		b[i] = byte(bits)
		bits >>= 8
	}
	return append(out, b[:]...)
}

func dataObject(b []byte) []byte {
	out := []byte{0x40 | byte(len(b))}
	return append(out, b...)
}

func utf16Object(units ...uint16) []byte {
	out := []byte{0x60 | byte(len(units))}
	for _, u := range units {
		out = append(out, byte(u>>8), byte(u))
	}
	return out
}

func uidObject(data []byte) []byte {
	out := []byte{0x80 | byte(len(data)-1)}
	return append(out, data...)
}

func TestFromBytesIntegerList(t *testing.T) {
	objects := [][]byte{
		arrayObject(1, 2, 3, 4, 5),
		uintObject(1), uintObject(2), uintObject(3), uintObject(4), uintObject(5),
	}
	doc := buildDocument(objects, 0, 1)

	v, err := FromBytes(doc)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	arr := v.(cf.Array)
	want := []int64{1, 2, 3, 4, 5}
	if len(arr) != len(want) {
		t.Fatalf("len = %d, want %d", len(arr), len(want))
	}
	for i, w := range want {
		if got := int64(arr[i].(cf.Integer)); got != w {
			t.Errorf("arr[%d] = %d, want %d", i, got, w)
		}
	}
}

func TestFromBytesPointDictionary(t *testing.T) {
	objects := [][]byte{
		dictObject(2, 1, 2, 3, 4),
		asciiObject("x"), asciiObject("y"),
		uintObject(1), uintObject(20),
	}
	doc := buildDocument(objects, 0, 1)

	v, err := FromBytes(doc)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	dict := v.(*cf.Dictionary)
	if dict.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", dict.Len())
	}

	type point struct {
		X uint64 `plist:"x"`
		Y uint64 `plist:"y"`
	}
	var p point
	if err := unmarshal(v, reflect.ValueOf(&p).Elem()); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.X != 1 || p.Y != 20 {
		t.Fatalf("p = %+v, want {1 20}", p)
	}
}

func TestFromBytesFill(t *testing.T) {
	objects := [][]byte{
		arrayObject(1),
		fillObject(),
	}
	doc := buildDocument(objects, 0, 1)

	v, err := FromBytes(doc)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	arr := v.(cf.Array)
	if _, ok := arr[0].(cf.Unit); !ok {
		t.Fatalf("arr[0] = %T, want cf.Unit", arr[0])
	}
}

func TestFromBytesReal(t *testing.T) {
	objects := [][]byte{
		arrayObject(1, 2),
		realObject32(3.5),
		realObject64(2.71828),
	}
	doc := buildDocument(objects, 0, 1)

	v, err := FromBytes(doc)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	arr := v.(cf.Array)
	if got := float64(arr[0].(cf.Real)); got != 3.5 {
		t.Fatalf("arr[0] = %v, want 3.5", got)
	}
	if got := float64(arr[1].(cf.Real)); got != 2.71828 {
		t.Fatalf("arr[1] = %v, want 2.71828", got)
	}
}

func TestFromBytesData(t *testing.T) {
	objects := [][]byte{
		arrayObject(1),
		dataObject([]byte{0xDE, 0xAD, 0xBE, 0xEF}),
	}
	doc := buildDocument(objects, 0, 1)

	v, err := FromBytes(doc)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	arr := v.(cf.Array)
	got := []byte(arr[0].(cf.Data))
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if !bytes.Equal(got, want) {
		t.Fatalf("arr[0] = %x, want %x", got, want)
	}
}

func TestFromBytesUTF16String(t *testing.T) {
	objects := [][]byte{
		arrayObject(1),
		utf16Object(0x0068, 0x0069), // "hi"
	}
	doc := buildDocument(objects, 0, 1)

	v, err := FromBytes(doc)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	arr := v.(cf.Array)
	if got := string(arr[0].(cf.String)); got != "hi" {
		t.Fatalf("arr[0] = %q, want %q", got, "hi")
	}
}

func TestFromBytesDate(t *testing.T) {
	objects := [][]byte{
		arrayObject(1),
		dateObject(694224000), // 2023-01-01T00:00:00Z in CFAbsoluteTime
	}
	doc := buildDocument(objects, 0, 1)

	v, err := FromBytes(doc)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	arr := v.(cf.Array)
	if got := float64(arr[0].(cf.Date)); got != 694224000 {
		t.Fatalf("arr[0] = %v, want 694224000", got)
	}
}

func TestFromBytesUid(t *testing.T) {
	objects := [][]byte{
		arrayObject(1),
		uidObject([]byte{0x01, 0x02, 0x03, 0x04}),
	}
	doc := buildDocument(objects, 0, 1)

	v, err := FromBytes(doc)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	arr := v.(cf.Array)
	got := []byte(arr[0].(cf.Uid))
	want := []byte{0x01, 0x02, 0x03, 0x04}
	if !bytes.Equal(got, want) {
		t.Fatalf("arr[0] = %x, want %x", got, want)
	}
}

func TestFromBytesExtendedCount(t *testing.T) {
	objects := [][]byte{
		arrayObjectExt(1, 2, 3),
		uintObject(10), uintObject(20), uintObject(30),
	}
	doc := buildDocument(objects, 0, 1)

	v, err := FromBytes(doc)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	arr := v.(cf.Array)
	want := []int64{10, 20, 30}
	if len(arr) != len(want) {
		t.Fatalf("len = %d, want %d", len(arr), len(want))
	}
	for i, w := range want {
		if got := int64(arr[i].(cf.Integer)); got != w {
			t.Errorf("arr[%d] = %d, want %d", i, got, w)
		}
	}
}

func TestFromBytesCycleRejection(t *testing.T) {
	objects := [][]byte{
		arrayObject(0), // object 0 is an array referencing itself
	}
	doc := buildDocument(objects, 0, 1)

	_, err := FromBytes(doc)
	assertErrorKind(t, err, ErrCycleDetected)
}

func TestFromBytesTruncatedTrailer(t *testing.T) {
	doc := make([]byte, 30)
	copy(doc, "bplist00")

	_, err := FromBytes(doc)
	assertErrorKind(t, err, ErrEof)
}

func TestFromBytesUnsupportedVersion(t *testing.T) {
	objects := [][]byte{arrayObject()}
	doc := buildDocument(objects, 0, 1)
	doc[6], doc[7] = '1', '5'

	_, err := FromBytes(doc)
	assertErrorKind(t, err, ErrUnsupportedVersion)
}

func TestFromBytesReferenceOutOfRange(t *testing.T) {
	objects := [][]byte{
		arrayObject(1), // references object 1, which does not exist
	}
	doc := buildDocument(objects, 0, 1)

	_, err := FromBytes(doc)
	assertErrorKind(t, err, ErrInvalidObjectReference)
}

func TestFromBytesRootMustBeContainer(t *testing.T) {
	objects := [][]byte{uintObject(1)}
	doc := buildDocument(objects, 0, 1)

	_, err := FromBytes(doc)
	assertErrorKind(t, err, ErrRootObjectNotArrayOrDictionary)
}

func assertErrorKind(t *testing.T, err error, want ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("err = nil, want Kind %s", want)
	}
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("err = %T(%v), want *Error", err, err)
	}
	if e.Kind != want {
		t.Fatalf("err.Kind = %s, want %s", e.Kind, want)
	}
}
