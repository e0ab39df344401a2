package bplist00

import "unsafe"

// beUint reads the first n bytes of b (1 <= n <= 8) as a big-endian unsigned
// integer. Callers must ensure len(b) >= n; use takeExpect or the envelope's
// own length checks to establish that first.
func beUint(b []byte, n int) uint64 {
	var v uint64
	for i := 0; i < n; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// takeExpect returns b[:n], failing with errKind if b is shorter than n.
// It is used once a marker byte has already identified the expected kind,
// so any truncation from here on is that kind's payload being malformed
// (spec.md §7: Expected<Kind> covers both marker mismatch and truncation).
func takeExpect(b []byte, n int, errKind ErrorKind) []byte {
	if len(b) < n {
		fail(errKind, "truncated payload (need %d bytes, have %d)", n, len(b))
	}
	return b[:n]
}

// borrowedString reinterprets b as a string without copying. The returned
// string remains valid only as long as the backing array of b is alive and
// unmodified — exactly the input-buffer lifetime contract this package asks
// callers to uphold for borrowed values (spec.md §5, §9). Go's standard
// library has no third-party equivalent for this; it is fundamentally a
// language/runtime-level reinterpretation, not a library concern, so
// unsafe.String is used directly rather than a hand-rolled workaround.
func borrowedString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}
