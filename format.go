package bplist00

// Kind identifies the wire-level object format tagged by a bplist00 marker
// byte, per the closed taxonomy in spec.md §3. UInt8/16/32 share one Kind
// (they only differ in payload width) and so do Float32/64, matching the
// grouping spec.md §7 uses for its Expected<Kind> error variants.
type Kind int

const (
	KindInvalid Kind = iota
	KindBoolean
	KindFill
	KindUint
	KindSint64
	KindReal
	KindDate
	KindData
	KindASCIIString
	KindUTF16String
	KindUid
	KindArray
	KindDictionary
)

var kindNames = [...]string{
	KindInvalid:      "invalid",
	KindBoolean:      "boolean",
	KindFill:         "fill",
	KindUint:         "uint",
	KindSint64:       "sint64",
	KindReal:         "real",
	KindDate:         "date",
	KindData:         "data",
	KindASCIIString:  "ascii string",
	KindUTF16String:  "utf16 string",
	KindUid:          "uid",
	KindArray:        "array",
	KindDictionary:   "dictionary",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// classifyMarker dispatches a marker byte to its Kind using the
// (tag_mask, tag_bits) patterns from spec.md §3. It returns KindInvalid if
// the byte matches no known pattern.
func classifyMarker(b byte) Kind {
	switch b >> 4 {
	case 0x0:
		switch b & 0x0F {
		case 0xF:
			return KindFill
		case 0x8, 0x9:
			return KindBoolean
		}
	case 0x1:
		switch b & 0x0F {
		case 0x0, 0x1, 0x2:
			return KindUint
		case 0x3:
			return KindSint64
		}
	case 0x2:
		switch b & 0x0F {
		case 0x2, 0x3:
			return KindReal
		}
	case 0x3:
		if b&0x0F == 0x3 {
			return KindDate
		}
	case 0x4:
		return KindData
	case 0x5:
		return KindASCIIString
	case 0x6:
		return KindUTF16String
	case 0x8:
		return KindUid
	case 0xA:
		return KindArray
	case 0xD:
		return KindDictionary
	}
	return KindInvalid
}
