package cf

import (
	"bytes"
	"math"
	"sort"
	"strings"
)

// Dictionary is a decoded Dictionary object. bplist00 stores dictionary
// keys and values as positional parallel arrays, preserving wire order, but
// the typed value tree's Dictionary does not: spec.md §9 requires a
// total-ordered map keyed by the sum-of-values Value type, which a caller
// can Range over in a stable, content-derived order instead of wire order.
// Package bplist00's Decoder decodes from this type, so it also sees entries
// in this order; only a Materializer driven by the walker directly receives
// dictionary entries in wire order.
type Dictionary struct {
	entries []entry
}

type entry struct {
	key, value Value
}

func (*Dictionary) Kind() Kind { return DictionaryKind }

// NewDictionary builds a Dictionary from positional keys and values,
// sorting entries into the tree's canonical total order. len(keys) must
// equal len(values).
func NewDictionary(keys, values []Value) *Dictionary {
	entries := make([]entry, len(keys))
	for i := range keys {
		entries[i] = entry{key: keys[i], value: values[i]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return compareValues(entries[i].key, entries[j].key) < 0
	})
	return &Dictionary{entries: entries}
}

// Len returns the number of key/value pairs.
func (d *Dictionary) Len() int { return len(d.entries) }

// Range calls f for each entry in the tree's canonical total key order.
func (d *Dictionary) Range(f func(key, value Value)) {
	for _, e := range d.entries {
		f(e.key, e.value)
	}
}

// Get returns the value associated with key, using the same equality
// compareValues defines.
func (d *Dictionary) Get(key Value) (Value, bool) {
	for _, e := range d.entries {
		if compareValues(e.key, key) == 0 {
			return e.value, true
		}
	}
	return nil, false
}

// compareValues imposes a total order across the heterogeneous set of
// values that may appear as a Dictionary key. Values of different Kinds
// order by Kind; values of the same Kind order by their natural comparison,
// with NaN real values bucketed to a fixed position (ahead of all other
// reals) rather than comparing unordered with everything, which a strict
// total order requires (spec.md §9).
func compareValues(a, b Value) int {
	if a.Kind() != b.Kind() {
		return int(a.Kind()) - int(b.Kind())
	}
	switch av := a.(type) {
	case Boolean:
		return boolCompare(bool(av), bool(b.(Boolean)))
	case Integer:
		bv := b.(Integer)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case Real:
		return compareReal(float64(av), float64(b.(Real)))
	case Data:
		return bytes.Compare(av, b.(Data))
	case Date:
		return compareReal(float64(av), float64(b.(Date)))
	case Uid:
		return bytes.Compare(av, b.(Uid))
	case String:
		return strings.Compare(string(av), string(b.(String)))
	default:
		// Array and Dictionary keys have no natural total order beyond
		// kind and identity; bplist00 documents practically never use
		// them as keys, so ties here just preserve stable-sort order.
		return 0
	}
}

func boolCompare(a, b bool) int {
	if a == b {
		return 0
	}
	if !a && b {
		return -1
	}
	return 1
}

func compareReal(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
