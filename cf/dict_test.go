package cf

import (
	"math"
	"testing"
)

func TestDictionaryTotalOrder(t *testing.T) {
	keys := []Value{String("banana"), String("apple"), String("cherry")}
	values := []Value{Integer(2), Integer(1), Integer(3)}

	dict := NewDictionary(keys, values)
	if dict.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", dict.Len())
	}

	var order []string
	dict.Range(func(key, value Value) {
		order = append(order, string(key.(String)))
	})

	want := []string{"apple", "banana", "cherry"}
	for i, w := range want {
		if order[i] != w {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestDictionaryGet(t *testing.T) {
	dict := NewDictionary(
		[]Value{String("x"), String("y")},
		[]Value{Integer(1), Integer(20)},
	)

	v, ok := dict.Get(String("y"))
	if !ok {
		t.Fatal("Get(y) not found")
	}
	if got := int64(v.(Integer)); got != 20 {
		t.Fatalf("Get(y) = %d, want 20", got)
	}

	if _, ok := dict.Get(String("z")); ok {
		t.Fatal("Get(z) unexpectedly found")
	}
}

func TestDictionaryKindOrderingPrecedesValueOrdering(t *testing.T) {
	// Booleans sort before integers regardless of their own values, since
	// compareValues orders by Kind first.
	dict := NewDictionary(
		[]Value{Integer(0), Boolean(true)},
		[]Value{String("int"), String("bool")},
	)

	var order []Kind
	dict.Range(func(key, value Value) { order = append(order, key.Kind()) })

	if order[0] != BooleanKind || order[1] != IntegerKind {
		t.Fatalf("order = %v, want [BooleanKind IntegerKind]", order)
	}
}

func TestCompareRealNaNBucketing(t *testing.T) {
	nan := Real(math.NaN())
	neg := Real(-1.0)
	zero := Real(0.0)
	pos := Real(1.0)

	dict := NewDictionary(
		[]Value{pos, neg, nan, zero},
		[]Value{Integer(0), Integer(0), Integer(0), Integer(0)},
	)

	var order []Real
	dict.Range(func(key, value Value) { order = append(order, key.(Real)) })

	if !math.IsNaN(float64(order[0])) {
		t.Fatalf("order[0] = %v, want NaN first", order[0])
	}
	if order[1] != neg || order[2] != zero || order[3] != pos {
		t.Fatalf("order = %v, want [NaN -1 0 1]", order)
	}
}
