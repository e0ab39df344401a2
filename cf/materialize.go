package cf

import "fmt"

// magic field/struct names for the Date/Uid pseudo-struct protocol. These
// must match package bplist00's DateStructName/DateFieldName/UidStructName/
// UidFieldName exactly (spec.md §6); they are duplicated here rather than
// imported to avoid a dependency cycle (bplist00 imports cf for its FromBytes
// return type, so cf cannot import bplist00 back). TreeBuilder satisfies
// bplist00.Materializer structurally, without importing that package.
const (
	dateStructName = "$__bplist_private_Date"
	dateFieldName  = "$__bplist_private_Date_absolute_time"
	uidStructName  = "$__bplist_private_Uid"
	uidFieldName   = "$__bplist_private_Uid_data"
)

// TreeBuilder is a Materializer that assembles a typed Value tree from the
// decode events the walker delivers in document order. It is the canonical
// generic materializer referenced throughout spec.md §4.5: the typed value
// tree IS this materializer's output.
type TreeBuilder struct {
	stack  []frame
	result Value
}

func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{}
}

// Result returns the fully materialized root value. It is only meaningful
// after a complete, error-free decode.
func (t *TreeBuilder) Result() (Value, error) {
	if t.result == nil {
		return nil, fmt.Errorf("cf: no value materialized")
	}
	return t.result, nil
}

type frameKind int

const (
	frameArray frameKind = iota
	frameMap
	frameStruct
)

type frame struct {
	kind frameKind

	// frameArray
	elems []Value

	// frameMap
	pendingKey *Value
	keys       []Value
	values     []Value

	// frameStruct
	structName  string
	structValue Value
}

// emit routes a fully-formed Value to wherever it belongs: the enclosing
// frame (array element, map key, map value, or a struct's sole child), or
// the final result if there is no enclosing frame.
func (t *TreeBuilder) emit(v Value) error {
	if len(t.stack) == 0 {
		t.result = v
		return nil
	}
	top := &t.stack[len(t.stack)-1]
	switch top.kind {
	case frameArray:
		top.elems = append(top.elems, v)
	case frameMap:
		if top.pendingKey == nil {
			top.pendingKey = &v
		} else {
			top.keys = append(top.keys, *top.pendingKey)
			top.values = append(top.values, v)
			top.pendingKey = nil
		}
	case frameStruct:
		top.structValue = v
	}
	return nil
}

func (t *TreeBuilder) Bool(v bool) error         { return t.emit(Boolean(v)) }
func (t *TreeBuilder) Int64(v int64) error       { return t.emit(Integer(v)) }
func (t *TreeBuilder) Float32(v float32) error   { return t.emit(Real(float64(v))) }
func (t *TreeBuilder) Float64(v float64) error   { return t.emit(Real(v)) }
func (t *TreeBuilder) BorrowedString(v string) error { return t.emit(String(v)) }
func (t *TreeBuilder) OwnedString(v string) error    { return t.emit(String(v)) }
func (t *TreeBuilder) BorrowedBytes(v []byte) error  { return t.emit(Data(v)) }
func (t *TreeBuilder) Unit() error                   { return t.emit(Unit{}) }

func (t *TreeBuilder) BeginSequence(n int) error {
	t.stack = append(t.stack, frame{kind: frameArray, elems: make([]Value, 0, n)})
	return nil
}

func (t *TreeBuilder) EndSequence() error {
	top := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	return t.emit(Array(top.elems))
}

func (t *TreeBuilder) BeginMap(n int) error {
	t.stack = append(t.stack, frame{
		kind:   frameMap,
		keys:   make([]Value, 0, n),
		values: make([]Value, 0, n),
	})
	return nil
}

func (t *TreeBuilder) Identifier(name string) error {
	top := &t.stack[len(t.stack)-1]
	v := Value(String(name))
	top.pendingKey = &v
	return nil
}

func (t *TreeBuilder) EndMap() error {
	top := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	return t.emit(NewDictionary(top.keys, top.values))
}

func (t *TreeBuilder) BeginStruct(name string, fields []string) error {
	t.stack = append(t.stack, frame{kind: frameStruct, structName: name})
	return nil
}

// EndStruct recognizes the Date/Uid pseudo-struct shapes and converts them
// to their dedicated Value variants; any other struct just surfaces its
// inner map (TreeBuilder never itself requests a struct other than the two
// magic ones, so this is purely defensive).
func (t *TreeBuilder) EndStruct() error {
	top := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]

	dict, ok := top.structValue.(*Dictionary)
	if !ok {
		return t.emit(top.structValue)
	}

	switch top.structName {
	case dateStructName:
		v, _ := dict.Get(String(dateFieldName))
		real, _ := v.(Real)
		return t.emit(Date(real))
	case uidStructName:
		v, _ := dict.Get(String(uidFieldName))
		data, _ := v.(Data)
		return t.emit(Uid(data))
	default:
		return t.emit(dict)
	}
}
