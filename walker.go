package bplist00

// walker is the reentrant object-tree visitor described in spec.md §4.4. It
// holds the object table, drives a Materializer, and tracks which
// collection ids are currently on the path from the root so a cycle can be
// rejected without penalizing DAG sharing of non-collection objects
// (spec.md §9: bplist documents commonly share leaves; only collections can
// cycle).
//
// entered is a genuine set keyed by object id, not a stack. spec.md §9
// flags that the source this was distilled from pops the *maximum* id on
// exit, which is only correct because ids happen to increase monotonically
// along the source's particular traversal order; removing by exact id (as
// here) is correct regardless of traversal order.
type walker struct {
	table   *objectTable
	entered map[uint64]bool
	m       Materializer
}

func (w *walker) enterCollection(id uint64) {
	if w.entered[id] {
		fail(ErrCycleDetected, "collection #%d re-entered during traversal", id)
	}
	w.entered[id] = true
}

func (w *walker) exitCollection(id uint64) {
	delete(w.entered, id)
}

// decode dispatches on the wire kind of object id, parses its payload, and
// drives the corresponding Materializer callback(s). It recurses directly
// for Array and Dictionary.
func (w *walker) decode(id uint64) {
	switch w.table.kindOf(id) {
	case KindBoolean:
		must(w.m.Bool(w.table.parseBoolean(id)))
	case KindFill:
		w.table.parseFill(id)
		must(w.m.Unit())
	case KindUint:
		must(w.m.Int64(int64(w.table.parseUint(id))))
	case KindSint64:
		must(w.m.Int64(w.table.parseSInt64(id)))
	case KindReal:
		v, wide := w.table.parseReal(id)
		if wide {
			must(w.m.Float64(v))
		} else {
			must(w.m.Float32(float32(v)))
		}
	case KindDate:
		v := w.table.parseDate(id)
		w.emitPseudoStruct(DateStructName, DateFieldName, func() error { return w.m.Float64(v) })
	case KindData:
		must(w.m.BorrowedBytes(w.table.parseData(id)))
	case KindASCIIString:
		must(w.m.BorrowedString(w.table.parseASCIIString(id)))
	case KindUTF16String:
		must(w.m.OwnedString(w.table.parseUTF16String(id)))
	case KindUid:
		v := w.table.parseUid(id)
		w.emitPseudoStruct(UidStructName, UidFieldName, func() error { return w.m.BorrowedBytes(v) })
	case KindArray:
		w.decodeArray(id)
	case KindDictionary:
		w.decodeDictionary(id)
	default:
		fail(ErrInvalidOrUnsupportedObjectFormat, "object #%d has no decodable kind", id)
	}
}

func (w *walker) emitPseudoStruct(structName, fieldName string, emitValue func() error) {
	must(w.m.BeginStruct(structName, []string{fieldName}))
	must(w.m.BeginMap(1))
	must(w.m.Identifier(fieldName))
	must(emitValue())
	must(w.m.EndMap())
	must(w.m.EndStruct())
}

func (w *walker) decodeArray(id uint64) {
	w.enterCollection(id)
	defer w.exitCollection(id)

	refs := w.table.parseArray(id)
	must(w.m.BeginSequence(len(refs)))
	for _, ref := range refs {
		w.decode(ref)
	}
	must(w.m.EndSequence())
}

func (w *walker) decodeDictionary(id uint64) {
	w.enterCollection(id)
	defer w.exitCollection(id)

	keys, values := w.table.parseDictionary(id)
	must(w.m.BeginMap(len(keys)))
	for i := range keys {
		w.decode(keys[i])
		w.decode(values[i])
	}
	must(w.m.EndMap())
}

// must panics with err if non-nil, surfacing a materializer's reported
// failure the same way a decode failure does (spec.md §7: Message(string)
// covers "arbitrary error surfaced by the materialization callback").
func must(err error) {
	if err != nil {
		if e, ok := err.(*Error); ok {
			panic(e)
		}
		panic(&Error{Kind: ErrMessage, Message: err.Error()})
	}
}

// decodeDocument runs the full pipeline described in spec.md's data-flow
// paragraph: parse the envelope, build the object table, verify the root is
// a container, and walk it, driving m.
func decodeDocument(doc []byte, m Materializer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*Error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	md := ParseMetadata(doc)
	table := newObjectTable(doc, md)

	rootKind := table.kindOf(md.RootObject)
	if rootKind != KindArray && rootKind != KindDictionary {
		fail(ErrRootObjectNotArrayOrDictionary, "root object #%d is a %s, not an array or dictionary", md.RootObject, rootKind)
	}

	w := &walker{table: table, entered: make(map[uint64]bool), m: m}
	w.decode(md.RootObject)
	return nil
}
