package bplist00

import (
	"fmt"
	"reflect"
	"time"

	"github.com/dhowett-plist-labs/bplist00/cf"
)

// Uid is the Decode-side convenience type for cf.Uid: a plain byte slice
// with no further interpretation, matching the package-level type so
// callers are never forced to import cf just to receive a decoded UID.
type Uid []byte

// epoch is the CFAbsoluteTime reference instant (2001-01-01T00:00:00Z),
// against which cf.Date's float64 payload is a signed offset in seconds.
var epoch = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

var (
	timeType = reflect.TypeOf(time.Time{})
	uidType  = reflect.TypeOf(Uid(nil))
)

type incompatibleDecodeTypeError struct {
	dest reflect.Type
	src  cf.Kind
}

func (e *incompatibleDecodeTypeError) Error() string {
	return fmt.Sprintf("bplist00: cannot decode %s into Go value of type %v", e.src, e.dest)
}

func isEmptyInterface(v reflect.Value) bool {
	return v.Kind() == reflect.Interface && v.NumMethod() == 0
}

// unmarshal walks a materialized cf.Value tree and a destination reflect.Value
// in lockstep, following the teacher library's own unmarshal.go dispatch
// structure: indirect through pointers and empty interfaces first, then
// switch on the dynamic cf.Value type.
func unmarshal(pval cf.Value, val reflect.Value) error {
	if pval == nil {
		return nil
	}

	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			val.Set(reflect.New(val.Type().Elem()))
		}
		return unmarshal(pval, val.Elem())
	}

	if isEmptyInterface(val) {
		v, err := valueInterface(pval)
		if err != nil {
			return err
		}
		val.Set(reflect.ValueOf(v))
		return nil
	}

	incompatible := &incompatibleDecodeTypeError{val.Type(), pval.Kind()}

	switch pv := pval.(type) {
	case cf.Date:
		if val.Type() == timeType {
			val.Set(reflect.ValueOf(epoch.Add(time.Duration(float64(pv) * float64(time.Second)))))
			return nil
		}
		if val.Kind() == reflect.Struct {
			return unmarshalDictionary(cf.NewDictionary([]cf.Value{cf.String(DateFieldName)}, []cf.Value{cf.Real(pv)}), val)
		}
		return incompatible
	case cf.Uid:
		if val.Type() == uidType {
			val.SetBytes([]byte(pv))
			return nil
		}
		if val.Kind() == reflect.Struct {
			return unmarshalDictionary(cf.NewDictionary([]cf.Value{cf.String(UidFieldName)}, []cf.Value{cf.Data(pv)}), val)
		}
		return incompatible
	case cf.String:
		if val.Kind() == reflect.String {
			val.SetString(string(pv))
			return nil
		}
		return incompatible
	case cf.Integer:
		switch val.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			val.SetInt(int64(pv))
			return nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			val.SetUint(uint64(pv))
			return nil
		case reflect.Float32, reflect.Float64:
			val.SetFloat(float64(pv))
			return nil
		default:
			return incompatible
		}
	case cf.Real:
		switch val.Kind() {
		case reflect.Float32, reflect.Float64:
			val.SetFloat(float64(pv))
			return nil
		default:
			return incompatible
		}
	case cf.Boolean:
		if val.Kind() == reflect.Bool {
			val.SetBool(bool(pv))
			return nil
		}
		return incompatible
	case cf.Data:
		if val.Kind() == reflect.Slice && val.Type().Elem().Kind() == reflect.Uint8 {
			val.SetBytes([]byte(pv))
			return nil
		}
		return incompatible
	case cf.Unit:
		return nil
	case cf.Array:
		return unmarshalArray(pv, val)
	case *cf.Dictionary:
		return unmarshalDictionary(pv, val)
	}

	return incompatible
}

func unmarshalArray(a cf.Array, val reflect.Value) error {
	switch val.Kind() {
	case reflect.Slice:
		n := len(a)
		out := reflect.MakeSlice(val.Type(), n, n)
		for i, elem := range a {
			if err := unmarshal(elem, out.Index(i)); err != nil {
				return err
			}
		}
		val.Set(out)
		return nil
	case reflect.Array:
		if len(a) > val.Len() {
			return fmt.Errorf("bplist00: %d values do not fit in array of size %d", len(a), val.Len())
		}
		for i, elem := range a {
			if err := unmarshal(elem, val.Index(i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return &incompatibleDecodeTypeError{val.Type(), cf.ArrayKind}
	}
}

func unmarshalDictionary(dict *cf.Dictionary, val reflect.Value) error {
	typ := val.Type()
	switch val.Kind() {
	case reflect.Struct:
		tinfo, err := getTypeInfo(typ)
		if err != nil {
			return err
		}

		entries := make(map[string]cf.Value, dict.Len())
		dict.Range(func(key, value cf.Value) {
			if k, ok := key.(cf.String); ok {
				entries[string(k)] = value
			}
		})

		for _, finfo := range tinfo.fields {
			sval, ok := entries[finfo.name]
			if !ok {
				continue
			}
			if err := unmarshal(sval, finfo.value(val)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		if val.IsNil() {
			val.Set(reflect.MakeMapWithSize(typ, dict.Len()))
		}

		var rangeErr error
		dict.Range(func(key, value cf.Value) {
			if rangeErr != nil {
				return
			}
			k, ok := key.(cf.String)
			if !ok {
				rangeErr = &incompatibleDecodeTypeError{typ.Key(), key.Kind()}
				return
			}
			keyv := reflect.ValueOf(string(k)).Convert(typ.Key())
			elem := reflect.New(typ.Elem()).Elem()
			if err := unmarshal(value, elem); err != nil {
				rangeErr = err
				return
			}
			val.SetMapIndex(keyv, elem)
		})
		return rangeErr
	default:
		return &incompatibleDecodeTypeError{typ, cf.DictionaryKind}
	}
}

// valueInterface materializes pval into the nearest natural Go type,
// mirroring encoding/json's untyped decode path (float64/string/bool/
// []interface{}/map[string]interface{}), extended with time.Time and Uid
// for the two pseudo-struct kinds.
func valueInterface(pval cf.Value) (interface{}, error) {
	switch pv := pval.(type) {
	case cf.String:
		return string(pv), nil
	case cf.Integer:
		return int64(pv), nil
	case cf.Real:
		return float64(pv), nil
	case cf.Boolean:
		return bool(pv), nil
	case cf.Data:
		return []byte(pv), nil
	case cf.Date:
		return epoch.Add(time.Duration(float64(pv) * float64(time.Second))), nil
	case cf.Uid:
		return Uid(pv), nil
	case cf.Unit:
		return nil, nil
	case cf.Array:
		out := make([]interface{}, len(pv))
		for i, elem := range pv {
			v, err := valueInterface(elem)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *cf.Dictionary:
		out := make(map[string]interface{}, pv.Len())
		var rangeErr error
		pv.Range(func(key, value cf.Value) {
			if rangeErr != nil {
				return
			}
			k, ok := key.(cf.String)
			if !ok {
				rangeErr = &incompatibleDecodeTypeError{reflect.TypeOf(""), key.Kind()}
				return
			}
			v, err := valueInterface(value)
			if err != nil {
				rangeErr = err
				return
			}
			out[string(k)] = v
		})
		return out, rangeErr
	}
	return nil, nil
}
