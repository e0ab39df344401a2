package bplist00

import (
	"reflect"
	"strings"
	"sync"
)

// fieldInfo describes one decodable struct field: its dictionary key (from
// the plist struct tag, defaulting to the field name) and the path of
// indices reflect needs to reach it, following encoding/json's convention
// for the same tag syntax ("name", "name,omitempty", ",omitempty", "-").
type fieldInfo struct {
	name  string
	index []int
}

func (fi fieldInfo) value(v reflect.Value) reflect.Value {
	for _, i := range fi.index {
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v
}

type typeInfo struct {
	fields []fieldInfo
}

var typeInfoCache sync.Map // map[reflect.Type]*typeInfo

// getTypeInfo returns the cached or newly computed field layout for a
// struct type, descending into anonymous embedded structs the way
// encoding/json does.
func getTypeInfo(typ reflect.Type) (*typeInfo, error) {
	if cached, ok := typeInfoCache.Load(typ); ok {
		return cached.(*typeInfo), nil
	}

	ti := &typeInfo{}
	if err := collectFields(typ, nil, ti); err != nil {
		return nil, err
	}
	actual, _ := typeInfoCache.LoadOrStore(typ, ti)
	return actual.(*typeInfo), nil
}

func collectFields(typ reflect.Type, index []int, ti *typeInfo) error {
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.PkgPath != "" && !f.Anonymous {
			continue // unexported
		}

		tag, ok := f.Tag.Lookup("plist")
		name, opts := parseTag(tag)
		if name == "-" && opts == "" {
			continue
		}

		ft := f.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}

		if f.Anonymous && !ok && ft.Kind() == reflect.Struct {
			sub := append(append([]int{}, index...), i)
			if err := collectFields(ft, sub, ti); err != nil {
				return err
			}
			continue
		}

		if name == "" {
			name = f.Name
		}

		fi := fieldInfo{name: name, index: append(append([]int{}, index...), i)}
		ti.fields = append(ti.fields, fi)
	}
	return nil
}

// parseTag splits a struct tag of the form "name,opt1,opt2" into its name
// and the raw remainder of options.
func parseTag(tag string) (name string, opts string) {
	if idx := strings.Index(tag, ","); idx != -1 {
		return tag[:idx], tag[idx+1:]
	}
	return tag, ""
}
