package debugui

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/AllenDang/cimgui-go/imgui"
)

type fieldInfo struct {
	Name      string
	Index     int
	IsPointer bool
}

// fieldCache remembers the exported fields of component types.
type fieldCache struct {
	mu     sync.RWMutex
	fields map[reflect.Type][]fieldInfo
}

func newFieldCache() *fieldCache {
	return &fieldCache{fields: make(map[reflect.Type][]fieldInfo)}
}

func (fc *fieldCache) get(t reflect.Type) []fieldInfo {
	fc.mu.RLock()
	cached, ok := fc.fields[t]
	fc.mu.RUnlock()
	if ok {
		return cached
	}

	var fields []fieldInfo
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			fields = append(fields, fieldInfo{
				Name:      field.Name,
				Index:     i,
				IsPointer: field.Type.Kind() == reflect.Pointer,
			})
		}
	}

	fc.mu.Lock()
	fc.fields[t] = fields
	fc.mu.Unlock()
	return fields
}

// editValue draws an editor for val and writes edits straight back into it.
// val must be addressable for edits to stick; read-only values are shown as text.
func (fc *fieldCache) editValue(label string, val reflect.Value) {
	if !val.IsValid() {
		imgui.Text(label + ": <invalid>")
		return
	}
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			imgui.Text(label + ": nil")
			return
		}
		val = val.Elem()
	}

	id := "##" + label
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		fc.prefix(label, 150)
		if imgui.InputInt(id, &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		fc.prefix(label, 150)
		if imgui.InputInt(id, &v) && v >= 0 && val.CanSet() {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		fc.prefix(label, 150)
		if imgui.InputFloat(id, &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(label, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		fc.prefix(label, 200)
		if imgui.InputTextWithHint(id, "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(label) {
			for _, f := range fc.get(val.Type()) {
				fc.editValue(f.Name, val.Field(f.Index))
			}
			imgui.TreePop()
		}

	case reflect.Slice, reflect.Array:
		if imgui.TreeNodeStr(fmt.Sprintf("%s [%d]", label, val.Len())) {
			for i := 0; i < val.Len(); i++ {
				fc.editValue(fmt.Sprintf("%s[%d]", label, i), val.Index(i))
			}
			imgui.TreePop()
		}

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", label, val.Len()))

	default:
		if val.CanInterface() {
			imgui.Text(fmt.Sprintf("%s: %v", label, val.Interface()))
		} else {
			imgui.Text(label + ": ?")
		}
	}
}

func (fc *fieldCache) prefix(label string, width float32) {
	imgui.Text(label + ":")
	imgui.SameLine()
	imgui.SetNextItemWidth(width)
}

func reflectValue(component any) reflect.Value {
	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Pointer {
		val = val.Elem()
	}
	return val
}
