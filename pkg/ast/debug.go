package ast

import (
	"fmt"
	"reflect"
	"strings"
)

const debugUnit = "  "

// DebugString renders a node as an indented tree of its fields in
// declaration order. Source positions are left out so trees built from
// differently formatted input compare equal.
func DebugString(n Node) string {
	var sb strings.Builder
	writeDebug(&sb, reflect.ValueOf(n), 0)
	return sb.String()
}

func writeDebug(sb *strings.Builder, v reflect.Value, depth int) {
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		sb.WriteString("nil\n")
		return
	}
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		sb.WriteString(v.Type().Name())
		sb.WriteByte('\n')
		for i := 0; i < v.NumField(); i++ {
			field := v.Type().Field(i)
			if field.Name == "Pos" {
				continue
			}
			sb.WriteString(strings.Repeat(debugUnit, depth+1))
			sb.WriteString(field.Name)
			sb.WriteString(": ")
			writeDebug(sb, v.Field(i), depth+1)
		}
	case reflect.Slice:
		if v.Len() == 0 {
			sb.WriteString("[]\n")
			return
		}
		sb.WriteByte('\n')
		for i := 0; i < v.Len(); i++ {
			sb.WriteString(strings.Repeat(debugUnit, depth+1))
			sb.WriteString("- ")
			writeDebug(sb, v.Index(i), depth+1)
		}
	default:
		sb.WriteString(debugScalar(v))
		sb.WriteByte('\n')
	}
}

func debugScalar(v reflect.Value) string {
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	switch x := v.Interface().(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case byte:
		return QuoteChar(x)
	}
	return fmt.Sprintf("%v", v.Interface())
}
