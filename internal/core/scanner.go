// Package core provides the internal implementation of automock's mock
// construction, spy configuration, and synchronous observable inspection.
package core

import (
	"reflect"
	"strings"
)

// definedPropertyData describes one discovered accessor pair.
type definedPropertyData struct {
	propertyName string
	hasGet       bool
	hasSet       bool
}

// memberData is the result of scanning one mockable type: the unique plain
// method names and the accessor pairs, in discovery order.
type memberData struct {
	methods    []string
	properties []definedPropertyData
}

// accessorPrefixLen is the length of the "Get"/"Set" accessor field prefix.
const accessorPrefixLen = 3

// scanMembers walks a struct type and its embedded chain, most-derived level
// first, and classifies every exported func-typed field as either an
// accessor direction (GetX with shape func() R, SetX with shape func(R)) or
// a plain method. A field name discovered at one level shadows the same name
// at deeper levels. Non-func fields are ignored silently. The scan never
// constructs a value or calls anything; classification failures on exotic
// types are swallowed and treated as "no data for this member".
func scanMembers(structType reflect.Type) memberData {
	var members memberData

	if structType == nil || structType.Kind() != reflect.Struct {
		return members
	}

	seen := map[string]bool{}
	propIndex := map[string]int{}

	// Level-order walk: direct fields first, then each embedded level.
	level := []reflect.Type{structType}
	for len(level) > 0 {
		var next []reflect.Type

		for _, st := range level {
			for i := range st.NumField() {
				field := st.Field(i)

				if field.Anonymous {
					embedded := field.Type
					if embedded.Kind() == reflect.Ptr {
						embedded = embedded.Elem()
					}

					if embedded.Kind() == reflect.Struct {
						next = append(next, embedded)
					}

					continue
				}

				classifyMember(field, seen, propIndex, &members)
			}
		}

		level = next
	}

	return members
}

// classifyMember sorts one field into the member data. Panics from
// reflecting on exotic field types must not abort the scan.
func classifyMember(
	field reflect.StructField,
	seen map[string]bool,
	propIndex map[string]int,
	members *memberData,
) {
	defer func() {
		_ = recover()
	}()

	if !field.IsExported() || seen[field.Name] {
		return
	}

	if field.Type.Kind() != reflect.Func {
		return
	}

	seen[field.Name] = true

	if property, isGet, ok := accessorShape(field); ok {
		index, exists := propIndex[property]
		if !exists {
			index = len(members.properties)
			propIndex[property] = index
			members.properties = append(members.properties, definedPropertyData{propertyName: property})
		}

		if isGet {
			members.properties[index].hasGet = true
		} else {
			members.properties[index].hasSet = true
		}

		return
	}

	members.methods = append(members.methods, field.Name)
}

// accessorShape reports whether a func field is one direction of an
// accessor pair: GetX with shape func() R, or SetX with shape func(R).
func accessorShape(field reflect.StructField) (property string, isGet bool, ok bool) {
	name := field.Name
	if len(name) <= accessorPrefixLen {
		return "", false, false
	}

	funcType := field.Type

	switch {
	case strings.HasPrefix(name, "Get") && funcType.NumIn() == 0 && funcType.NumOut() == 1:
		return name[accessorPrefixLen:], true, true
	case strings.HasPrefix(name, "Set") && funcType.NumIn() == 1 && funcType.NumOut() == 0:
		return name[accessorPrefixLen:], false, true
	default:
		return "", false, false
	}
}
