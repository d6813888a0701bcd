package jsonkit

import (
	"reflect"
	"strings"
)

// ResolveStructKey applies the repository-wide rule to resolve a struct
// field's object key and whether it is dropped when empty.
// Priority: jsonkit:"name=..." > json tag name > field name; "-" disables the
// field. "omitempty" is honored in either tag.
func ResolveStructKey(sf reflect.StructField) (name string, omitEmpty bool) {
	if gt := sf.Tag.Get("jsonkit"); gt != "" {
		for _, p := range strings.Split(gt, ",") {
			p = strings.TrimSpace(p)
			switch {
			case p == "-":
				return "-", false
			case p == "omitempty":
				omitEmpty = true
			case strings.HasPrefix(p, "name="):
				name = strings.TrimPrefix(p, "name=")
			}
		}
		if name != "" {
			return name, omitEmpty
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-", false
		}
		tag, opts, _ := strings.Cut(jt, ",")
		if strings.Contains(","+opts+",", ",omitempty,") {
			omitEmpty = true
		}
		if tag != "" {
			return tag, omitEmpty
		}
	}
	return sf.Name, omitEmpty
}
