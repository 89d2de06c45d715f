package generate

import "reflect"

// mergeInto deep-merges src into dst with dst priority: values already
// present in dst came from a higher-ranked rule and win scalar
// conflicts. Maps merge recursively, arrays concatenate with exact
// duplicates dropped.
func mergeInto(dst map[string]interface{}, src map[string]interface{}) {
	for key, sv := range src {
		dv, exists := dst[key]
		if !exists {
			dst[key] = cloneValue(sv)
			continue
		}
		dst[key] = mergeValue(dv, sv)
	}
}

func mergeValue(dst, src interface{}) interface{} {
	switch d := dst.(type) {
	case map[string]interface{}:
		if s, ok := src.(map[string]interface{}); ok {
			mergeInto(d, s)
		}
		return d
	case []interface{}:
		if s, ok := src.([]interface{}); ok {
			return appendUnique(d, s)
		}
		return d
	default:
		// Scalar conflict, the higher-ranked value stays
		return dst
	}
}

func appendUnique(dst, src []interface{}) []interface{} {
	for _, sv := range src {
		dup := false
		for _, dv := range dst {
			if reflect.DeepEqual(dv, sv) {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, cloneValue(sv))
		}
	}
	return dst
}

// cloneValue copies maps and slices so merging never mutates a rule's
// payload in the shared cache
func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, 0, len(val))
		for _, item := range val {
			out = append(out, cloneValue(item))
		}
		return out
	default:
		return val
	}
}
