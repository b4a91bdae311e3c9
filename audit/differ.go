package audit

import "reflect"

// Diff returns the names of fields whose values differ between before and after,
// in declaration order. Every captured field takes part, denylisted ones
// included, so a password change shows up by name. Relations compare by
// referenced id; a field missing on one side counts as null.
func Diff(before, after Values) []string {
	afterByName := make(map[string]Value, len(after))
	for _, v := range after {
		afterByName[v.Name] = v
	}
	beforeNames := make(map[string]bool, len(before))

	changed := make([]string, 0)
	for _, o := range before {
		beforeNames[o.Name] = true
		n, ok := afterByName[o.Name]
		var data any
		if ok {
			data = n.Data
		}
		if !valuesEqual(o.Data, data) {
			changed = append(changed, o.Name)
		}
	}
	for _, n := range after {
		if !beforeNames[n.Name] && !valuesEqual(nil, n.Data) {
			changed = append(changed, n.Name)
		}
	}
	return changed
}

func valuesEqual(a, b any) bool {
	a, b = normalize(a), normalize(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(a, b)
}
