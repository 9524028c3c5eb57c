package series

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// BuildDiff computes the minimal changed-path set between a processed
// working copy and the committed snapshot. Paths are dotted strings
// rooted at basePath; in multi-entity mode each entity contributes its
// index as a segment, in single mode the lone entity maps directly onto
// basePath. Only the edited field's series and auxiliary attributes
// whose serialized value differs are emitted; unchanged attributes
// never appear.
func BuildDiff(processed, original []Entity, single bool, basePath []string, field string) map[string]any {
	diff := make(map[string]any)

	for i := range processed {
		var orig Entity
		if i < len(original) {
			orig = original[i]
		}

		prefix := strings.Join(basePath, ".")
		if !single {
			prefix += "." + strconv.Itoa(i)
		}

		if !jsonEqual(processed[i].Points(field), orig.Points(field)) {
			diff[prefix+"."+field] = ClonePoints(processed[i].Points(field))
		}

		for name, v := range processed[i].Attrs {
			var origVal any
			if orig.Attrs != nil {
				origVal = orig.Attrs[name]
			}
			if !jsonEqual(v, origVal) {
				diff[prefix+"."+name] = v
			}
		}

		if processed[i].Name != orig.Name {
			diff[prefix+".name"] = processed[i].Name
		}
	}

	return diff
}

// jsonEqual compares two values by serialized form. Distinguishes nil
// from empty slices the same way persistence would see them.
func jsonEqual(a, b any) bool {
	aj, aerr := json.Marshal(a)
	bj, berr := json.Marshal(b)
	if aerr != nil || berr != nil {
		return false
	}
	return bytes.Equal(aj, bj)
}
