package model

// CloneField returns a copy of f whose Options slice does not alias the
// original.
func CloneField(f Field) Field {
	out := f
	if f.Options != nil {
		out.Options = append([]string(nil), f.Options...)
	}
	return out
}

// CloneFields deep-copies a field list. History snapshots and store accessors
// rely on this so later edits cannot reach back into older state.
func CloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = CloneField(f)
	}
	return out
}

// CloneValues copies a submission value map, duplicating []string values so
// checkbox selections do not alias.
func CloneValues(values map[string]any) map[string]any {
	if values == nil {
		return nil
	}
	out := make(map[string]any, len(values))
	for k, v := range values {
		if list, ok := v.([]string); ok {
			out[k] = append([]string(nil), list...)
			continue
		}
		out[k] = v
	}
	return out
}
