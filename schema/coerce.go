package schema

// Coerce returns a copy of doc in which lists held by StringSet and
// NumberSet fields are converted to the matching set type. Decoded JSON
// and YAML carry sets as plain lists. Lists whose elements do not fit the
// set are left alone for Prepare to reject.
func (s *Schema) Coerce(doc Document) Document {
	out := deepCopy(doc)
	coerceSets(s.fields, out)
	return out
}

func coerceSets(fields map[string]*Field, doc Document) {
	for name, f := range fields {
		if f == nil {
			continue
		}
		switch v := doc[name].(type) {
		case []any:
			if set, ok := listToSet(f.Kind, v); ok {
				doc[name] = set
			}
		case map[string]any:
			if f.isObjectWithFields() {
				coerceSets(f.Fields, v)
			}
		}
	}
}

func listToSet(kind Kind, list []any) (any, bool) {
	switch kind {
	case KindStringSet:
		set := make(StringSet, 0, len(list))
		for _, e := range list {
			str, ok := e.(string)
			if !ok {
				return nil, false
			}
			set = append(set, str)
		}
		return set, true
	case KindNumberSet:
		set := make(NumberSet, 0, len(list))
		for _, e := range list {
			n, ok := toFloat(e)
			if !ok {
				return nil, false
			}
			set = append(set, n)
		}
		return set, true
	}
	return nil, false
}
