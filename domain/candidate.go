package domain

// Candidate is the raw structured guess returned by the extraction oracle,
// before any normalization. Field values are untrusted: the oracle is asked
// for {title, assignee, dueDate, priority} but may return anything that is a
// JSON object.
type Candidate map[string]any

// StringField reads a field that is expected to hold a string or null.
// ok is false when the field is present with a non-string, non-null value.
func (c Candidate) StringField(name string) (value string, present bool, ok bool) {
	raw, exists := c[name]
	if !exists || raw == nil {
		return "", false, true
	}
	s, isString := raw.(string)
	if !isString {
		return "", true, false
	}
	return s, true, true
}
