package header

import (
	"iter"
)

// Field is a single name/value pair. The name is fixed at creation, the
// value may be rewritten in place (continuation folding, middleware edits).
type Field struct {
	name  string
	Value string
}

func (f *Field) Name() string {
	return f.name
}

// Fields is an ordered header collection. Insertion order is preserved and
// duplicate names are allowed, so repeated fields like Set-Cookie survive a
// parse/serialize round trip.
type Fields struct {
	fields []*Field
}

func New() *Fields {
	return &Fields{}
}

// Add appends a field unconditionally, keeping any existing duplicates.
func (fs *Fields) Add(name, value string) {
	fs.fields = append(fs.fields, &Field{name: name, Value: value})
}

// Value returns the value of the first field matching name. Matching is
// exact-name; duplicates beyond the first are not aggregated.
func (fs *Fields) Value(name string) (string, bool) {
	for _, f := range fs.fields {
		if f.name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Remove deletes every field matching name.
func (fs *Fields) Remove(name string) {
	kept := fs.fields[:0]
	for _, f := range fs.fields {
		if f.name != name {
			kept = append(kept, f)
		}
	}
	fs.fields = kept
}

// Replace removes all fields matching name and appends a single field with
// the given value, collapsing any prior duplicates.
func (fs *Fields) Replace(name, value string) {
	fs.Remove(name)
	fs.Add(name, value)
}

// All iterates over the fields in insertion order. The sequence is
// restartable and yields the live fields, so callers may mutate values
// while scanning (e.g. rewriting every Set-Cookie).
func (fs *Fields) All() iter.Seq[*Field] {
	return func(yield func(*Field) bool) {
		for _, f := range fs.fields {
			if !yield(f) {
				return
			}
		}
	}
}

func (fs *Fields) Len() int {
	return len(fs.fields)
}

// Last returns the most recently added field, or nil when empty.
func (fs *Fields) Last() *Field {
	if len(fs.fields) == 0 {
		return nil
	}
	return fs.fields[len(fs.fields)-1]
}

// Serialize emits each field as "name: value" terminated by CRLF, in
// insertion order.
func (fs *Fields) Serialize() []byte {
	size := 0
	for _, f := range fs.fields {
		size += len(f.name) + 2 + len(f.Value) + 2
	}

	buf := make([]byte, 0, size)
	for _, f := range fs.fields {
		buf = append(buf, f.name...)
		buf = append(buf, ':', ' ')
		buf = append(buf, f.Value...)
		buf = append(buf, '\r', '\n')
	}
	return buf
}
