package row

import (
	"reflect"
	"sort"
)

// Entry is one column of a Record.
type Entry struct {
	Name  string
	Value Value
}

// Field builds an Entry, tagging v with ValueOf.
func Field(name string, v interface{}) Entry {
	return Entry{Name: name, Value: ValueOf(v)}
}

// Record is an ordered name->value mapping. Names keep the case they were
// given with. The zero Record is empty and ready to use. Copies of a Record
// are independent: Set on one never shows through another.
type Record struct {
	entries []Entry
}

// New builds a Record from entries in order. Repeated names overwrite the
// earlier value and keep its position.
func New(entries ...Entry) Record {
	r := Record{}
	for _, e := range entries {
		r.put(e.Name, e.Value)
	}
	return r
}

// FromMap builds a Record from the dictionary surface. Go maps are unordered,
// so keys are emitted in sorted order to keep generated text deterministic.
func FromMap(m map[string]interface{}) Record {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := Record{}
	for _, k := range keys {
		r.put(k, ValueOf(m[k]))
	}
	return r
}

// Set inserts or overwrites a column. Overwriting keeps the original position.
// The columns are copied first, so other copies of r keep their contents.
func (r *Record) Set(name string, v Value) {
	entries := make([]Entry, len(r.entries), len(r.entries)+1)
	copy(entries, r.entries)
	r.entries = entries
	r.put(name, v)
}

// put is Set for records built locally whose columns are not shared yet.
func (r *Record) put(name string, v Value) {
	if i := r.indexOf(name); i >= 0 {
		r.entries[i].Value = v
		return
	}
	r.entries = append(r.entries, Entry{Name: name, Value: v})
}

// indexOf scans the columns; records are a handful of columns wide.
func (r Record) indexOf(name string) int {
	for i, e := range r.entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// Get returns the value stored under name.
func (r Record) Get(name string) (Value, bool) {
	i := r.indexOf(name)
	if i < 0 {
		return Null(), false
	}
	return r.entries[i].Value, true
}

// Len returns the number of columns.
func (r Record) Len() int {
	return len(r.entries)
}

// At returns the i-th column in insertion order.
func (r Record) At(i int) Entry {
	return r.entries[i]
}

// Entries returns a copy of the columns in insertion order.
func (r Record) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Keys returns column names in insertion order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.Name
	}
	return keys
}

// Map converts the record to the dictionary surface. Null values map to nil.
func (r Record) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r.entries))
	for _, e := range r.entries {
		m[e.Name] = e.Value.Interface()
	}
	return m
}

// Equal reports whether both records hold the same columns in the same order.
func (r Record) Equal(other Record) bool {
	if len(r.entries) != len(other.entries) {
		return false
	}
	for i, e := range r.entries {
		o := other.entries[i]
		if e.Name != o.Name || e.Value.Kind() != o.Value.Kind() {
			return false
		}
		if !reflect.DeepEqual(e.Value.Interface(), o.Value.Interface()) {
			return false
		}
	}
	return true
}
