package resp

import "strings"

// A Field is a single header line: one name paired with one value.
type Field struct {
	Name  string
	Value string
}

type headerEntry struct {
	name   string
	values []string
}

// A Header is an ordered mapping of case-insensitive header names to their values.
//
// Names keep the spelling and position of their first insertion.
// The zero value is an empty Header.
//
// A Header is never changed after construction;
// a Response copies it before adding to or removing from it.
type Header struct {
	entries []headerEntry
}

// Get returns the first value associated with name or the empty string.
func (h Header) Get(name string) string {
	i := h.index(name)
	if i < 0 || len(h.entries[i].values) == 0 {
		return ""
	}

	return h.entries[i].values[0]
}

// Has reports whether name is present.
func (h Header) Has(name string) bool { return h.index(name) >= 0 }

// Len returns the number of distinct header names.
func (h Header) Len() int { return len(h.entries) }

// Line returns the values associated with name joined by a comma.
func (h Header) Line(name string) string { return strings.Join(h.Values(name), ",") }

// Names returns the header names in insertion order.
func (h Header) Names() []string {
	names := make([]string, len(h.entries))
	for i, e := range h.entries {
		names[i] = e.name
	}

	return names
}

// Values returns a copy of the values associated with name.
func (h Header) Values(name string) []string {
	i := h.index(name)
	if i < 0 {
		return nil
	}

	return append([]string(nil), h.entries[i].values...)
}

// Fields flattens the Header into its lines,
// ordered by name insertion and then by value insertion.
func (h Header) Fields() []Field {
	fields := make([]Field, 0, len(h.entries))
	for _, e := range h.entries {
		for _, v := range e.values {
			fields = append(fields, Field{Name: e.name, Value: v})
		}
	}

	return fields
}

// add returns a copy of h with value appended to name's values.
func (h Header) add(name, value string) Header {
	c := h.clone()
	if i := c.index(name); i >= 0 {
		c.entries[i].values = append(c.entries[i].values, value)
		return c
	}

	c.entries = append(c.entries, headerEntry{name: name, values: []string{value}})
	return c
}

// del returns a copy of h without name.
func (h Header) del(name string) Header {
	i := h.index(name)
	if i < 0 {
		return h
	}

	c := h.clone()
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	return c
}

// set returns a copy of h with name's values replaced by value.
func (h Header) set(name, value string) Header {
	c := h.clone()
	if i := c.index(name); i >= 0 {
		c.entries[i].values = []string{value}
		return c
	}

	c.entries = append(c.entries, headerEntry{name: name, values: []string{value}})
	return c
}

func (h Header) clone() Header {
	entries := make([]headerEntry, len(h.entries))
	for i, e := range h.entries {
		entries[i] = headerEntry{name: e.name, values: append([]string(nil), e.values...)}
	}

	return Header{entries: entries}
}

func (h Header) index(name string) int {
	for i, e := range h.entries {
		if strings.EqualFold(e.name, name) {
			return i
		}
	}

	return -1
}
