package resp

// Arrayable is the interface implemented by types
// that convert themselves into plain data (maps, slices, structs, scalars)
// before being serialized to JSON or XML.
type Arrayable interface {
	ToArray() any
}

// Xmlable is the interface implemented by types that render themselves as XML.
//
// At the top level of ToXml, the rendered string is the whole document;
// nested, it becomes the content of its element.
type Xmlable interface {
	ToXml() string
}
