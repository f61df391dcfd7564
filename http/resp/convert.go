package resp

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// maxDepth bounds nesting, catching cycles no pointer identifies,
// e.g., an Arrayable returning itself by value.
const maxDepth = 1000

type format int

const (
	jsonFormat format = iota
	xmlFormat
)

type nodeKind int

const (
	nullNode nodeKind = iota
	scalarNode
	objectNode
	listNode
	rawJsonNode
	rawXmlNode
)

// A node is data normalized for serializing:
// scalars hold a bool, string, int64, uint64, float32 or float64.
type node struct {
	kind     nodeKind
	scalar   any
	children []child
	raw      string
}

type child struct {
	key string
	val node
}

// A visit identifies a reference-like value on the path being normalized.
type visit struct {
	ptr uintptr
	typ reflect.Type
	n   int
}

type normalizer struct {
	f     format
	depth int
	path  map[visit]struct{}
}

// normalize converts data into a node tree for the given format.
func normalize(data any, f format) (node, error) {
	n := &normalizer{f: f, path: make(map[visit]struct{})}
	return n.value(reflect.ValueOf(data))
}

func (n *normalizer) value(v reflect.Value) (node, error) {
	if !v.IsValid() {
		return node{kind: nullNode}, nil
	}

	n.depth++
	defer func() { n.depth-- }()
	if n.depth > maxDepth {
		return node{}, fmt.Errorf("%w: nested deeper than %d levels", ErrSerialization, maxDepth)
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return node{kind: nullNode}, nil
		}
	}

	if nd, ok, err := n.capability(v); ok || err != nil {
		return nd, err
	}

	switch v.Kind() {
	case reflect.Interface:
		return n.value(v.Elem())

	case reflect.Pointer:
		leave, err := n.enter(v, 0)
		if err != nil {
			return node{}, err
		}
		defer leave()

		return n.value(v.Elem())

	case reflect.Bool:
		return node{kind: scalarNode, scalar: v.Bool()}, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return node{kind: scalarNode, scalar: v.Int()}, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return node{kind: scalarNode, scalar: v.Uint()}, nil

	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return node{}, fmt.Errorf("%w: unsupported float %v", ErrSerialization, f)
		}

		if v.Kind() == reflect.Float32 {
			return node{kind: scalarNode, scalar: float32(f)}, nil
		}

		return node{kind: scalarNode, scalar: f}, nil

	case reflect.String:
		return node{kind: scalarNode, scalar: v.String()}, nil

	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return node{kind: scalarNode, scalar: string(v.Bytes())}, nil
		}

		leave, err := n.enter(v, v.Len())
		if err != nil {
			return node{}, err
		}
		defer leave()

		return n.list(v)

	case reflect.Array:
		return n.list(v)

	case reflect.Map:
		leave, err := n.enter(v, 0)
		if err != nil {
			return node{}, err
		}
		defer leave()

		return n.mapping(v)

	case reflect.Struct:
		nd := node{kind: objectNode}
		if err := n.fields(v, &nd); err != nil {
			return node{}, err
		}

		return nd, nil

	default:
		return node{}, fmt.Errorf("%w: unsupported type %s", ErrSerialization, v.Type())
	}
}

// capability applies the conversion a value chooses for itself, in this order:
// Xmlable (XML only), ordered maps, json.Marshaler (JSON only), Arrayable and encoding.TextMarshaler.
func (n *normalizer) capability(v reflect.Value) (node, bool, error) {
	if !v.CanInterface() {
		return node{}, false, nil
	}

	candidates := []any{v.Interface()}
	if v.Kind() != reflect.Pointer && v.CanAddr() {
		candidates = append(candidates, v.Addr().Interface())
	}

	for _, i := range candidates {
		if x, ok := i.(Xmlable); ok && n.f == xmlFormat {
			return node{kind: rawXmlNode, raw: x.ToXml()}, true, nil
		}

		if om, ok := i.(*orderedmap.OrderedMap[string, any]); ok {
			nd, err := n.ordered(reflect.ValueOf(om), om)
			return nd, true, err
		}

		if m, ok := i.(json.Marshaler); ok && n.f == jsonFormat {
			b, err := m.MarshalJSON()
			if err != nil {
				return node{}, true, fmt.Errorf("%w: %T: %s", ErrSerialization, i, err)
			}

			buf := new(bytes.Buffer)
			if err := json.Compact(buf, b); err != nil {
				return node{}, true, fmt.Errorf("%w: %T produced invalid JSON: %s", ErrSerialization, i, err)
			}

			return node{kind: rawJsonNode, raw: buf.String()}, true, nil
		}

		if a, ok := i.(Arrayable); ok {
			nd, err := n.value(reflect.ValueOf(a.ToArray()))
			return nd, true, err
		}

		if t, ok := i.(encoding.TextMarshaler); ok {
			b, err := t.MarshalText()
			if err != nil {
				return node{}, true, fmt.Errorf("%w: %T: %s", ErrSerialization, i, err)
			}

			return node{kind: scalarNode, scalar: string(b)}, true, nil
		}
	}

	return node{}, false, nil
}

// enter marks v as on the current path, failing if it already is.
// Calling the returned func takes v off the path.
func (n *normalizer) enter(v reflect.Value, length int) (func(), error) {
	key := visit{ptr: v.Pointer(), typ: v.Type(), n: length}
	if _, ok := n.path[key]; ok {
		return nil, fmt.Errorf("%w: encountered a cycle via %s", ErrSerialization, v.Type())
	}

	n.path[key] = struct{}{}
	return func() { delete(n.path, key) }, nil
}

func (n *normalizer) list(v reflect.Value) (node, error) {
	nd := node{kind: listNode, children: make([]child, 0, v.Len())}
	for i := 0; i < v.Len(); i++ {
		val, err := n.value(v.Index(i))
		if err != nil {
			return node{}, err
		}

		nd.children = append(nd.children, child{key: strconv.Itoa(i), val: val})
	}

	return nd, nil
}

// mapping sorts the keys of a Go map, which keeps no insertion order.
func (n *normalizer) mapping(v reflect.Value) (node, error) {
	type entry struct {
		key string
		val reflect.Value
	}

	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key())
		if err != nil {
			return node{}, err
		}

		entries = append(entries, entry{key: key, val: iter.Value()})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	nd := node{kind: objectNode, children: make([]child, 0, len(entries))}
	for _, e := range entries {
		val, err := n.value(e.val)
		if err != nil {
			return node{}, err
		}

		nd.children = append(nd.children, child{key: e.key, val: val})
	}

	return nd, nil
}

func (n *normalizer) ordered(v reflect.Value, om *orderedmap.OrderedMap[string, any]) (node, error) {
	leave, err := n.enter(v, 0)
	if err != nil {
		return node{}, err
	}
	defer leave()

	nd := node{kind: objectNode, children: make([]child, 0, om.Len())}
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		val, err := n.value(reflect.ValueOf(pair.Value))
		if err != nil {
			return node{}, err
		}

		nd.children = append(nd.children, child{key: pair.Key, val: val})
	}

	return nd, nil
}

// fields appends the exported fields of the struct v in declaration order,
// flattening untagged embedded structs.
func (n *normalizer) fields(v reflect.Value, nd *node) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, opts, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" && opts == "" {
			continue
		}

		fv := v.Field(i)
		if sf.Anonymous && name == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				if fv.IsNil() {
					continue
				}

				fv, ft = fv.Elem(), ft.Elem()
			}

			if ft.Kind() == reflect.Struct {
				if err := n.fields(fv, nd); err != nil {
					return err
				}

				continue
			}
		}

		if !sf.IsExported() {
			continue
		}

		if name == "" {
			name = sf.Name
		}

		if strings.Contains(opts, "omitempty") && isEmptyValue(fv) {
			continue
		}

		val, err := n.value(fv)
		if err != nil {
			return err
		}

		nd.children = append(nd.children, child{key: name, val: val})
	}

	return nil
}

func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}

	if k.CanInterface() {
		if t, ok := k.Interface().(encoding.TextMarshaler); ok {
			b, err := t.MarshalText()
			if err != nil {
				return "", fmt.Errorf("%w: map key %T: %s", ErrSerialization, t, err)
			}

			return string(b), nil
		}
	}

	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	default:
		return "", fmt.Errorf("%w: unsupported map key type %s", ErrSerialization, k.Type())
	}
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	default:
		return false
	}
}
