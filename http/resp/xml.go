package resp

import (
	"bytes"
	"fmt"
	"strconv"
)

const (
	defaultXmlRoot = "root"
	xmlContentType = "application/xml"
	xmlDeclaration = `<?xml version="1.0" encoding="utf-8"?>`
)

// ToXml serializes data into an XML document whose outermost element is root,
// or "root" when root is empty.
//
// Each key becomes the tag of an element holding its value; list elements are tagged by index.
// false and nil become an empty element, true becomes 1
// and floats are written with every significant digit and no exponent.
// Neither tags nor text are escaped.
//
// If data implements Xmlable, its ToXml output is the whole document.
func ToXml(data any, root string) (string, error) {
	if root == "" {
		root = defaultXmlRoot
	}

	nd, err := normalize(data, xmlFormat)
	if err != nil {
		return "", err
	}

	if nd.kind == rawXmlNode {
		return nd.raw, nil
	}

	b := getBuffer()
	defer putBuffer(b)

	b.WriteString(xmlDeclaration)
	if err := writeXmlElement(b, root, nd); err != nil {
		return "", err
	}

	return b.String(), nil
}

func writeXmlElement(b *bytes.Buffer, tag string, nd node) error {
	switch nd.kind {
	case nullNode:
		writeEmptyElement(b, tag)

	case scalarNode:
		text, empty := xmlText(nd.scalar)
		if empty {
			writeEmptyElement(b, tag)
			return nil
		}

		writeElement(b, tag, text)

	case rawXmlNode:
		writeElement(b, tag, nd.raw)

	case objectNode, listNode:
		if len(nd.children) == 0 {
			writeEmptyElement(b, tag)
			return nil
		}

		fmt.Fprintf(b, "<%s>", tag)
		for _, c := range nd.children {
			if err := writeXmlElement(b, c.key, c.val); err != nil {
				return err
			}
		}
		fmt.Fprintf(b, "</%s>", tag)

	default:
		return fmt.Errorf("%w: cannot write JSON as XML", ErrSerialization)
	}

	return nil
}

// xmlText stringifies a scalar, reporting whether it is written as an empty element.
func xmlText(v any) (string, bool) {
	switch s := v.(type) {
	case bool:
		if !s {
			return "", true
		}

		return "1", false
	case string:
		return s, false
	case int64:
		return strconv.FormatInt(s, 10), false
	case uint64:
		return strconv.FormatUint(s, 10), false
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32), false
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), false
	default:
		return fmt.Sprint(s), false
	}
}

func writeElement(b *bytes.Buffer, tag, text string) {
	b.WriteByte('<')
	b.WriteString(tag)
	b.WriteByte('>')
	b.WriteString(text)
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
}

func writeEmptyElement(b *bytes.Buffer, tag string) {
	b.WriteByte('<')
	b.WriteString(tag)
	b.WriteString("/>")
}
