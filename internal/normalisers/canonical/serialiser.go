// Package canonical renders markup trees as deterministic pretty text.
//
// The form is JSON with two-space indentation. Each element is an object
// whose keys always appear in this order:
//
//	{
//	  "tag": "w:p",
//	  "attributes": {
//	    "w:rsidR": "00A1B2C3"
//	  },
//	  "children": [
//	    "Hello"
//	  ]
//	}
//
// "attributes" keeps document order and is omitted when empty, as is
// "children". Text leaves are JSON strings. HTML characters are not
// escaped so markup text stays readable in diffs.
package canonical

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/docsnap/internal/core/domain"
	"github.com/custodia-labs/docsnap/internal/core/ports/driven"
)

// Ensure Serialiser implements the interface.
var _ driven.Serialiser = (*Serialiser)(nil)

const indent = "  "

// Object keys of an element.
const (
	keyTag        = "tag"
	keyAttributes = "attributes"
	keyChildren   = "children"
)

// Serialiser renders trees in canonical form.
type Serialiser struct{}

// New creates a new canonical serialiser.
func New() *Serialiser {
	return &Serialiser{}
}

// Serialise renders node in canonical form.
func (s *Serialiser) Serialise(node *domain.Node) string {
	return Serialise(node)
}

// Serialise renders node in canonical form, ending with a newline.
// A nil node renders as JSON null.
func Serialise(node *domain.Node) string {
	var compact bytes.Buffer
	writeNode(&compact, node)

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", indent); err != nil {
		// writeNode only emits valid JSON
		return compact.String() + "\n"
	}
	out.WriteByte('\n')
	return out.String()
}

func writeNode(buf *bytes.Buffer, node *domain.Node) {
	switch {
	case node == nil:
		buf.WriteString("null")
	case node.IsText():
		writeString(buf, node.Text)
	default:
		buf.WriteByte('{')
		writeString(buf, keyTag)
		buf.WriteByte(':')
		writeString(buf, node.Name)

		if len(node.Attrs) > 0 {
			buf.WriteByte(',')
			writeString(buf, keyAttributes)
			buf.WriteString(":{")
			for i, a := range node.Attrs {
				if i > 0 {
					buf.WriteByte(',')
				}
				writeString(buf, a.Name)
				buf.WriteByte(':')
				writeString(buf, a.Value)
			}
			buf.WriteByte('}')
		}

		if len(node.Children) > 0 {
			buf.WriteByte(',')
			writeString(buf, keyChildren)
			buf.WriteString(":[")
			for i, c := range node.Children {
				if i > 0 {
					buf.WriteByte(',')
				}
				writeNode(buf, c)
			}
			buf.WriteByte(']')
		}
		buf.WriteByte('}')
	}
}

// writeString appends s as a JSON string without HTML escaping.
func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		// strings always encode
		buf.WriteString(`""`)
		return
	}
	unescapeLineSeparators(buf, bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
}

// unescapeLineSeparators copies encoded to buf, writing the \u2028 and
// \u2029 escapes that encoding/json always emits as literal characters.
// Date patterns would otherwise match digits inside the escape.
func unescapeLineSeparators(buf *bytes.Buffer, encoded []byte) {
	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		if c != '\\' || i+1 >= len(encoded) {
			buf.WriteByte(c)
			continue
		}
		if encoded[i+1] == 'u' && i+6 <= len(encoded) {
			switch string(encoded[i+2 : i+6]) {
			case "2028":
				buf.WriteRune('\u2028')
				i += 5
				continue
			case "2029":
				buf.WriteRune('\u2029')
				i += 5
				continue
			}
		}
		// Copy the escape pair whole so an escaped backslash is never
		// read as the start of another escape.
		buf.WriteByte(c)
		buf.WriteByte(encoded[i+1])
		i++
	}
}

// Decode parses canonical text back into a tree. Any deviation from the
// canonical schema is an error wrapping domain.ErrNormalization.
func Decode(text string) (*domain.Node, error) {
	dec := json.NewDecoder(strings.NewReader(text))

	tok, err := dec.Token()
	if err != nil {
		return nil, invalid("reading root: %v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, invalid("root is not an element object")
	}
	node, err := decodeElement(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, invalid("trailing data after root element")
	}
	return node, nil
}

// decodeElement reads an element object whose opening brace was consumed.
func decodeElement(dec *json.Decoder) (*domain.Node, error) {
	node := &domain.Node{Kind: domain.NodeElement}
	seen := make(map[string]bool, 3)

	for dec.More() {
		key, err := readString(dec)
		if err != nil {
			return nil, err
		}
		if seen[key] {
			return nil, invalid("duplicate key %q", key)
		}
		seen[key] = true

		switch key {
		case keyTag:
			if node.Name, err = readString(dec); err != nil {
				return nil, err
			}
		case keyAttributes:
			if node.Attrs, err = decodeAttributes(dec); err != nil {
				return nil, err
			}
		case keyChildren:
			if node.Children, err = decodeChildren(dec); err != nil {
				return nil, err
			}
		default:
			return nil, invalid("unknown key %q", key)
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	if node.Name == "" {
		return nil, invalid("element without tag")
	}
	return node, nil
}

func decodeAttributes(dec *json.Decoder) ([]domain.Attr, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var attrs []domain.Attr
	seen := make(map[string]bool)
	for dec.More() {
		name, err := readString(dec)
		if err != nil {
			return nil, err
		}
		if name == "" || seen[name] {
			return nil, invalid("bad attribute name %q", name)
		}
		seen[name] = true

		value, err := readString(dec)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, domain.Attr{Name: name, Value: value})
	}
	return attrs, expectDelim(dec, '}')
}

func decodeChildren(dec *json.Decoder) ([]*domain.Node, error) {
	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var children []*domain.Node
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, invalid("reading child: %v", err)
		}
		switch t := tok.(type) {
		case string:
			children = append(children, domain.NewText(t))
		case json.Delim:
			if t != '{' {
				return nil, invalid("unexpected %q in children", t)
			}
			child, err := decodeElement(dec)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		default:
			return nil, invalid("unexpected child %v", t)
		}
	}
	return children, expectDelim(dec, ']')
}

func readString(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", invalid("%v", err)
	}
	s, ok := tok.(string)
	if !ok {
		return "", invalid("expected string, got %v", tok)
	}
	return s, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return invalid("%v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return invalid("expected %q, got %v", want, tok)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), domain.ErrNormalization)
}
