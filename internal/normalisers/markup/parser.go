// Package markup parses XML markup into ordered domain.Node trees.
//
// Element and attribute names are kept exactly as written, prefix
// included ("w:p", "xmlns:w"). Namespace prefixes are not resolved.
//
// Whitespace-only text is dropped unless the nearest enclosing
// xml:space attribute is "preserve". All other text is kept verbatim.
// Comments, processing instructions and directives are skipped.
package markup

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/docsnap/internal/core/domain"
	"github.com/custodia-labs/docsnap/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.MarkupParser = (*Parser)(nil)

const xmlSpacePreserve = "preserve"

// Parser converts markup text into a tree.
type Parser struct{}

// New creates a new markup parser.
func New() *Parser {
	return &Parser{}
}

// frame is an open element on the parse stack.
type frame struct {
	node     *domain.Node
	preserve bool
	text     strings.Builder
}

// flush appends buffered character data to the frame's node.
func (f *frame) flush() {
	if f.text.Len() == 0 {
		return
	}
	text := f.text.String()
	f.text.Reset()
	if !f.preserve && strings.TrimSpace(text) == "" {
		return
	}
	f.node.Children = append(f.node.Children, domain.NewText(text))
}

// Parse returns the root element of markup.
func (p *Parser) Parse(markup string) (*domain.Node, error) {
	dec := xml.NewDecoder(strings.NewReader(markup))
	dec.Strict = true

	var root *domain.Node
	var stack []*frame

	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed("%v", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && root != nil {
				return nil, malformed("second root element <%s>", qualifiedName(t.Name))
			}
			node, err := newElement(t)
			if err != nil {
				return nil, err
			}

			preserve := false
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.flush()
				parent.node.Children = append(parent.node.Children, node)
				preserve = parent.preserve
			} else {
				root = node
			}
			if space, ok := node.Attr("xml:space"); ok {
				preserve = space == xmlSpacePreserve
			}
			stack = append(stack, &frame{node: node, preserve: preserve})

		case xml.EndElement:
			name := qualifiedName(t.Name)
			if len(stack) == 0 {
				return nil, malformed("unexpected </%s>", name)
			}
			top := stack[len(stack)-1]
			if top.node.Name != name {
				return nil, malformed("</%s> closes <%s>", name, top.node.Name)
			}
			top.flush()
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, malformed("text outside root element")
				}
				continue
			}
			stack[len(stack)-1].text.Write(t)
		}
	}

	if len(stack) > 0 {
		return nil, malformed("unclosed <%s>", stack[len(stack)-1].node.Name)
	}
	if root == nil {
		return nil, malformed("no root element")
	}
	return root, nil
}

// newElement converts a start token, rejecting duplicate attributes.
func newElement(t xml.StartElement) (*domain.Node, error) {
	name := qualifiedName(t.Name)
	var attrs []domain.Attr
	if len(t.Attr) > 0 {
		attrs = make([]domain.Attr, 0, len(t.Attr))
		seen := make(map[string]bool, len(t.Attr))
		for _, a := range t.Attr {
			attrName := qualifiedName(a.Name)
			if seen[attrName] {
				return nil, malformed("duplicate attribute %s on <%s>", attrName, name)
			}
			seen[attrName] = true
			attrs = append(attrs, domain.Attr{Name: attrName, Value: a.Value})
		}
	}
	return domain.NewElement(name, attrs), nil
}

// qualifiedName joins an unresolved prefix and local name.
func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), domain.ErrMalformedMarkup)
}
