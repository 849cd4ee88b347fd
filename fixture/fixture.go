// Package fixture loads selector documents written in YAML.
//
// A document lists selectors to be combined and may declare attributes
// known for the feature type and the expected canonical result:
//
//	name: primary roads at city scales
//	schema:
//	  name: roads
//	  attributes: [class, lanes]
//	selectors:
//	  - type: roads
//	  - scale: [null, 25000]
//	  - data: "lanes >= 2"
//	  - or:
//	      - pseudo: mark
//	      - pseudo: {class: stroke, nth: 2}
//	expect: >-
//	  (roads [@scale < 25000] [lanes >= 2] :mark),
//	  (roads [@scale < 25000] [lanes >= 2] :nth-stroke(2))
//
// Composite nodes are built as authored, without any simplification, so
// combining them exercises the selector algebra on the written shape.
package fixture

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"geocss/filter"
	"geocss/selector"
)

// ErrUnknownSelector is returned for selector nodes of unsupported form.
var ErrUnknownSelector = errors.New("unknown selector")

// Document is a list of selectors to be combined together.
type Document struct {
	Name      string
	Source    string
	Schema    *filter.Schema
	Selectors []selector.Selector
	Expect    string
}

// Scope returns value to be passed to the combiner with document selectors.
func (d *Document) Scope() any {
	if d.Schema == nil {
		return nil
	}
	return d.Schema
}

type (
	schemaNode struct {
		Name       string   `yaml:"name"`
		Attributes []string `yaml:"attributes"`
	}

	documentNode struct {
		Name      string      `yaml:"name"`
		Schema    *schemaNode `yaml:"schema"`
		Selectors []yaml.Node `yaml:"selectors"`
		Expect    string      `yaml:"expect"`
	}

	pseudoNode struct {
		Class string `yaml:"class"`
		Nth   int    `yaml:"nth"`
	}
)

// Decode reads every YAML document of the stream. Source names stream origin
// in errors and in returned documents.
func Decode(source string, r io.Reader) ([]*Document, error) {
	// unknown keys are errors, yaml.Unmarshal would skip them
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var docs []*Document
	for i := 0; ; i++ {
		var node documentNode
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%s: failed to decode document %d: %w", source, i, err)
		}
		doc, err := node.build(source, i)
		if err != nil {
			return nil, fmt.Errorf("%s: document %d: %w", source, i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Parse decodes single selector written as YAML node, e.g. "{type: roads}".
func Parse(text string) (selector.Selector, error) {
	var n yaml.Node
	if err := yaml.Unmarshal([]byte(text), &n); err != nil {
		return nil, fmt.Errorf("failed to parse selector: %w", err)
	}
	if n.Kind != yaml.DocumentNode || len(n.Content) != 1 {
		return nil, fmt.Errorf("%w: empty selector", ErrUnknownSelector)
	}
	return decodeSelector(n.Content[0], nil)
}

func (n *documentNode) build(source string, index int) (*Document, error) {
	doc := &Document{
		Name:   n.Name,
		Source: source,
		Expect: n.Expect,
	}
	if doc.Name == "" {
		doc.Name = fmt.Sprintf("%s[%d]", source, index)
	}
	if n.Schema != nil {
		doc.Schema = filter.NewSchema(n.Schema.Name, n.Schema.Attributes...)
	}
	scope := doc.Scope()
	for i := range n.Selectors {
		sel, err := decodeSelector(&n.Selectors[i], scope)
		if err != nil {
			return nil, fmt.Errorf("selector %d: %w", i, err)
		}
		doc.Selectors = append(doc.Selectors, sel)
	}
	return doc, nil
}

func nodeError(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("line %d: %w", n.Line, fmt.Errorf(format, args...))
}

// decodeSelector builds selector out of the node. Leaf tests no feature in
// scope could pass are decoded as never.
func decodeSelector(n *yaml.Node, scope any) (selector.Selector, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return decodeSelector(n.Alias, scope)
	case yaml.ScalarNode:
		switch strings.ToLower(n.Value) {
		case "always":
			return selector.Always, nil
		case "never":
			return selector.Never, nil
		}
		return nil, nodeError(n, "%w %q", ErrUnknownSelector, n.Value)
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, nodeError(n, "%w: selector mapping must have exactly one key, got %d", ErrUnknownSelector, len(n.Content)/2)
		}
		return decodeTest(n.Content[0].Value, n.Content[1], scope)
	}
	return nil, nodeError(n, "%w: unexpected node", ErrUnknownSelector)
}

func decodeTest(key string, val *yaml.Node, scope any) (selector.Selector, error) {
	switch key {
	case "type":
		var name string
		if err := val.Decode(&name); err != nil {
			return nil, nodeError(val, "bad type name: %w", err)
		}
		return selector.NewTypeName(name), nil

	case "scale":
		var bounds []*float64
		if err := val.Decode(&bounds); err != nil {
			return nil, nodeError(val, "bad scale range: %w", err)
		}
		if len(bounds) != 2 {
			return nil, nodeError(val, "scale range needs [min, max], got %d values", len(bounds))
		}
		return selector.ScaleTest(bound(bounds[0]), bound(bounds[1])), nil

	case "id":
		var ids []string
		if val.Kind == yaml.ScalarNode {
			ids = []string{val.Value}
		} else if err := val.Decode(&ids); err != nil {
			return nil, nodeError(val, "bad id list: %w", err)
		}
		if len(ids) == 0 {
			return nil, nodeError(val, "id list is empty")
		}
		return selector.NewID(ids...), nil

	case "data":
		var text string
		if err := val.Decode(&text); err != nil {
			return nil, nodeError(val, "bad data expression: %w", err)
		}
		expr, err := filter.Parse(text)
		if err != nil {
			return nil, nodeError(val, "%w", err)
		}
		return selector.DataTest(expr, scope), nil

	case "pseudo":
		var p pseudoNode
		if val.Kind == yaml.ScalarNode {
			p.Class = val.Value
		} else if err := val.Decode(&p); err != nil {
			return nil, nodeError(val, "bad pseudo-class: %w", err)
		}
		return selector.NewPseudoClass(p.Class, p.Nth), nil

	case "and", "or":
		if val.Kind != yaml.SequenceNode {
			return nil, nodeError(val, "%s expects a list of selectors", key)
		}
		children := make([]selector.Selector, 0, len(val.Content))
		for _, c := range val.Content {
			child, err := decodeSelector(c, scope)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return composite(key, children), nil
	}
	return nil, nodeError(val, "%w %q", ErrUnknownSelector, key)
}

// composite keeps authored shape, degenerate lists become the identity
// element or the only member.
func composite(key string, children []selector.Selector) selector.Selector {
	switch {
	case len(children) == 1:
		return children[0]
	case len(children) == 0 && key == "and":
		return selector.Always
	case len(children) == 0:
		return selector.Never
	case key == "and":
		return selector.NewAnd(children...)
	}
	return selector.NewOr(children...)
}

func bound(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
