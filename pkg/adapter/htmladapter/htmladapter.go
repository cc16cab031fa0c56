// Package htmladapter is the reference HTML front-end. Markup carries a
// surprising amount of interaction semantics: inline on* handlers,
// tabindex and aria-* attributes, autofocus, meta refresh, and the
// script/anchor references that seed cross-file discovery.
package htmladapter

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"

	"github.com/ariadne-dev/ariadne/pkg/adapter"
	"github.com/ariadne-dev/ariadne/pkg/ir"
)

// Adapter parses HTML documents into IR trees.
type Adapter struct{}

// New returns an HTML adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Language() string { return "html" }

func (a *Adapter) Extensions() []string { return []string{".html", ".htm"} }

// Create parses markup and extracts interaction nodes.
func (a *Adapter) Create(source []byte, path string) ([]*ir.ActionNode, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(html.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	ex := &extractor{source: source, path: path}
	ex.visit(tree.RootNode())

	for _, n := range ex.nodes {
		if n.ID == "" {
			n.ID = n.StableID()
		}
	}
	return ex.nodes, nil
}

type extractor struct {
	source []byte
	path   string
	nodes  []*ir.ActionNode
}

func (e *extractor) visit(n *sitter.Node) {
	if n.Type() == "start_tag" || n.Type() == "self_closing_tag" {
		e.liftTag(n)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		e.visit(n.NamedChild(i))
	}
}

type htmlAttr struct {
	name  string
	value string
	node  *sitter.Node
}

func (e *extractor) liftTag(tag *sitter.Node) {
	var tagName string
	var attrs []htmlAttr
	byName := make(map[string]string)

	for i := 0; i < int(tag.NamedChildCount()); i++ {
		child := tag.NamedChild(i)
		switch child.Type() {
		case "tag_name":
			tagName = child.Content(e.source)
		case "attribute":
			name, value := e.attribute(child)
			if name != "" {
				attrs = append(attrs, htmlAttr{name: name, value: value, node: child})
				byName[name] = value
			}
		}
	}

	ref := ir.ElementRef{}
	if id := byName["id"]; id != "" {
		ref = ir.ElementRef{ID: id, Selector: "#" + id}
	}

	for _, a := range attrs {
		name, value, at := a.name, a.value, a.node
		switch {
		case strings.HasPrefix(name, "on"):
			node := e.newNode(ir.ActionEventHandler, at, ref)
			node.Event = strings.TrimPrefix(name, "on")
			e.nodes = append(e.nodes, node)

		case name == "tabindex":
			node := e.newNode(ir.ActionTabIndexChange, at, ref)
			node.NewValue = ir.StringValue(value)
			e.nodes = append(e.nodes, node)

		case strings.HasPrefix(name, "aria-"):
			node := e.newNode(ir.ActionAriaStateChange, at, ref)
			node.Attribute = name
			node.NewValue = ir.StringValue(value)
			e.nodes = append(e.nodes, node)

		case name == "autofocus":
			e.nodes = append(e.nodes, e.newNode(ir.ActionFocusChange, at, ref))

		case name == "src" && tagName == "script":
			e.nodes = append(e.nodes, e.refNode(at, value))

		case name == "href" && tagName == "a":
			node := e.newNode(ir.ActionNavigation, at, ref)
			node.NewValue = ir.StringValue(value)
			e.nodes = append(e.nodes, node)

		case name == "content" && tagName == "meta" && strings.EqualFold(byName["http-equiv"], "refresh"):
			node := e.newNode(ir.ActionTiming, at, ir.ElementRef{})
			node.Event = "refresh"
			node.NewValue = ir.StringValue(value)
			e.nodes = append(e.nodes, node)
		}
	}
}

func (e *extractor) attribute(attr *sitter.Node) (name, value string) {
	for i := 0; i < int(attr.NamedChildCount()); i++ {
		child := attr.NamedChild(i)
		switch child.Type() {
		case "attribute_name":
			name = strings.ToLower(child.Content(e.source))
		case "quoted_attribute_value", "attribute_value":
			value = strings.Trim(child.Content(e.source), `"'`)
		}
	}
	return name, value
}

// refNode records a linked script for cross-file discovery.
func (e *extractor) refNode(at *sitter.Node, target string) *ir.ActionNode {
	node := e.newNode(ir.ActionDOMMutation, at, ir.ElementRef{})
	node.Metadata.References = []string{target}
	node.Metadata.Hints = map[string]string{adapter.RefHint: target}
	return node
}

func (e *extractor) newNode(t ir.ActionType, at *sitter.Node, ref ir.ElementRef) *ir.ActionNode {
	start := at.StartPoint()
	end := at.EndPoint()
	return &ir.ActionNode{
		Type:    t,
		Element: ref,
		Location: ir.Location{
			File:      e.path,
			Line:      int(start.Row) + 1,
			Column:    int(start.Column) + 1,
			EndColumn: int(end.Column) + 1,
		},
		Metadata: ir.Metadata{Origin: "html"},
	}
}
