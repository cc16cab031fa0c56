// Package jsadapter is the reference JavaScript front-end. It walks a
// tree-sitter parse of the source and lifts interaction patterns
// (listener registration, focus and tabindex manipulation, ARIA state
// writes, DOM mutation, navigation, timers) into IR nodes. It is a
// pattern extractor, not a compiler: anything it cannot recognize it
// skips.
package jsadapter

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/ariadne-dev/ariadne/pkg/adapter"
	"github.com/ariadne-dev/ariadne/pkg/ir"
)

// Adapter parses JavaScript sources into IR trees.
type Adapter struct{}

// New returns a JavaScript adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Language() string { return "javascript" }

func (a *Adapter) Extensions() []string { return []string{".js", ".mjs", ".cjs"} }

// Create parses source and extracts interaction nodes.
func (a *Adapter) Create(source []byte, path string) ([]*ir.ActionNode, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	ex := &extractor{source: source, path: path, bindings: make(map[string]ir.ElementRef)}
	ex.collectBindings(tree.RootNode())
	nodes := ex.extract(tree.RootNode())

	for _, n := range nodes {
		stampIDs(n)
	}
	return nodes, nil
}

func stampIDs(n *ir.ActionNode) {
	if n.ID == "" {
		n.ID = n.StableID()
	}
	if n.Handler != nil {
		for _, c := range n.Handler.Body {
			stampIDs(c)
		}
	}
}

type extractor struct {
	source   []byte
	path     string
	bindings map[string]ir.ElementRef
}

// collectBindings records `const x = document.querySelector(...)` style
// declarations so later references by binding name resolve to a selector
// or id as well. Runs over the whole file before extraction because
// handlers frequently close over bindings declared after them.
func (e *extractor) collectBindings(n *sitter.Node) {
	if n.Type() == "variable_declarator" {
		name := n.ChildByFieldName("name")
		value := n.ChildByFieldName("value")
		if name != nil && name.Type() == "identifier" && value != nil {
			if ref, ok := e.lookupCall(value); ok {
				ref.Binding = name.Content(e.source)
				e.bindings[ref.Binding] = ref
			}
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		e.collectBindings(n.NamedChild(i))
	}
}

// lookupCall recognizes document.querySelector/getElementById calls and
// returns the element ref they denote.
func (e *extractor) lookupCall(n *sitter.Node) (ir.ElementRef, bool) {
	if n.Type() != "call_expression" {
		return ir.ElementRef{}, false
	}
	fn := n.ChildByFieldName("function")
	if fn == nil || fn.Type() != "member_expression" {
		return ir.ElementRef{}, false
	}
	prop := fn.ChildByFieldName("property")
	if prop == nil {
		return ir.ElementRef{}, false
	}
	arg, ok := e.firstStringArg(n)
	if !ok {
		return ir.ElementRef{}, false
	}
	switch prop.Content(e.source) {
	case "querySelector":
		return ir.ElementRef{Selector: arg}, true
	case "getElementById":
		return ir.ElementRef{ID: arg}, true
	}
	return ir.ElementRef{}, false
}

// extract walks a subtree and returns the interaction nodes found in it,
// in source order.
func (e *extractor) extract(root *sitter.Node) []*ir.ActionNode {
	var out []*ir.ActionNode
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if node, descend := e.lift(n); node != nil {
			out = append(out, node)
			if !descend {
				return
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(root)
	return out
}

// lift converts one syntax node into an IR node when it matches a known
// pattern. The second return reports whether children should still be
// visited; handler bodies are consumed by the lifted node, so calls that
// carry one do not descend.
func (e *extractor) lift(n *sitter.Node) (*ir.ActionNode, bool) {
	switch n.Type() {
	case "call_expression":
		return e.liftCall(n)
	case "assignment_expression":
		return e.liftAssignment(n), true
	case "import_statement":
		return e.liftImport(n), true
	}
	return nil, true
}

func (e *extractor) liftCall(n *sitter.Node) (*ir.ActionNode, bool) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return nil, true
	}

	// Bare setTimeout/setInterval.
	if fn.Type() == "identifier" {
		name := fn.Content(e.source)
		if name == "setTimeout" || name == "setInterval" {
			return e.timingNode(n, name), false
		}
		return nil, true
	}

	if fn.Type() != "member_expression" {
		return nil, true
	}
	obj := fn.ChildByFieldName("object")
	prop := fn.ChildByFieldName("property")
	if obj == nil || prop == nil {
		return nil, true
	}

	switch prop.Content(e.source) {
	case "addEventListener":
		event, ok := e.firstStringArg(n)
		if !ok {
			return nil, true
		}
		node := e.newNode(ir.ActionEventHandler, n, e.elementOf(obj))
		node.Event = event
		node.Handler = e.handlerOf(n)
		return node, false

	case "setAttribute":
		attr, ok := e.firstStringArg(n)
		if !ok {
			return nil, true
		}
		value := e.secondArgText(n)
		switch {
		case attr == "tabindex":
			node := e.newNode(ir.ActionTabIndexChange, n, e.elementOf(obj))
			node.NewValue = ir.StringValue(value)
			return node, false
		case strings.HasPrefix(attr, "aria-"):
			node := e.newNode(ir.ActionAriaStateChange, n, e.elementOf(obj))
			node.Attribute = attr
			node.NewValue = ir.StringValue(value)
			return node, false
		}
		return nil, true

	case "focus":
		return e.newNode(ir.ActionFocusChange, n, e.elementOf(obj)), false

	case "appendChild", "append", "prepend":
		node := e.newNode(ir.ActionDOMMutation, n, e.elementOf(obj))
		node.NewValue = ir.StringValue("insert")
		return node, false

	case "removeChild", "remove", "replaceChildren":
		node := e.newNode(ir.ActionDOMMutation, n, e.elementOf(obj))
		node.NewValue = ir.StringValue("remove")
		return node, false

	case "assign", "replace":
		if isLocation(obj.Content(e.source)) {
			node := e.newNode(ir.ActionNavigation, n, ir.ElementRef{})
			if target, ok := e.firstStringArg(n); ok {
				node.NewValue = ir.StringValue(target)
			}
			return node, false
		}
		return nil, true

	case "setTimeout", "setInterval":
		if obj.Content(e.source) == "window" {
			return e.timingNode(n, prop.Content(e.source)), false
		}
		return nil, true
	}
	return nil, true
}

func (e *extractor) timingNode(n *sitter.Node, kind string) *ir.ActionNode {
	node := e.newNode(ir.ActionTiming, n, ir.ElementRef{})
	node.Event = strings.TrimPrefix(kind, "set")
	node.Event = strings.ToLower(node.Event)
	node.Handler = e.handlerOf(n)
	if args := n.ChildByFieldName("arguments"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			arg := args.NamedChild(i)
			if arg.Type() == "number" {
				node.NewValue = ir.StringValue(arg.Content(e.source))
			}
		}
	}
	return node
}

func (e *extractor) liftAssignment(n *sitter.Node) *ir.ActionNode {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || right == nil || left.Type() != "member_expression" {
		return nil
	}
	obj := left.ChildByFieldName("object")
	prop := left.ChildByFieldName("property")
	if obj == nil || prop == nil {
		return nil
	}

	switch prop.Content(e.source) {
	case "tabIndex":
		node := e.newNode(ir.ActionTabIndexChange, n, e.elementOf(obj))
		node.NewValue = ir.StringValue(right.Content(e.source))
		return node
	case "innerHTML", "textContent", "outerHTML":
		node := e.newNode(ir.ActionDOMMutation, n, e.elementOf(obj))
		node.NewValue = ir.StringValue("replace")
		return node
	case "href":
		if isLocation(obj.Content(e.source)) {
			node := e.newNode(ir.ActionNavigation, n, ir.ElementRef{})
			node.NewValue = ir.StringValue(stripQuotes(right.Content(e.source)))
			return node
		}
	case "location":
		if obj.Content(e.source) == "window" || obj.Content(e.source) == "document" {
			node := e.newNode(ir.ActionNavigation, n, ir.ElementRef{})
			node.NewValue = ir.StringValue(stripQuotes(right.Content(e.source)))
			return node
		}
	}
	return nil
}

// liftImport records imported module paths as reference carrier nodes so
// cross-file discovery can follow them.
func (e *extractor) liftImport(n *sitter.Node) *ir.ActionNode {
	src := n.ChildByFieldName("source")
	if src == nil {
		return nil
	}
	target := stripQuotes(src.Content(e.source))
	if target == "" {
		return nil
	}
	node := e.newNode(ir.ActionDOMMutation, n, ir.ElementRef{})
	node.Metadata.References = []string{target}
	node.Metadata.Hints = map[string]string{adapter.RefHint: target}
	return node
}

// handlerOf extracts the body of the first function-valued argument.
func (e *extractor) handlerOf(call *sitter.Node) *ir.Handler {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		switch arg.Type() {
		case "arrow_function", "function_expression", "function":
			body := arg.ChildByFieldName("body")
			if body == nil {
				return nil
			}
			return &ir.Handler{Body: e.extract(body)}
		case "identifier":
			// Named handler reference; the body lives elsewhere.
			return nil
		}
	}
	return nil
}

// elementOf resolves an object expression to an element ref.
func (e *extractor) elementOf(obj *sitter.Node) ir.ElementRef {
	switch obj.Type() {
	case "identifier":
		name := obj.Content(e.source)
		if ref, ok := e.bindings[name]; ok {
			return ref
		}
		return ir.ElementRef{Binding: name}
	case "call_expression":
		if ref, ok := e.lookupCall(obj); ok {
			return ref
		}
	case "member_expression":
		// e.target and friends: not statically resolvable.
	}
	return ir.ElementRef{}
}

func (e *extractor) newNode(t ir.ActionType, n *sitter.Node, el ir.ElementRef) *ir.ActionNode {
	start := n.StartPoint()
	end := n.EndPoint()
	return &ir.ActionNode{
		Type:    t,
		Element: el,
		Location: ir.Location{
			File:      e.path,
			Line:      int(start.Row) + 1,
			Column:    int(start.Column) + 1,
			EndColumn: int(end.Column) + 1,
		},
		Metadata: ir.Metadata{Origin: "javascript"},
	}
}

func (e *extractor) firstStringArg(call *sitter.Node) (string, bool) {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return "", false
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		if arg.Type() == "string" {
			return stripQuotes(arg.Content(e.source)), true
		}
	}
	return "", false
}

func (e *extractor) secondArgText(call *sitter.Node) string {
	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() < 2 {
		return ""
	}
	return stripQuotes(args.NamedChild(1).Content(e.source))
}

func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') ||
			(s[0] == '"' && s[len(s)-1] == '"') ||
			(s[0] == '`' && s[len(s)-1] == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func isLocation(expr string) bool {
	return expr == "location" || expr == "window.location" || expr == "document.location"
}
