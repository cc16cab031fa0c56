package generator

import (
	"fmt"
	"strings"

	"github.com/ariadne-dev/ariadne/pkg/ir"
)

// JSSnippet renders IR nodes as JavaScript statements. It targets fix
// review: the output shows what a fixed tree does, statement by statement,
// not a drop-in replacement for the original file.
type JSSnippet struct{}

// NewJSSnippet creates the JavaScript snippet generator.
func NewJSSnippet() *JSSnippet { return &JSSnippet{} }

func (g *JSSnippet) Language() string { return "javascript" }

func (g *JSSnippet) Generate(file string, tree []*ir.ActionNode) (string, error) {
	var b strings.Builder
	for _, n := range tree {
		g.writeNode(&b, n, 0)
	}
	return b.String(), nil
}

func (g *JSSnippet) writeNode(b *strings.Builder, n *ir.ActionNode, depth int) {
	indent := strings.Repeat("  ", depth)
	el := elementExpr(n.Element)

	switch n.Type {
	case ir.ActionEventHandler:
		fmt.Fprintf(b, "%s%s.addEventListener('%s', (event) => {\n", indent, el, n.Event)
		if n.Handler != nil {
			for _, child := range n.Handler.Body {
				g.writeNode(b, child, depth+1)
			}
		}
		fmt.Fprintf(b, "%s});\n", indent)
	case ir.ActionTabIndexChange:
		if idx, ok := n.TabIndex(); ok {
			fmt.Fprintf(b, "%s%s.tabIndex = %d;\n", indent, el, idx)
		} else {
			fmt.Fprintf(b, "%s%s.removeAttribute('tabindex');\n", indent, el)
		}
	case ir.ActionAriaStateChange:
		fmt.Fprintf(b, "%s%s.setAttribute('%s', '%s');\n", indent, el, n.Attribute, n.NewValue.String())
	case ir.ActionFocusChange:
		fmt.Fprintf(b, "%s%s.focus();\n", indent, el)
	case ir.ActionNavigation:
		target := n.NewValue.String()
		if target == "" {
			target = n.Attribute
		}
		fmt.Fprintf(b, "%swindow.location.assign('%s');\n", indent, target)
	case ir.ActionDOMMutation:
		fmt.Fprintf(b, "%s// dom mutation on %s (%s)\n", indent, el, n.Attribute)
	case ir.ActionTiming:
		fmt.Fprintf(b, "%s// timed action (%s) after %s ms\n", indent, n.Event, n.NewValue.String())
	default:
		fmt.Fprintf(b, "%s// %s on %s\n", indent, n.Type, el)
	}
}

// elementExpr renders an element reference as a JavaScript expression.
func elementExpr(e ir.ElementRef) string {
	switch {
	case e.Binding != "":
		return e.Binding
	case e.ID != "":
		return fmt.Sprintf("document.getElementById('%s')", e.ID)
	case e.Selector != "":
		return fmt.Sprintf("document.querySelector('%s')", e.Selector)
	}
	return "document"
}
