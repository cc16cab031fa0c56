package ir

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// ActionType discriminates the variants of an ActionNode.
type ActionType string

const (
	ActionEventHandler    ActionType = "eventHandler"
	ActionFocusChange     ActionType = "focusChange"
	ActionTabIndexChange  ActionType = "tabIndexChange"
	ActionAriaStateChange ActionType = "ariaStateChange"
	ActionDOMMutation     ActionType = "domMutation"
	ActionNavigation      ActionType = "navigation"
	ActionTiming          ActionType = "timing"
)

// Location identifies where a node originated in source.
type Location struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndColumn int    `json:"endColumn,omitempty"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// ElementRef identifies a UI element by any of three equivalent forms:
// a local binding name, a selector string, or an explicit id.
// Comparing refs directly is not meaningful; use resolver.SameElement.
type ElementRef struct {
	Binding  string `json:"binding,omitempty"`
	Selector string `json:"selector,omitempty"`
	ID       string `json:"id,omitempty"`
}

// IsZero reports whether the ref carries no identifying field at all.
func (e ElementRef) IsZero() bool {
	return e.Binding == "" && e.Selector == "" && e.ID == ""
}

func (e ElementRef) String() string {
	switch {
	case e.Binding != "":
		return "binding:" + e.Binding
	case e.Selector != "":
		return "selector:" + e.Selector
	case e.ID != "":
		return "id:" + e.ID
	}
	return "<unbound>"
}

// Metadata is the open bag attached to every node. Hints are internal to
// the pipeline and are stripped by the optimizer before codegen.
type Metadata struct {
	WCAG       []string          `json:"wcag,omitempty"`
	Confidence Confidence        `json:"confidence,omitempty"`
	Origin     string            `json:"origin,omitempty"`
	References []string          `json:"references,omitempty"`
	Hints      map[string]string `json:"hints,omitempty"`
}

// Handler is the sub-tree of actions a handler body performs.
type Handler struct {
	Body []*ActionNode `json:"body"`
}

// ActionNode is one typed unit of the language-agnostic interaction
// representation. Nodes are immutable once created: fixes and optimizers
// produce new nodes rather than mutating in place, so an issue list
// produced against a tree stays valid until the caller re-analyzes.
type ActionNode struct {
	ID        string     `json:"id"`
	Type      ActionType `json:"actionType"`
	Element   ElementRef `json:"element"`
	Event     string     `json:"event,omitempty"`
	Attribute string     `json:"attribute,omitempty"`
	OldValue  Value      `json:"oldValue,omitempty"`
	NewValue  Value      `json:"newValue,omitempty"`
	Handler   *Handler   `json:"handler,omitempty"`
	Location  Location   `json:"location"`
	Metadata  Metadata   `json:"metadata,omitempty"`
}

// StableID returns the node's ID, deriving one from the node's shape and
// location when the front-end adapter did not assign it.
func (n *ActionNode) StableID() string {
	if n.ID != "" {
		return n.ID
	}
	h := xxhash.New()
	h.WriteString(string(n.Type))
	h.WriteString("\x00")
	h.WriteString(n.Element.String())
	h.WriteString("\x00")
	h.WriteString(n.Event)
	h.WriteString("\x00")
	h.WriteString(n.Attribute)
	h.WriteString("\x00")
	h.WriteString(n.Location.String())
	return "n" + strconv.FormatUint(h.Sum64(), 16)
}

// TabIndex parses NewValue as a tab index. The second return is false when
// the node carries no parseable numeric value.
func (n *ActionNode) TabIndex() (int, bool) {
	return n.NewValue.Int()
}

// Clone returns a deep copy of the node, including its handler body.
func (n *ActionNode) Clone() *ActionNode {
	if n == nil {
		return nil
	}
	c := *n
	if len(n.Metadata.WCAG) > 0 {
		c.Metadata.WCAG = append([]string(nil), n.Metadata.WCAG...)
	}
	if len(n.Metadata.References) > 0 {
		c.Metadata.References = append([]string(nil), n.Metadata.References...)
	}
	if n.Metadata.Hints != nil {
		c.Metadata.Hints = make(map[string]string, len(n.Metadata.Hints))
		for k, v := range n.Metadata.Hints {
			c.Metadata.Hints[k] = v
		}
	}
	if n.Handler != nil {
		c.Handler = &Handler{Body: CloneTree(n.Handler.Body)}
	}
	return &c
}

// HintSuperseded marks a node a fix retired, e.g. a registration
// replaced by a corrected one. Retired nodes stay in the tree so the
// replacement can be diffed against them; the optimizer drops them and
// analyzers skip them.
const HintSuperseded = "superseded"

// WithHint returns a copy of the node with one internal hint set.
func (n *ActionNode) WithHint(key, value string) *ActionNode {
	c := n.Clone()
	if c.Metadata.Hints == nil {
		c.Metadata.Hints = make(map[string]string, 1)
	}
	c.Metadata.Hints[key] = value
	return c
}

// Hint reads an internal hint, returning "" when absent.
func (n *ActionNode) Hint(key string) string {
	if n.Metadata.Hints == nil {
		return ""
	}
	return n.Metadata.Hints[key]
}

// CloneTree deep-copies a slice of nodes.
func CloneTree(tree []*ActionNode) []*ActionNode {
	if tree == nil {
		return nil
	}
	out := make([]*ActionNode, len(tree))
	for i, n := range tree {
		out[i] = n.Clone()
	}
	return out
}

// Walk visits every node in the tree depth-first, handler bodies included.
// Returning false from fn stops the walk.
func Walk(tree []*ActionNode, fn func(*ActionNode) bool) {
	for _, n := range tree {
		if !walkNode(n, fn) {
			return
		}
	}
}

func walkNode(n *ActionNode, fn func(*ActionNode) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	if n.Handler != nil {
		for _, child := range n.Handler.Body {
			if !walkNode(child, fn) {
				return false
			}
		}
	}
	return true
}
