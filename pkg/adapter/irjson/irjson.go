// Package irjson reads the IR interchange format directly, letting
// external front-ends hand pre-built trees to the engine as .ir.json
// documents. Input is validated against the interchange schema before
// decoding so malformed documents fail as parse errors, not as panics
// deep in an analyzer.
package irjson

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/ariadne-dev/ariadne/pkg/ir"
)

//go:embed schema.json
var schemaJSON []byte

// Adapter decodes interchange documents.
type Adapter struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

// New returns an interchange adapter. Schema compilation is deferred to
// first use.
func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Language() string { return "ir" }

func (a *Adapter) Extensions() []string { return []string{".ir.json"} }

// Create validates and decodes an interchange document.
func (a *Adapter) Create(source []byte, path string) ([]*ir.ActionNode, error) {
	a.once.Do(a.compile)
	if a.err != nil {
		return nil, a.err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := a.schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}

	doc, err := ir.DecodeTree(source)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc.Tree, nil
}

func (a *Adapter) compile() {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		a.err = fmt.Errorf("ir schema: %w", err)
		return
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("ir.schema.json", doc); err != nil {
		a.err = fmt.Errorf("ir schema: %w", err)
		return
	}
	a.schema, a.err = c.Compile("ir.schema.json")
}
