package generator

import (
	"github.com/ariadne-dev/ariadne/pkg/ir"
)

// IRJSON emits the interchange document format. Feeding its output back
// through the irjson adapter yields an equivalent tree, which is how fixed
// trees travel between tools.
type IRJSON struct{}

// NewIRJSON creates the interchange generator.
func NewIRJSON() *IRJSON { return &IRJSON{} }

func (g *IRJSON) Language() string { return "ir" }

func (g *IRJSON) Generate(file string, tree []*ir.ActionNode) (string, error) {
	out, err := ir.EncodeTree(file, tree)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
