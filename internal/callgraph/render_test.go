package callgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codescope/internal/model"
)

// Test Plan for rendering helpers:
// - ModuleDependencies derives module edges from resolved calls only
// - Self-edges and unresolved callees are dropped

func TestBuilder_ModuleDependencies(t *testing.T) {
	t.Parallel()

	modules := []*model.Module{
		{
			Name: "alpha",
			Functions: []model.Function{
				{Name: "foo", Calls: []string{"bar", "foo", "unknown"}},
			},
		},
		{
			Name:      "beta",
			Functions: []model.Function{{Name: "bar"}},
		},
	}
	builder := NewBuilder(modules)
	builder.Build()

	deps := builder.ModuleDependencies()
	assert.Equal(t, map[string][]string{"alpha": {"beta"}}, deps)
}
