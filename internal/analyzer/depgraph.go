package analyzer

import (
	"sort"
	"strings"

	"github.com/dominikbraun/graph"

	"codescope/internal/model"
)

// buildDependencyGraph maps each module to the project-internal modules
// it imports. The adjacency is materialized through a directed graph so
// duplicate edges collapse; target lists are sorted for stable output.
func buildDependencyGraph(modules []*model.Module) map[string][]string {
	g := graph.New(graph.StringHash, graph.Directed())

	roots := map[string]bool{}
	for _, mod := range modules {
		_ = g.AddVertex(mod.Name)
		roots[strings.SplitN(mod.Name, ".", 2)[0]] = true
	}

	for _, mod := range modules {
		for _, imp := range mod.Imports {
			if !roots[strings.SplitN(imp, ".", 2)[0]] {
				continue
			}
			// The import may name a module not seen as a file (package
			// references); register it so the edge sticks.
			_ = g.AddVertex(imp)
			_ = g.AddEdge(mod.Name, imp)
		}
	}

	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return map[string][]string{}
	}

	deps := make(map[string][]string, len(modules))
	for _, mod := range modules {
		var targets []string
		for target := range adjacency[mod.Name] {
			targets = append(targets, target)
		}
		sort.Strings(targets)
		deps[mod.Name] = targets
	}
	return deps
}
