package callgraph

import (
	"fmt"
	"sort"
	"strings"
)

// CallTree renders an ASCII call tree rooted at a qualified entry point,
// depth-limited and cycle-guarded. Fan-out is capped per level to keep
// the tree readable.
func (b *Builder) CallTree(entryPoint string, maxDepth int) []string {
	var lines []string
	visited := map[string]bool{}
	callMap := b.CallMap()

	var traverse func(name string, depth int, prefix string, isLast bool)
	traverse = func(name string, depth int, prefix string, isLast bool) {
		if depth > maxDepth || visited[name] {
			return
		}
		visited[name] = true

		if depth == 0 {
			lines = append(lines, fmt.Sprintf("Entry Point: %s", name))
		} else {
			branch := "├─>"
			if isLast {
				branch = "└─>"
			}
			lines = append(lines, fmt.Sprintf("%s%s %s", prefix, branch, name))
		}

		callees := callMap[name]
		if len(callees) == 0 {
			return
		}

		childPrefix := "    "
		if depth > 0 {
			if isLast {
				childPrefix = prefix + "    "
			} else {
				childPrefix = prefix + "│   "
			}
		}

		limit := len(callees)
		if limit > 8 {
			limit = 8
		}
		for i := 0; i < limit; i++ {
			traverse(callees[i], depth+1, childPrefix, i == len(callees)-1)
		}
	}

	traverse(entryPoint, 0, "", true)
	return lines
}

// ModuleDependencies lists call-implied dependency edges, grouped by the
// leading segment of the qualified names: for each top-level module or
// package, the others its functions call into.
func (b *Builder) ModuleDependencies() map[string][]string {
	known := map[string]bool{}
	for _, mod := range b.modules {
		known[moduleOf(mod.Name)] = true
	}

	deps := map[string]map[string]bool{}
	for _, caller := range b.order {
		source := moduleOf(caller)
		for _, callee := range b.edges[caller] {
			qualified, ok := b.nameMap[callee]
			if !ok {
				continue
			}
			target := moduleOf(qualified)
			if target == source || !known[target] {
				continue
			}
			if deps[source] == nil {
				deps[source] = map[string]bool{}
			}
			deps[source][target] = true
		}
	}

	out := make(map[string][]string, len(deps))
	for source, targets := range deps {
		names := make([]string, 0, len(targets))
		for t := range targets {
			names = append(names, t)
		}
		sort.Strings(names)
		out[source] = names
	}
	return out
}

// moduleOf takes the leading segment of a qualified name.
func moduleOf(qualified string) string {
	if idx := strings.Index(qualified, "."); idx != -1 {
		return qualified[:idx]
	}
	return qualified
}
