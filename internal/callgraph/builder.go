// Package callgraph resolves cross-module call edges and back-references
// over an already-extracted module list.
//
// Resolution is textual: a raw callee name is matched against unqualified
// function names registered in pass 1. When two unrelated functions share
// a name, the edge silently resolves to whichever registered last. This
// is a known precision limitation, kept instead of attempting
// whole-program type inference. Colliding qualified names (two files
// mapping to the same module name) keep the first registration only.
package callgraph

import (
	"sort"
	"strings"

	"codescope/internal/model"
)

// Builder constructs call edges and called-by back-references for a
// fixed, fully-materialized module list. It must not run against a list
// that is still growing: pass 1 has to see every function before pass 2
// resolves edges.
type Builder struct {
	modules []*model.Module

	// nameMap maps unqualified names to qualified ones; arena maps
	// qualified names to the function they identify.
	nameMap map[string]string
	arena   map[string]*model.Function

	// edges maps each qualified caller to its deduplicated raw callee
	// names, in first-occurrence order.
	edges map[string][]string

	// order preserves qualified-name registration order so repeated runs
	// produce identical CalledBy orderings.
	order []string
}

// NewBuilder creates a call-graph builder over modules.
func NewBuilder(modules []*model.Module) *Builder {
	return &Builder{
		modules: modules,
		nameMap: map[string]string{},
		arena:   map[string]*model.Function{},
		edges:   map[string][]string{},
	}
}

// Build runs both passes and annotates the modules' functions in place.
func (b *Builder) Build() {
	b.registerFunctions()
	b.resolveEdges()
}

// registerFunctions is pass 1: record unqualified -> qualified name
// mappings and the raw callee edge list for every function and method.
func (b *Builder) registerFunctions() {
	for _, mod := range b.modules {
		for i := range mod.Functions {
			fn := &mod.Functions[i]
			b.register(mod.Name+"."+fn.Name, fn)
		}
		for i := range mod.Classes {
			cls := &mod.Classes[i]
			for j := range cls.Methods {
				m := &cls.Methods[j]
				b.register(mod.Name+"."+cls.Name+"."+m.Name, m)
			}
		}
	}
}

func (b *Builder) register(qualified string, fn *model.Function) {
	if _, exists := b.arena[qualified]; exists {
		// Qualified-name collision (foo.py vs foo/__init__.py both
		// become module foo): the first registration wins, so pass 2
		// resolves each edge once.
		return
	}
	b.nameMap[fn.Name] = qualified
	b.arena[qualified] = fn
	b.edges[qualified] = dedupe(fn.Calls)
	b.order = append(b.order, qualified)
}

// resolveEdges is pass 2: look up every raw callee through the pass-1
// map and append the caller's qualified name to the callee's CalledBy.
func (b *Builder) resolveEdges() {
	for _, caller := range b.order {
		for _, call := range b.edges[caller] {
			qualified, ok := b.nameMap[call]
			if !ok {
				continue
			}
			callee := b.arena[qualified]
			callee.CalledBy = append(callee.CalledBy, caller)
		}
	}
}

// CallMap returns the qualified-caller -> raw-callee adjacency built in
// pass 1, with private (underscore-prefixed) callees filtered out.
func (b *Builder) CallMap() map[string][]string {
	out := make(map[string][]string, len(b.edges))
	for caller, callees := range b.edges {
		var kept []string
		for _, c := range callees {
			if !strings.HasPrefix(lastSegment(c), "_") {
				kept = append(kept, c)
			}
		}
		out[caller] = kept
	}
	return out
}

// Lookup returns the function registered under a qualified name.
func (b *Builder) Lookup(qualified string) (*model.Function, bool) {
	fn, ok := b.arena[qualified]
	return fn, ok
}

// HotPaths ranks callees by how many call sites reference them, most
// called first. Ties keep lexicographic order so repeated runs agree.
func (b *Builder) HotPaths(topN int) []HotPath {
	counts := map[string]int{}
	for _, caller := range b.order {
		for _, callee := range b.edges[caller] {
			counts[callee]++
		}
	}

	paths := make([]HotPath, 0, len(counts))
	for name, count := range counts {
		paths = append(paths, HotPath{Name: name, CallCount: count})
	}
	sort.Slice(paths, func(i, j int) bool {
		if paths[i].CallCount != paths[j].CallCount {
			return paths[i].CallCount > paths[j].CallCount
		}
		return paths[i].Name < paths[j].Name
	})

	if topN > 0 && len(paths) > topN {
		paths = paths[:topN]
	}
	return paths
}

// HotPath is a callee and the number of call sites referencing it.
type HotPath struct {
	Name      string
	CallCount int
}

func dedupe(names []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func lastSegment(name string) string {
	if idx := strings.LastIndex(name, "."); idx != -1 {
		return name[idx+1:]
	}
	return name
}
