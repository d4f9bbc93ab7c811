package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/fsproj/internal/ir"
)

// CycleWarning represents a same-year dependency cycle between rules.
//
// The engine still rejects such a model at compute time with a
// CYCLIC_DEPENDENCY error; the static warning names the whole loop up front
// for `fsproj validate`.
type CycleWarning struct {
	Path    []string `json:"path"`    // Cycle path: ["a", "b", "a"]
	Message string   `json:"message"` // Human-readable description
	Level   string   `json:"level"`   // "warning"
}

// AnalyzeCycles performs static cycle analysis on a rule set.
//
// Edges run from an account to every account its rule reads in the SAME
// period, plus every child of a CHILDREN_SUM account. PREV references point
// at an earlier year and cannot close a loop, so they are ignored.
//
// The algorithm:
//  1. Build account → dependency graph
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1 or a self-loop
//
// Warnings are ordered by the smallest account id in each cycle.
func AnalyzeCycles(rules map[string]ir.Rule, children map[string][]string) []CycleWarning {
	if len(rules) == 0 {
		return []CycleWarning{}
	}

	graph := buildDependencyGraph(rules, children)
	sccs := tarjanSCC(graph)

	warnings := []CycleWarning{}
	for _, scc := range sccs {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			warnings = append(warnings, cycleSCCToWarning(scc, graph))
		}
	}
	sort.Slice(warnings, func(i, j int) bool {
		return warnings[i].Path[0] < warnings[j].Path[0]
	})
	return warnings
}

// dependencyGraph maps account id → accounts read in the same year.
type dependencyGraph map[string][]string

func buildDependencyGraph(rules map[string]ir.Rule, children map[string][]string) dependencyGraph {
	graph := make(dependencyGraph)
	for id, rule := range rules {
		if rule == nil {
			continue
		}
		edges := []string{}
		for _, ref := range ir.References(id, rule) {
			if ref.Period != ir.PeriodPrev {
				edges = append(edges, ref.Account)
			}
		}
		if rule.Kind() == ir.KindChildrenSum {
			edges = append(edges, children[id]...)
		}
		sort.Strings(edges)
		graph[id] = edges
	}
	return graph
}

func hasSelfLoop(node string, graph dependencyGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in sorted order and each SCC is returned sorted.
func tarjanSCC(graph dependencyGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sort.Strings(scc)
			sccs = append(sccs, scc)
		}
	}

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return sccs
}

func cycleSCCToWarning(scc []string, graph dependencyGraph) CycleWarning {
	if len(scc) == 1 {
		id := scc[0]
		return CycleWarning{
			Path:    []string{id, id},
			Message: fmt.Sprintf("Self-referencing rule detected: %s → %s", id, id),
			Level:   "warning",
		}
	}

	path := reconstructCyclePath(scc, graph)
	return CycleWarning{
		Path:    path,
		Message: fmt.Sprintf("Dependency cycle detected: %s", strings.Join(path, " → ")),
		Level:   "warning",
	}
}

// reconstructCyclePath walks SCC members from the first node until it
// returns to the start.
func reconstructCyclePath(scc []string, graph dependencyGraph) []string {
	if len(scc) == 0 {
		return []string{}
	}

	sccSet := make(map[string]bool, len(scc))
	for _, node := range scc {
		sccSet[node] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph[current] {
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}
	return path
}
