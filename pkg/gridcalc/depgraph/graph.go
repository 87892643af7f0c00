// Package depgraph derives the reference graph of a sheet's formulas. The
// recalculation engine does not need it; it answers "what feeds this cell"
// and "which cells form a cycle" for diagnostics.
package depgraph

import (
	"slices"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/formula"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
)

// Node is a formula cell and its direct edges.
type Node struct {
	Address    models.Address
	Precedents map[models.Address]struct{} // cells this formula references
	Dependents map[models.Address]struct{} // formula cells referencing this cell
	HasFormula bool
}

// Graph maps every cell that takes part in a reference to its node.
type Graph struct {
	nodes map[models.Address]*Node
}

// Build scans the formulas of cells and links each formula to the cells it
// references. Referenced cells need not exist.
func Build(cells map[models.Address]models.Record) *Graph {
	g := &Graph{nodes: make(map[models.Address]*Node)}
	for a, rec := range cells {
		if !rec.IsFormula() {
			continue
		}
		from := g.getOrCreate(a)
		from.HasFormula = true
		for _, to := range formula.References(rec.Formula) {
			toNode := g.getOrCreate(to)
			from.Precedents[to] = struct{}{}
			toNode.Dependents[a] = struct{}{}
		}
	}
	return g
}

func (g *Graph) getOrCreate(a models.Address) *Node {
	if n, ok := g.nodes[a]; ok {
		return n
	}
	n := &Node{
		Address:    a,
		Precedents: make(map[models.Address]struct{}),
		Dependents: make(map[models.Address]struct{}),
	}
	g.nodes[a] = n
	return n
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Precedents returns the cells a directly references, row-major.
func (g *Graph) Precedents(a models.Address) []models.Address {
	n, ok := g.nodes[a]
	if !ok {
		return nil
	}
	return sortedKeys(n.Precedents)
}

// Dependents returns the formula cells directly referencing a, row-major.
func (g *Graph) Dependents(a models.Address) []models.Address {
	n, ok := g.nodes[a]
	if !ok {
		return nil
	}
	return sortedKeys(n.Dependents)
}

// AllDependents returns every cell affected by a change to a (transitive
// closure), row-major. a itself is included only when it sits on a cycle.
func (g *Graph) AllDependents(a models.Address) []models.Address {
	visited := make(map[models.Address]struct{})
	var walk func(models.Address)
	walk = func(cur models.Address) {
		n, ok := g.nodes[cur]
		if !ok {
			return
		}
		for dep := range n.Dependents {
			if _, seen := visited[dep]; seen {
				continue
			}
			visited[dep] = struct{}{}
			walk(dep)
		}
	}
	walk(a)
	return sortedKeys(visited)
}

// Order returns the formula cells so that every cell comes after the
// formula cells it references. The second result is false when a cycle
// exists; cells on the cycle are then placed where the walk met them.
func (g *Graph) Order() ([]models.Address, bool) {
	// unvisited (absent), visiting (false), visited (true)
	state := make(map[models.Address]bool)
	var order []models.Address
	acyclic := true

	var visit func(a models.Address)
	visit = func(a models.Address) {
		if done, seen := state[a]; seen {
			if !done {
				acyclic = false
			}
			return
		}
		state[a] = false
		n := g.nodes[a]
		for _, p := range sortedKeys(n.Precedents) {
			visit(p)
		}
		state[a] = true
		if n.HasFormula {
			order = append(order, a)
		}
	}

	for _, a := range sortedKeys(g.nodeSet()) {
		if _, seen := state[a]; !seen {
			visit(a)
		}
	}
	return order, acyclic
}

// Cycles returns the groups of cells that reference each other, directly
// or through other cells. Each group is row-major and groups are ordered
// by their first cell.
func (g *Graph) Cycles() [][]models.Address {
	// Tarjan's strongly connected components
	index := 0
	indices := make(map[models.Address]int)
	lowlink := make(map[models.Address]int)
	onStack := make(map[models.Address]bool)
	var stack []models.Address
	var out [][]models.Address

	var strongConnect func(a models.Address)
	strongConnect = func(a models.Address) {
		indices[a] = index
		lowlink[a] = index
		index++
		stack = append(stack, a)
		onStack[a] = true

		for _, p := range sortedKeys(g.nodes[a].Precedents) {
			if _, seen := indices[p]; !seen {
				strongConnect(p)
				lowlink[a] = min(lowlink[a], lowlink[p])
			} else if onStack[p] {
				lowlink[a] = min(lowlink[a], indices[p])
			}
		}

		if lowlink[a] != indices[a] {
			return
		}
		var group []models.Address
		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[top] = false
			group = append(group, top)
			if top == a {
				break
			}
		}
		if len(group) > 1 || g.selfReferencing(a) {
			sortAddresses(group)
			out = append(out, group)
		}
	}

	for _, a := range sortedKeys(g.nodeSet()) {
		if _, seen := indices[a]; !seen {
			strongConnect(a)
		}
	}

	slices.SortFunc(out, func(x, y []models.Address) int {
		return models.Compare(x[0], y[0])
	})
	return out
}

func (g *Graph) selfReferencing(a models.Address) bool {
	_, ok := g.nodes[a].Precedents[a]
	return ok
}

func (g *Graph) nodeSet() map[models.Address]struct{} {
	set := make(map[models.Address]struct{}, len(g.nodes))
	for a := range g.nodes {
		set[a] = struct{}{}
	}
	return set
}

func sortedKeys(set map[models.Address]struct{}) []models.Address {
	out := make([]models.Address, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sortAddresses(out)
	return out
}

func sortAddresses(addrs []models.Address) {
	slices.SortFunc(addrs, models.Compare)
}
