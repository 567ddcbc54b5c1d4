package domain

import (
	"errors"
	"fmt"
)

// Option is one candidate transition out of a decision node. By authoring
// convention the favorable option is listed first; it frames the judge
// prompt (to counter first-choice bias) and doubles as the deterministic
// fallback target.
type Option struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// Node is a single node in the scenario graph. A terminal node carries the
// round outcome and has no options; a decision node offers an ordered set
// of next-node options for the judge to choose from.
type Node struct {
	ID         string
	Transcript string
	Terminal   bool
	Success    bool
	Options    []Option
	// SystemContext holds node-specific decision criteria injected into the
	// judge's system message. Optional.
	SystemContext string
}

// OptionIDs returns the option targets in authored order.
func (n Node) OptionIDs() []string {
	ids := make([]string, len(n.Options))
	for i, opt := range n.Options {
		ids[i] = opt.ID
	}
	return ids
}

// FirstOptionID returns the favorable (fallback) option target. Empty for
// terminal nodes.
func (n Node) FirstOptionID() string {
	if len(n.Options) == 0 {
		return ""
	}
	return n.Options[0].ID
}

// ErrInvalidGraph marks structural scenario violations detected at load time.
var ErrInvalidGraph = errors.New("invalid scenario graph")

// Graph is the full scenario: a map of node-id to node plus the entry
// point. Read-only during play; call Validate once after construction.
type Graph struct {
	Nodes   map[string]Node
	StartID string

	totalSteps int
	validated  bool
}

// Get looks up a node by id.
func (g *Graph) Get(id string) (Node, bool) {
	n, ok := g.Nodes[id]
	return n, ok
}

// Validate checks the structural invariants: the start node exists, every
// option targets an existing node, terminal nodes have no options, decision
// nodes have at least one, and decision edges form a DAG. A cycle is a
// fatal authoring error here rather than a divergent walk later. On
// success the longest-path step count is computed and memoized; repeat
// calls on a validated graph are no-ops.
func (g *Graph) Validate() error {
	if g.validated {
		return nil
	}
	if _, ok := g.Nodes[g.StartID]; !ok {
		return fmt.Errorf("%w: start node %q not found", ErrInvalidGraph, g.StartID)
	}
	for id, n := range g.Nodes {
		if n.ID != id {
			return fmt.Errorf("%w: node keyed %q declares id %q", ErrInvalidGraph, id, n.ID)
		}
		if n.Terminal {
			if len(n.Options) != 0 {
				return fmt.Errorf("%w: terminal node %q has options", ErrInvalidGraph, id)
			}
			continue
		}
		if len(n.Options) == 0 {
			return fmt.Errorf("%w: decision node %q has no options", ErrInvalidGraph, id)
		}
		for _, opt := range n.Options {
			if _, ok := g.Nodes[opt.ID]; !ok {
				return fmt.Errorf("%w: node %q references unknown node %q", ErrInvalidGraph, id, opt.ID)
			}
		}
	}
	if cycle := g.findCycle(); cycle != "" {
		return fmt.Errorf("%w: cycle through decision node %q", ErrInvalidGraph, cycle)
	}
	g.totalSteps = g.longestPath(g.StartID, map[string]int{})
	g.validated = true
	return nil
}

// TotalSteps is the maximum number of decision nodes a player can traverse
// from the start before reaching a terminal node. Used only as the scoring
// denominator, never for control flow. Valid after Validate.
func (g *Graph) TotalSteps() int {
	return g.totalSteps
}

// findCycle runs an iterative DFS over decision edges with an explicit
// on-path set. Returns the id of a node on a cycle, or "".
func (g *Graph) findCycle() string {
	const (
		white = 0 // unvisited
		grey  = 1 // on the current path
		black = 2 // fully explored
	)
	color := make(map[string]int, len(g.Nodes))

	type frame struct {
		id   string
		next int
	}
	var stack []frame

	for root := range g.Nodes {
		if color[root] != white {
			continue
		}
		color[root] = grey
		stack = append(stack[:0], frame{id: root})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			node := g.Nodes[top.id]
			if top.next < len(node.Options) {
				child := node.Options[top.next].ID
				top.next++
				switch color[child] {
				case grey:
					return child
				case white:
					color[child] = grey
					stack = append(stack, frame{id: child})
				}
				continue
			}
			color[top.id] = black
			stack = stack[:len(stack)-1]
		}
	}
	return ""
}

// longestPath counts decision nodes on the longest route to a terminal
// node. Only called on validated (acyclic) graphs; memo keeps it linear.
func (g *Graph) longestPath(id string, memo map[string]int) int {
	if steps, ok := memo[id]; ok {
		return steps
	}
	node, ok := g.Nodes[id]
	if !ok || node.Terminal {
		return 0
	}
	max := 0
	for _, opt := range node.Options {
		if steps := g.longestPath(opt.ID, memo); steps > max {
			max = steps
		}
	}
	memo[id] = 1 + max
	return 1 + max
}
