package scenario

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/doronnac/elsa/domain"
)

// File is the declarative on-disk scenario form.
type File struct {
	StartNodeID string     `json:"start_node_id"`
	Nodes       []FileNode `json:"nodes"`
}

// FileNode describes one node in a scenario file.
type FileNode struct {
	ID            string       `json:"id"`
	Transcript    string       `json:"transcript"`
	NodeType      FileNodeType `json:"node_type"`
	SystemContext string       `json:"system_context,omitempty"`
}

// FileNodeType is the tagged node kind: "terminal" with a success flag, or
// "decision" with an ordered option list (favorable option first).
type FileNodeType struct {
	Kind    string          `json:"kind"`
	Success bool            `json:"success,omitempty"`
	Options []domain.Option `json:"options,omitempty"`
}

// Load reads a scenario file and returns a validated graph. Any structural
// violation (unknown kind, dangling option, decision-edge cycle) is an
// error; play must not start on a broken graph.
func Load(path string) (*domain.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scenario file: %w", err)
	}

	nodes := make(map[string]domain.Node, len(f.Nodes))
	for _, fn := range f.Nodes {
		node := domain.Node{
			ID:            fn.ID,
			Transcript:    fn.Transcript,
			SystemContext: fn.SystemContext,
		}
		switch fn.NodeType.Kind {
		case "terminal":
			node.Terminal = true
			node.Success = fn.NodeType.Success
		case "decision":
			node.Options = fn.NodeType.Options
		default:
			return nil, fmt.Errorf("%w: node %q has unknown kind %q",
				domain.ErrInvalidGraph, fn.ID, fn.NodeType.Kind)
		}
		if _, dup := nodes[fn.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %q", domain.ErrInvalidGraph, fn.ID)
		}
		nodes[fn.ID] = node
	}

	g := &domain.Graph{Nodes: nodes, StartID: f.StartNodeID}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
