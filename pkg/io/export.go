package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/familytree/pkg/diagram"
)

// WriteJSON encodes recorded declarations as indented JSON and writes them
// to w. Empty node or edge lists are written as empty arrays.
func WriteJSON(rec *diagram.Recorder, w io.Writer) error {
	out := diagram.Recorder{
		Nodes: rec.Nodes,
		Edges: rec.Edges,
	}
	if out.Nodes == nil {
		out.Nodes = []diagram.NodeDecl{}
	}
	if out.Edges == nil {
		out.Edges = []diagram.EdgeDecl{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes declarations written by [WriteJSON].
// It returns an error if a node has an empty key or repeats one.
func ReadJSON(r io.Reader) (*diagram.Recorder, error) {
	var rec diagram.Recorder
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	seen := make(map[string]bool, len(rec.Nodes))
	for _, n := range rec.Nodes {
		if n.Key == "" {
			return nil, fmt.Errorf("node with empty key")
		}
		if seen[n.Key] {
			return nil, fmt.Errorf("node %s: duplicate key", n.Key)
		}
		seen[n.Key] = true
	}
	return &rec, nil
}

// ImportJSON reads declarations from a JSON file at path using [ReadJSON].
func ImportJSON(path string) (*diagram.Recorder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rec, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}
