// Package canvas decodes Obsidian canvas files and derives their internal
// graph structure.
package canvas

import (
	"encoding/json"
	"fmt"

	"github.com/starford/laguz/internal/graph"
)

// Node is one box on a canvas. Text and File are set depending on Type.
type Node struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Text   string  `json:"text,omitempty"`
	File   string  `json:"file,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color,omitempty"`
}

// Edge connects two canvas nodes by their IDs.
type Edge struct {
	ID       string `json:"id"`
	FromNode string `json:"fromNode"`
	ToNode   string `json:"toNode"`
	FromSide string `json:"fromSide,omitempty"`
	ToSide   string `json:"toSide,omitempty"`
	Label    string `json:"label,omitempty"`
}

// Content is the decoded form of one .canvas file.
type Content struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Position is a node's top-left coordinate on the canvas.
type Position struct {
	X float64
	Y float64
}

// GraphDetail is the graph a canvas file describes, with the layout
// information the plain graph drops.
type GraphDetail struct {
	Graph      *graph.MultiDiGraph
	Positions  map[string]Position
	EdgeLabels map[string]string // edge ID to label, labelled edges only
}

// Decode parses raw canvas JSON. An empty file decodes to empty content.
func Decode(data []byte) (*Content, error) {
	if len(data) == 0 {
		return &Content{}, nil
	}
	var c Content
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode canvas: %w", err)
	}
	return &c, nil
}

// Detail builds the canvas's internal graph. Node IDs become graph nodes, so
// boxes that no edge touches show up as isolates.
func (c *Content) Detail() *GraphDetail {
	g := graph.New()
	positions := make(map[string]Position, len(c.Nodes))
	for _, n := range c.Nodes {
		g.AddNode(n.ID)
		positions[n.ID] = Position{X: n.X, Y: n.Y}
	}
	labels := make(map[string]string)
	for _, e := range c.Edges {
		g.AddEdge(e.FromNode, e.ToNode)
		if e.Label != "" {
			labels[e.ID] = e.Label
		}
	}
	return &GraphDetail{Graph: g, Positions: positions, EdgeLabels: labels}
}

// FileNodes returns the vault file names referenced by file-type nodes, in
// node order.
func (c *Content) FileNodes() []string {
	var out []string
	for _, n := range c.Nodes {
		if n.Type == "file" && n.File != "" {
			out = append(out, n.File)
		}
	}
	return out
}
