package dot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/familytree/pkg/diagram"
)

// Options configures the generated graph.
type Options struct {
	// Name is the graph name. Defaults to "g".
	Name string
	// RankDir is the Graphviz rankdir. Defaults to "TB".
	RankDir string
	// NodeHeight is the minimum node height in inches. Defaults to ".1".
	NodeHeight string
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = "g"
	}
	if o.RankDir == "" {
		o.RankDir = "TB"
	}
	if o.NodeHeight == "" {
		o.NodeHeight = ".1"
	}
	return o
}

// Writer accumulates node and edge declarations and formats them as DOT.
// It implements [diagram.Sink]; the zero value is not usable, use
// [NewWriter].
type Writer struct {
	opts  Options
	nodes []diagram.NodeDecl
	edges []diagram.EdgeDecl
	keys  map[string]bool
}

// NewWriter creates an empty writer.
func NewWriter(opts Options) *Writer {
	return &Writer{opts: opts.withDefaults(), keys: make(map[string]bool)}
}

// Node implements diagram.Sink. Declaring the same key twice is an error.
func (w *Writer) Node(key, label string) error {
	if key == "" {
		return fmt.Errorf("node key must not be empty")
	}
	if w.keys[key] {
		return fmt.Errorf("duplicate node %q", key)
	}
	w.keys[key] = true
	w.nodes = append(w.nodes, diagram.NodeDecl{Key: key, Label: label})
	return nil
}

// Edge implements diagram.Sink. Both endpoints must name a declared node,
// optionally followed by ":port".
func (w *Writer) Edge(from, to string) error {
	for _, end := range []string{from, to} {
		if node, _, _ := strings.Cut(end, ":"); !w.keys[node] {
			return fmt.Errorf("edge endpoint %q references unknown node", end)
		}
	}
	w.edges = append(w.edges, diagram.EdgeDecl{From: from, To: to})
	return nil
}

// NodeCount returns the number of declared nodes.
func (w *Writer) NodeCount() int { return len(w.nodes) }

// EdgeCount returns the number of declared edges.
func (w *Writer) EdgeCount() int { return len(w.edges) }

// String returns the DOT source of everything declared so far.
func (w *Writer) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", quote(w.opts.Name))
	fmt.Fprintf(&buf, "  rankdir=%s;\n", w.opts.RankDir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=record, height=%s];\n", quote(w.opts.NodeHeight))
	buf.WriteString("\n")

	for _, n := range w.nodes {
		fmt.Fprintf(&buf, "  %s [label=%s];\n", quote(n.Key), quote(n.Label))
	}

	buf.WriteString("\n")
	for _, e := range w.edges {
		fmt.Fprintf(&buf, "  %s -> %s;\n", endpoint(e.From), endpoint(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// endpoint formats "node:port" as a quoted node id followed by its port.
func endpoint(s string) string {
	node, port, ok := strings.Cut(s, ":")
	if !ok {
		return quote(node)
	}
	return quote(node) + ":" + quote(port)
}

var quoter = strings.NewReplacer(`"`, `\"`, "\n", `\n`)

// quote wraps s in double quotes. Backslashes are left alone because record
// labels use them to escape field separators.
func quote(s string) string { return `"` + quoter.Replace(s) + `"` }

// Ensure Writer implements diagram.Sink.
var _ diagram.Sink = (*Writer)(nil)
