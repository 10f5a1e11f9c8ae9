package diagram

// Sink receives node and edge declarations. The assembler calls Node for
// every household before it calls Edge for the first time.
type Sink interface {
	Node(key, label string) error
	Edge(from, to string) error
}

// NodeDecl is a recorded node declaration.
type NodeDecl struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// EdgeDecl is a recorded edge declaration.
type EdgeDecl struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Recorder is a [Sink] that keeps declarations in memory, in call order.
// The zero value is ready to use.
type Recorder struct {
	Nodes []NodeDecl `json:"nodes"`
	Edges []EdgeDecl `json:"edges"`
}

// Node implements Sink.
func (r *Recorder) Node(key, label string) error {
	r.Nodes = append(r.Nodes, NodeDecl{Key: key, Label: label})
	return nil
}

// Edge implements Sink.
func (r *Recorder) Edge(from, to string) error {
	r.Edges = append(r.Edges, EdgeDecl{From: from, To: to})
	return nil
}

// Replay sends the recorded declarations to another sink in their original
// order.
func (r *Recorder) Replay(s Sink) error {
	for _, n := range r.Nodes {
		if err := s.Node(n.Key, n.Label); err != nil {
			return err
		}
	}
	for _, e := range r.Edges {
		if err := s.Edge(e.From, e.To); err != nil {
			return err
		}
	}
	return nil
}

// Ensure Recorder implements Sink.
var _ Sink = (*Recorder)(nil)
