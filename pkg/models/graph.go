package models

// Graph is the in-memory adjacency view of one automation, indexed by the
// graph-local node id. It is built fresh from the automation's node and edge
// rows and never mutated during a walk.
type Graph struct {
	nodes map[string]*AutomationNode
	out   map[string][]*AutomationEdge
	// first trigger node in definition order; graphs with several trigger
	// nodes are tolerated and the first one wins
	trigger *AutomationNode
}

// NewGraph builds the adjacency index for an automation.
func NewGraph(automation *Automation) *Graph {
	g := &Graph{
		nodes: make(map[string]*AutomationNode, len(automation.Nodes)),
		out:   make(map[string][]*AutomationEdge),
	}

	for _, node := range automation.Nodes {
		g.nodes[node.NodeID] = node

		if node.Type == NodeTypeTrigger && g.trigger == nil {
			g.trigger = node
		}
	}

	for _, edge := range automation.Edges {
		g.out[edge.SourceNodeID] = append(g.out[edge.SourceNodeID], edge)
	}

	return g
}

// Node returns the node with the given graph-local id.
func (g *Graph) Node(nodeID string) (*AutomationNode, bool) {
	node, exists := g.nodes[nodeID]

	return node, exists
}

// TriggerNode returns the graph's entry point.
func (g *Graph) TriggerNode() (*AutomationNode, bool) {
	if g.trigger == nil {
		return nil, false
	}

	return g.trigger, true
}

// EdgesFrom returns all outgoing edges of a node in definition order.
func (g *Graph) EdgesFrom(nodeID string) []*AutomationEdge {
	return g.out[nodeID]
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}
