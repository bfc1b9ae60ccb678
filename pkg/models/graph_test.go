package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGraph_IndexesNodesAndEdges(t *testing.T) {
	automation := &Automation{
		ID: "a-1",
		Nodes: []*AutomationNode{
			{NodeID: "trigger-1", Type: NodeTypeTrigger},
			{NodeID: "action-1", Type: NodeTypeAction},
		},
		Edges: []*AutomationEdge{
			{SourceNodeID: "trigger-1", TargetNodeID: "action-1"},
		},
	}

	graph := NewGraph(automation)

	assert.Equal(t, 2, graph.Len())

	node, ok := graph.Node("action-1")
	assert.True(t, ok)
	assert.Equal(t, NodeTypeAction, node.Type)

	_, ok = graph.Node("ghost")
	assert.False(t, ok)

	edges := graph.EdgesFrom("trigger-1")
	assert.Len(t, edges, 1)
	assert.Equal(t, "action-1", edges[0].TargetNodeID)
	assert.Empty(t, graph.EdgesFrom("action-1"))
}

func TestNewGraph_FirstTriggerWins(t *testing.T) {
	automation := &Automation{
		ID: "a-1",
		Nodes: []*AutomationNode{
			{NodeID: "action-1", Type: NodeTypeAction},
			{NodeID: "trigger-1", Type: NodeTypeTrigger},
			{NodeID: "trigger-2", Type: NodeTypeTrigger},
		},
	}

	graph := NewGraph(automation)

	trigger, ok := graph.TriggerNode()
	assert.True(t, ok)
	assert.Equal(t, "trigger-1", trigger.NodeID)
}

func TestNewGraph_NoTriggerNode(t *testing.T) {
	automation := &Automation{
		ID:    "a-1",
		Nodes: []*AutomationNode{{NodeID: "action-1", Type: NodeTypeAction}},
	}

	graph := NewGraph(automation)

	_, ok := graph.TriggerNode()
	assert.False(t, ok)
}
