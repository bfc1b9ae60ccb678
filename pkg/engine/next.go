package engine

import (
	"github.com/joelmartins/onsell-engine/pkg/models"
)

// NextNodes resolves the targets to walk after a node finishes. Edges
// without a condition are always followed. The condition path gate only
// activates when the source node is a condition node; anywhere else the
// discriminator is inert and the edge is followed unconditionally. Fan-out
// is supported and branches continue independently; there are no join
// semantics.
func NextNodes(graph *models.Graph, node *models.AutomationNode, result map[string]any) []string {
	edges := graph.EdgesFrom(node.NodeID)
	targets := make([]string, 0, len(edges))

	for _, edge := range edges {
		path, hasCondition := edge.ConditionPath()
		if !hasCondition || node.Type != models.NodeTypeCondition {
			targets = append(targets, edge.TargetNodeID)

			continue
		}

		conditionMet, _ := result["condition_met"].(bool)

		if conditionMet && path == models.EdgePathTrue {
			targets = append(targets, edge.TargetNodeID)
		} else if !conditionMet && path == models.EdgePathFalse {
			targets = append(targets, edge.TargetNodeID)
		}
	}

	return targets
}
