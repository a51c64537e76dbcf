// Package stats computes the per-mindmap aggregates cached on MindMap
// and User records. The computation is a pure full scan of the node set:
// no memoization, O(n) per invocation. Mindmaps are expected to stay in
// the tens-to-low-hundreds of nodes; incremental counters maintained
// under the same write as node insert/delete would be the first change
// at larger scale.
package stats

import "ideavine-backend/domain/core/entities"

// Stats holds the aggregates for one mindmap.
type Stats struct {
	TotalNodes int `json:"total_nodes"`
	MaxDepth   int `json:"max_depth"`
}

// Compute derives the aggregates from a mindmap's node set. MaxDepth is
// the maximum of the stored depth field, not a graph traversal; empty
// input yields {0, 0}.
func Compute(nodes []*entities.Node) Stats {
	s := Stats{TotalNodes: len(nodes)}
	for _, n := range nodes {
		if n.Depth > s.MaxDepth {
			s.MaxDepth = n.Depth
		}
	}
	return s
}
