package model

import "fmt"

// Tree is an array-encoded binary decision tree. Internal nodes route
// on features[Feature] <= Threshold; leaves (Feature < 0) carry a
// value vector.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is one tree node. Left and Right index into the node array.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value,omitempty"`
}

// Apply routes a feature row from the root to its leaf value. The row
// width and node indices have been validated at load time.
func (t *Tree) Apply(features []float64) []float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Feature < 0 {
			return n.Value
		}
		if features[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// validate checks structural soundness: child indices stay in range
// and strictly increase (no cycles), split features fit the declared
// row width, and every leaf value has the expected width.
func (t *Tree) validate(numFeatures, valueWidth int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	for i, n := range t.Nodes {
		if n.Feature < 0 {
			if len(n.Value) != valueWidth {
				return fmt.Errorf("node %d: leaf value width %d, expected %d", i, len(n.Value), valueWidth)
			}
			continue
		}
		if n.Feature >= numFeatures {
			return fmt.Errorf("node %d: split feature %d out of range (width %d)", i, n.Feature, numFeatures)
		}
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d: child index out of range", i)
		}
	}
	return nil
}
