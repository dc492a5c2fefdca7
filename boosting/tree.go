package boosting

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// node is one entry in a tree's flat node array. Internal nodes route a
// sample left when its feature value is <= the threshold; leaves hold the
// fitted value.
type node struct {
	splitFeature int
	threshold    float64
	leftChild    int
	rightChild   int
	leafValue    float64
	isLeaf       bool
}

// tree is a single regression tree grown on gradient statistics. Nodes
// live in a flat slice with the root at index 0.
type tree struct {
	nodes []node
}

// predictRow walks the tree for one sample.
func (tr *tree) predictRow(x []float64) float64 {
	idx := 0
	for idx >= 0 && idx < len(tr.nodes) {
		n := &tr.nodes[idx]
		if n.isLeaf {
			return n.leafValue
		}
		if x[n.splitFeature] <= n.threshold {
			idx = n.leftChild
		} else {
			idx = n.rightChild
		}
	}
	return 0
}

// splitInfo describes the best split found for one node.
type splitInfo struct {
	feature    int
	threshold  float64
	gain       float64
	leftCount  int
	rightCount int
}

// treeBuilder grows one depth-limited regression tree per boosting round
// from the current gradient and hessian vectors. The builder is reused
// across rounds; only the gradient contents change between builds.
type treeBuilder struct {
	x         *mat.Dense
	gradients []float64
	hessians  []float64

	maxDepth        int
	minChildSamples int
	lambda          float64
	minGainToSplit  float64
}

func (b *treeBuilder) build(indices []int) tree {
	tr := tree{}
	b.buildNode(&tr, indices, 0)
	return tr
}

// buildNode appends the node covering indices and, when it splits, its
// subtrees. Returns the index of the appended node.
func (b *treeBuilder) buildNode(tr *tree, indices []int, depth int) int {
	nodeIdx := len(tr.nodes)

	if depth >= b.maxDepth || len(indices) < b.minChildSamples {
		tr.nodes = append(tr.nodes, node{
			leafValue:  b.leafValue(indices),
			leftChild:  -1,
			rightChild: -1,
			isLeaf:     true,
		})
		return nodeIdx
	}

	best := b.findBestSplit(indices)
	if best.gain < b.minGainToSplit {
		tr.nodes = append(tr.nodes, node{
			leafValue:  b.leafValue(indices),
			leftChild:  -1,
			rightChild: -1,
			isLeaf:     true,
		})
		return nodeIdx
	}

	tr.nodes = append(tr.nodes, node{
		splitFeature: best.feature,
		threshold:    best.threshold,
		leftChild:    -1,
		rightChild:   -1,
	})

	left, right := b.partition(indices, best)
	leftChild := b.buildNode(tr, left, depth+1)
	rightChild := b.buildNode(tr, right, depth+1)
	tr.nodes[nodeIdx].leftChild = leftChild
	tr.nodes[nodeIdx].rightChild = rightChild

	return nodeIdx
}

// findBestSplit scans every feature for the highest-gain split.
func (b *treeBuilder) findBestSplit(indices []int) splitInfo {
	_, cols := b.x.Dims()
	best := splitInfo{gain: -math.MaxFloat64}

	for j := 0; j < cols; j++ {
		if split := b.findBestSplitForFeature(indices, j); split.gain > best.gain {
			best = split
		}
	}

	return best
}

// findBestSplitForFeature runs the exact greedy scan over the sorted
// values of one feature, accumulating prefix gradient sums.
func (b *treeBuilder) findBestSplitForFeature(indices []int, feature int) splitInfo {
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Slice(sorted, func(i, j int) bool {
		return b.x.At(sorted[i], feature) < b.x.At(sorted[j], feature)
	})

	totalGrad := 0.0
	totalHess := 0.0
	for _, idx := range sorted {
		totalGrad += b.gradients[idx]
		totalHess += b.hessians[idx]
	}

	best := splitInfo{
		feature: feature,
		gain:    -math.MaxFloat64,
	}

	leftGrad := 0.0
	leftHess := 0.0
	for i := 0; i < len(sorted)-1; i++ {
		idx := sorted[i]
		leftGrad += b.gradients[idx]
		leftHess += b.hessians[idx]

		// Tied values cannot be separated by a threshold.
		value := b.x.At(idx, feature)
		next := b.x.At(sorted[i+1], feature)
		if value == next {
			continue
		}

		leftCount := i + 1
		rightCount := len(sorted) - leftCount
		if leftCount < b.minChildSamples || rightCount < b.minChildSamples {
			continue
		}

		gain := b.splitGain(leftGrad, leftHess, totalGrad-leftGrad, totalHess-leftHess, totalGrad, totalHess)
		if gain > best.gain {
			best.gain = gain
			best.threshold = (value + next) / 2
			best.leftCount = leftCount
			best.rightCount = rightCount
		}
	}

	return best
}

// splitGain scores a split by the reduction in the regularized objective.
func (b *treeBuilder) splitGain(leftGrad, leftHess, rightGrad, rightHess, totalGrad, totalHess float64) float64 {
	leftScore := leftGrad * leftGrad / (leftHess + b.lambda)
	rightScore := rightGrad * rightGrad / (rightHess + b.lambda)
	totalScore := totalGrad * totalGrad / (totalHess + b.lambda)

	return 0.5 * (leftScore + rightScore - totalScore)
}

// partition routes indices to the two children of a split.
func (b *treeBuilder) partition(indices []int, split splitInfo) ([]int, []int) {
	left := make([]int, 0, split.leftCount)
	right := make([]int, 0, split.rightCount)

	for _, idx := range indices {
		if b.x.At(idx, split.feature) <= split.threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	return left, right
}

// leafValue is the L2-regularized optimum for a leaf's samples.
func (b *treeBuilder) leafValue(indices []int) float64 {
	sumGrad := 0.0
	sumHess := 0.0
	for _, idx := range indices {
		sumGrad += b.gradients[idx]
		sumHess += b.hessians[idx]
	}

	const epsilon = 1e-10
	if math.Abs(sumHess) < epsilon {
		sumHess = epsilon
	}

	return -sumGrad / (sumHess + b.lambda + epsilon)
}
