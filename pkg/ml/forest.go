package ml

import (
	"math"
	"math/rand"
	"sort"
)

// RandomForest is a binary random forest classifier. Trees are built on
// bootstrap samples with per-split feature subsampling, and prediction
// soft-votes the per-tree leaf probabilities. A fixed seed makes
// training reproducible.
type RandomForest struct {
	Trees          []*TreeNode `json:"trees"`
	NumTrees       int         `json:"numTrees"`
	MaxDepth       int         `json:"maxDepth"`
	MinSamplesLeaf int         `json:"minSamplesLeaf"`
	MaxFeatures    int         `json:"maxFeatures"` // 0 = sqrt(dim)
	Seed           int64       `json:"seed"`

	rng *rand.Rand
}

// TreeNode is one node of a decision tree. The struct is exported so a
// trained forest serializes into the model artifact.
type TreeNode struct {
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *TreeNode `json:"left,omitempty"`
	Right     *TreeNode `json:"right,omitempty"`
	IsLeaf    bool      `json:"isLeaf,omitempty"`
	Probs     []float64 `json:"probs,omitempty"` // [notScam, scam] at leaves
}

// NewRandomForest creates an untrained forest with the engine's standard
// hyperparameters: 100 trees, depth cap 10.
func NewRandomForest(seed int64) *RandomForest {
	return &RandomForest{
		NumTrees:       100,
		MaxDepth:       10,
		MinSamplesLeaf: 2,
		Seed:           seed,
	}
}

// Fit trains the forest. Labels are 0 (not scam) or 1 (scam).
func (rf *RandomForest) Fit(X [][]float64, y []int) {
	if len(X) == 0 {
		return
	}
	rf.rng = rand.New(rand.NewSource(rf.Seed))

	dim := len(X[0])
	if rf.MaxFeatures <= 0 {
		rf.MaxFeatures = int(math.Sqrt(float64(dim)))
		if rf.MaxFeatures < 1 {
			rf.MaxFeatures = 1
		}
	}

	rf.Trees = make([]*TreeNode, rf.NumTrees)
	for i := 0; i < rf.NumTrees; i++ {
		sampleX, sampleY := rf.bootstrapSample(X, y)
		rf.Trees[i] = rf.buildNode(sampleX, sampleY, 0, dim)
	}
}

// PredictProba returns [P(notScam), P(scam)] averaged over all trees.
func (rf *RandomForest) PredictProba(x []float64) []float64 {
	if len(rf.Trees) == 0 {
		return []float64{0.5, 0.5}
	}

	votes := []float64{0, 0}
	for _, root := range rf.Trees {
		probs := treePredict(root, x)
		votes[0] += probs[0]
		votes[1] += probs[1]
	}

	n := float64(len(rf.Trees))
	return []float64{votes[0] / n, votes[1] / n}
}

func treePredict(node *TreeNode, x []float64) []float64 {
	for node != nil && !node.IsLeaf {
		if node.Feature < len(x) && x[node.Feature] < node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	if node == nil || len(node.Probs) != 2 {
		return []float64{0.5, 0.5}
	}
	return node.Probs
}

// buildNode recursively grows a tree.
func (rf *RandomForest) buildNode(X [][]float64, y []int, depth, dim int) *TreeNode {
	n := len(X)

	counts := []int{0, 0}
	for _, label := range y {
		counts[label]++
	}

	if depth >= rf.MaxDepth || n <= rf.MinSamplesLeaf || counts[0] == 0 || counts[1] == 0 {
		return createLeaf(counts, n)
	}

	bestFeature, bestThreshold, bestGain := rf.findBestSplit(X, y, counts)
	if bestGain <= 0 {
		return createLeaf(counts, n)
	}

	leftX, leftY, rightX, rightY := splitData(X, y, bestFeature, bestThreshold)
	if len(leftX) == 0 || len(rightX) == 0 {
		return createLeaf(counts, n)
	}

	return &TreeNode{
		Feature:   bestFeature,
		Threshold: bestThreshold,
		Left:      rf.buildNode(leftX, leftY, depth+1, dim),
		Right:     rf.buildNode(rightX, rightY, depth+1, dim),
	}
}

func createLeaf(counts []int, total int) *TreeNode {
	probs := []float64{0, 0}
	if total > 0 {
		probs[0] = float64(counts[0]) / float64(total)
		probs[1] = float64(counts[1]) / float64(total)
	} else {
		probs[0], probs[1] = 0.5, 0.5
	}
	return &TreeNode{IsLeaf: true, Probs: probs}
}

// findBestSplit scans a random feature subset for the Gini-optimal split.
func (rf *RandomForest) findBestSplit(X [][]float64, y []int, counts []int) (int, float64, float64) {
	n := len(X)
	if n == 0 || len(X[0]) == 0 {
		return 0, 0, 0
	}

	currentGini := giniImpurity(counts, n)
	bestFeature := -1
	bestThreshold := 0.0
	bestGain := 0.0

	for _, feature := range rf.selectRandomFeatures(len(X[0])) {
		values := make([]float64, n)
		for i, point := range X {
			values[i] = point[feature]
		}
		sort.Float64s(values)

		for i := 0; i < n-1; i++ {
			if values[i] == values[i+1] {
				continue
			}
			threshold := (values[i] + values[i+1]) / 2

			leftCounts := []int{0, 0}
			rightCounts := []int{0, 0}
			leftTotal, rightTotal := 0, 0

			for j, point := range X {
				if point[feature] < threshold {
					leftCounts[y[j]]++
					leftTotal++
				} else {
					rightCounts[y[j]]++
					rightTotal++
				}
			}

			if leftTotal == 0 || rightTotal == 0 {
				continue
			}

			weighted := (float64(leftTotal)*giniImpurity(leftCounts, leftTotal) +
				float64(rightTotal)*giniImpurity(rightCounts, rightTotal)) / float64(n)

			if gain := currentGini - weighted; gain > bestGain {
				bestGain = gain
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	return bestFeature, bestThreshold, bestGain
}

func giniImpurity(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, count := range counts {
		p := float64(count) / float64(total)
		impurity -= p * p
	}
	return impurity
}

func splitData(X [][]float64, y []int, feature int, threshold float64) ([][]float64, []int, [][]float64, []int) {
	var leftX, rightX [][]float64
	var leftY, rightY []int

	for i, point := range X {
		if point[feature] < threshold {
			leftX = append(leftX, point)
			leftY = append(leftY, y[i])
		} else {
			rightX = append(rightX, point)
			rightY = append(rightY, y[i])
		}
	}

	return leftX, leftY, rightX, rightY
}

// selectRandomFeatures picks MaxFeatures feature indices without
// replacement via a partial Fisher-Yates shuffle.
func (rf *RandomForest) selectRandomFeatures(dim int) []int {
	if rf.MaxFeatures >= dim {
		features := make([]int, dim)
		for i := range features {
			features[i] = i
		}
		return features
	}

	indices := make([]int, dim)
	for i := range indices {
		indices[i] = i
	}
	for i := 0; i < rf.MaxFeatures; i++ {
		j := i + rf.rng.Intn(dim-i)
		indices[i], indices[j] = indices[j], indices[i]
	}
	return indices[:rf.MaxFeatures]
}

// bootstrapSample draws n samples with replacement.
func (rf *RandomForest) bootstrapSample(X [][]float64, y []int) ([][]float64, []int) {
	n := len(X)
	sampleX := make([][]float64, n)
	sampleY := make([]int, n)
	for i := 0; i < n; i++ {
		idx := rf.rng.Intn(n)
		sampleX[i] = X[idx]
		sampleY[i] = y[idx]
	}
	return sampleX, sampleY
}
