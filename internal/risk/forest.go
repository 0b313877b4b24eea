package risk

import (
	"math"
	"math/rand"
	"sort"
)

// forest is a bootstrap ensemble of regression trees. Trees are grown
// sequentially from a single random source, so a fixed seed yields an
// identical ensemble on every run.
type forest struct {
	trees []*treeNode
}

type treeNode struct {
	leaf      bool
	value     float64 // mean label at the leaf
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

// Tree-growing parameters. Trees grow to full depth with single-sample
// leaves, like the reference estimator; the depth cap only guards against
// degenerate recursion.
const (
	minSamplesSplit = 2
	maxTreeDepth    = 32
	featureSubset   = 3 // features considered per split, out of 4
)

// growForest builds n trees over the sample matrix X and labels y.
func growForest(X [][]float64, y []float64, n int, rng *rand.Rand) *forest {
	f := &forest{trees: make([]*treeNode, 0, n)}
	for t := 0; t < n; t++ {
		idx := bootstrap(len(y), rng)
		f.trees = append(f.trees, growTree(X, y, idx, 0, rng))
	}
	return f
}

// predict returns the mean prediction across all trees.
func (f *forest) predict(x []float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += t.eval(x)
	}
	return sum / float64(len(f.trees))
}

func (n *treeNode) eval(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// bootstrap draws len(y) sample indices with replacement.
func bootstrap(n int, rng *rand.Rand) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.Intn(n)
	}
	return idx
}

func growTree(X [][]float64, y []float64, idx []int, depth int, rng *rand.Rand) *treeNode {
	if len(idx) < minSamplesSplit || depth >= maxTreeDepth || constantLabels(y, idx) {
		return &treeNode{leaf: true, value: meanLabel(y, idx)}
	}

	feat, thr, ok := bestSplit(X, y, idx, sampleFeatures(len(X[0]), rng))
	if !ok {
		return &treeNode{leaf: true, value: meanLabel(y, idx)}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feat] <= thr {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &treeNode{
		feature:   feat,
		threshold: thr,
		left:      growTree(X, y, left, depth+1, rng),
		right:     growTree(X, y, right, depth+1, rng),
	}
}

// sampleFeatures picks featureSubset distinct feature indices.
func sampleFeatures(total int, rng *rand.Rand) []int {
	k := featureSubset
	if k > total {
		k = total
	}
	perm := rng.Perm(total)
	feats := perm[:k]
	sort.Ints(feats)
	return feats
}

// bestSplit finds the (feature, threshold) pair minimizing the summed
// squared error of the two children. Thresholds are midpoints between
// adjacent distinct feature values.
func bestSplit(X [][]float64, y []float64, idx []int, features []int) (int, float64, bool) {
	bestSSE := math.Inf(1)
	bestFeat, bestThr := -1, 0.0

	type sample struct {
		x, y float64
	}
	samples := make([]sample, len(idx))

	for _, feat := range features {
		for i, id := range idx {
			samples[i] = sample{x: X[id][feat], y: y[id]}
		}
		sort.Slice(samples, func(a, b int) bool { return samples[a].x < samples[b].x })

		n := len(samples)
		var sumL, sumSqL float64
		sumR, sumSqR := 0.0, 0.0
		for _, s := range samples {
			sumR += s.y
			sumSqR += s.y * s.y
		}

		for k := 1; k < n; k++ {
			v := samples[k-1].y
			sumL += v
			sumSqL += v * v
			sumR -= v
			sumSqR -= v * v

			if samples[k-1].x == samples[k].x {
				continue
			}

			nl, nr := float64(k), float64(n-k)
			sse := (sumSqL - sumL*sumL/nl) + (sumSqR - sumR*sumR/nr)
			if sse < bestSSE {
				bestSSE = sse
				bestFeat = feat
				bestThr = (samples[k-1].x + samples[k].x) / 2
			}
		}
	}

	return bestFeat, bestThr, bestFeat >= 0
}

func meanLabel(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func constantLabels(y []float64, idx []int) bool {
	for _, i := range idx[1:] {
		if y[i] != y[idx[0]] {
			return false
		}
	}
	return true
}
