// Copyright 2026 podium Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"cmp"
	"math"
	"slices"

	"github.com/podium-ml/podium/common/random"
	"gonum.org/v1/gonum/stat"
)

// binThresholds returns at most maxBins-1 candidate thresholds per feature. Small value sets
// use midpoints between distinct values, larger ones use empirical quantile boundaries.
func binThresholds(X [][]float64, maxBins int) [][]float64 {
	if len(X) == 0 {
		return nil
	}
	thresholds := make([][]float64, len(X[0]))
	values := make([]float64, len(X))
	for j := range thresholds {
		for i := range X {
			values[i] = X[i][j]
		}
		slices.Sort(values)
		distinct := slices.Compact(slices.Clone(values))
		if len(distinct)-1 <= maxBins-1 {
			for k := 1; k < len(distinct); k++ {
				thresholds[j] = append(thresholds[j], (distinct[k-1]+distinct[k])/2)
			}
			continue
		}
		for k := 1; k < maxBins; k++ {
			q := stat.Quantile(float64(k)/float64(maxBins), stat.Empirical, values, nil)
			if q < values[len(values)-1] {
				thresholds[j] = append(thresholds[j], q)
			}
		}
		thresholds[j] = slices.Compact(thresholds[j])
	}
	return thresholds
}

type treeNode struct {
	leaf      bool
	class     int
	feature   int
	threshold float64 // x <= threshold goes left
	left      *treeNode
	right     *treeNode
}

// decisionTree is a CART classifier using the gini impurity.
type decisionTree struct {
	maxDepth        int
	minSamplesSplit int
	maxFeatures     int
	nClasses        int
	root            *treeNode
}

func (t *decisionTree) fit(X [][]float64, y []int, indices []int, thresholds [][]float64, rng random.Generator) {
	t.root = t.build(X, y, indices, thresholds, 0, rng)
}

func (t *decisionTree) predict(x []float64) int {
	node := t.root
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.class
}

func (t *decisionTree) depth() int {
	var walk func(node *treeNode) int
	walk = func(node *treeNode) int {
		if node.leaf {
			return 0
		}
		return 1 + max(walk(node.left), walk(node.right))
	}
	return walk(t.root)
}

func (t *decisionTree) build(X [][]float64, y []int, indices []int, thresholds [][]float64, depth int, rng random.Generator) *treeNode {
	counts := make([]int, t.nClasses)
	for _, i := range indices {
		counts[y[i]]++
	}
	leaf := &treeNode{leaf: true, class: argmax(counts)}
	if depth >= t.maxDepth || len(indices) < t.minSamplesSplit || counts[leaf.class] == len(indices) {
		return leaf
	}

	nFeatures := len(thresholds)
	features := rng.Sample(0, nFeatures, min(t.maxFeatures, nFeatures))
	bestImpurity := gini(counts, len(indices))
	bestFeature, bestThreshold := -1, 0.0
	sorted := slices.Clone(indices)
	leftCounts := make([]int, t.nClasses)
	rightCounts := make([]int, t.nClasses)
	for _, f := range features {
		slices.SortFunc(sorted, func(a, b int) int {
			return cmp.Compare(X[a][f], X[b][f])
		})
		clear(leftCounts)
		copy(rightCounts, counts)
		nLeft, pos := 0, 0
		for _, threshold := range thresholds[f] {
			for pos < len(sorted) && X[sorted[pos]][f] <= threshold {
				leftCounts[y[sorted[pos]]]++
				rightCounts[y[sorted[pos]]]--
				nLeft++
				pos++
			}
			nRight := len(sorted) - nLeft
			if nLeft == 0 {
				continue
			}
			if nRight == 0 {
				break
			}
			impurity := (float64(nLeft)*gini(leftCounts, nLeft) + float64(nRight)*gini(rightCounts, nRight)) /
				float64(len(sorted))
			if impurity < bestImpurity-1e-12 {
				bestImpurity, bestFeature, bestThreshold = impurity, f, threshold
			}
		}
	}
	if bestFeature < 0 {
		return leaf
	}

	var left, right []int
	for _, i := range indices {
		if X[i][bestFeature] <= bestThreshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &treeNode{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      t.build(X, y, left, thresholds, depth+1, rng),
		right:     t.build(X, y, right, thresholds, depth+1, rng),
	}
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		impurity -= p * p
	}
	return impurity
}

// argmax returns the lowest index of the maximum.
func argmax(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}

func defaultMaxFeatures(nFeatures int) int {
	return max(1, int(math.Sqrt(float64(nFeatures))))
}
