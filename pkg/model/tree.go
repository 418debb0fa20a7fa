package model

import (
	"bytes"
	"encoding/gob"
	"errors"
	"math"
	"math/rand"
	"sort"
)

// TreeClassifier is a CART-style decision tree for integer class labels.
type TreeClassifier struct {
	// Hyperparameters / options
	MaxDepth            int     // maximum depth (root depth = 0). 0 => no limit
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinSamplesLeaf      int     // minimum samples required in each leaf
	Criterion           string  // "gini" (default) or "entropy"
	MaxFeatures         int     // 0 => consider all features at each split
	MinImpurityDecrease float64 // minimal impurity decrease to accept a split
	RandomState         int64   // seed for feature subsampling

	// internals
	root    *treeNode
	classes []int // sorted unique labels; proba vectors align with this
}

type treeNode struct {
	leaf      bool
	feature   int
	threshold float64 // x[feature] <= threshold goes left
	left      *treeNode
	right     *treeNode

	probas []float64
	pred   int // index into classes
}

// TreeOption is functional config for TreeClassifier.
type TreeOption func(*TreeClassifier)

func WithMaxDepth(d int) TreeOption        { return func(t *TreeClassifier) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) TreeOption { return func(t *TreeClassifier) { t.MinSamplesSplit = n } }
func WithMinSamplesLeaf(n int) TreeOption  { return func(t *TreeClassifier) { t.MinSamplesLeaf = n } }
func WithCriterion(c string) TreeOption    { return func(t *TreeClassifier) { t.Criterion = c } }
func WithMaxFeatures(k int) TreeOption     { return func(t *TreeClassifier) { t.MaxFeatures = k } }
func WithMinImpurityDecrease(v float64) TreeOption {
	return func(t *TreeClassifier) { t.MinImpurityDecrease = v }
}
func WithRandomState(seed int64) TreeOption {
	return func(t *TreeClassifier) { t.RandomState = seed }
}

// NewTreeClassifier returns a classifier with sensible defaults.
func NewTreeClassifier(opts ...TreeOption) *TreeClassifier {
	t := &TreeClassifier{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       "gini",
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit trains the tree on X (n rows, p columns) and y (n labels).
func (t *TreeClassifier) Fit(X [][]float64, y []int) error {
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return t.FitIndices(X, y, idx)
}

// FitIndices trains the tree on the rows of X selected by idx. Indices may
// repeat, which is how the forest passes bootstrap samples without copying
// rows.
func (t *TreeClassifier) FitIndices(X [][]float64, y []int, idx []int) error {
	if len(X) == 0 || len(idx) == 0 {
		return errors.New("tree: empty X")
	}
	if len(y) != len(X) {
		return errors.New("tree: X and y length mismatch")
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return errors.New("tree: inconsistent number of features in X rows")
		}
	}

	// Classes are sorted so proba ordering is stable across fits.
	seen := map[int]bool{}
	t.classes = nil
	for _, i := range idx {
		if !seen[y[i]] {
			seen[y[i]] = true
			t.classes = append(t.classes, y[i])
		}
	}
	sort.Ints(t.classes)

	impurity := giniFromCounts
	if t.Criterion == "entropy" {
		impurity = entropyFromCounts
	}
	rng := rand.New(rand.NewSource(t.RandomState))
	t.root = t.buildNode(X, y, idx, 0, p, impurity, rng)
	return nil
}

// Predict returns the predicted class label for each row of X.
func (t *TreeClassifier) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, x := range X {
		node := t.walk(x)
		out[i] = t.classes[node.pred]
	}
	return out
}

// PredictProba returns the class probability distribution for each row of
// X, aligned with Classes().
func (t *TreeClassifier) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, x := range X {
		node := t.walk(x)
		probas := make([]float64, len(node.probas))
		copy(probas, node.probas)
		out[i] = probas
	}
	return out
}

// Classes returns the sorted class labels seen during fitting.
func (t *TreeClassifier) Classes() []int {
	out := make([]int, len(t.classes))
	copy(out, t.classes)
	return out
}

func (t *TreeClassifier) walk(x []float64) *treeNode {
	node := t.root
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node
}

// ---------------------------
// Tree construction
// ---------------------------

type splitResult struct {
	ok        bool
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

func (t *TreeClassifier) buildNode(X [][]float64, y, idx []int, depth, p int,
	impurity func([]int) float64, rng *rand.Rand) *treeNode {

	counts := t.classCounts(y, idx)
	parentImpurity := impurity(counts)

	if isPure(counts) ||
		len(idx) < t.MinSamplesSplit ||
		(t.MaxDepth > 0 && depth >= t.MaxDepth) {
		return t.makeLeaf(counts)
	}

	features := t.candidateFeatures(p, rng)
	best := splitResult{}
	for _, f := range features {
		res := t.bestSplitForFeature(X, y, idx, f, parentImpurity, impurity)
		if res.ok && (!best.ok || res.gain > best.gain) {
			best = res
		}
	}
	if !best.ok || best.gain < t.MinImpurityDecrease {
		return t.makeLeaf(counts)
	}

	return &treeNode{
		feature:   best.feature,
		threshold: best.threshold,
		left:      t.buildNode(X, y, best.left, depth+1, p, impurity, rng),
		right:     t.buildNode(X, y, best.right, depth+1, p, impurity, rng),
	}
}

func (t *TreeClassifier) candidateFeatures(p int, rng *rand.Rand) []int {
	k := t.MaxFeatures
	if k <= 0 || k >= p {
		all := make([]int, p)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return rng.Perm(p)[:k]
}

// bestSplitForFeature scans thresholds between distinct consecutive values
// of the feature, maintaining class counts incrementally.
func (t *TreeClassifier) bestSplitForFeature(X [][]float64, y, idx []int, f int,
	parentImpurity float64, impurity func([]int) float64) splitResult {

	sorted := make([]int, len(idx))
	copy(sorted, idx)
	sort.Slice(sorted, func(a, b int) bool {
		return X[sorted[a]][f] < X[sorted[b]][f]
	})

	n := len(sorted)
	nClasses := len(t.classes)
	leftCounts := make([]int, nClasses)
	rightCounts := t.classCounts(y, sorted)

	best := splitResult{feature: f}
	for i := 0; i < n-1; i++ {
		c := t.classIndex(y[sorted[i]])
		leftCounts[c]++
		rightCounts[c]--

		v, next := X[sorted[i]][f], X[sorted[i+1]][f]
		if v == next {
			continue
		}
		nLeft, nRight := i+1, n-i-1
		if nLeft < t.MinSamplesLeaf || nRight < t.MinSamplesLeaf {
			continue
		}
		weighted := (float64(nLeft)*impurity(leftCounts) +
			float64(nRight)*impurity(rightCounts)) / float64(n)
		gain := parentImpurity - weighted
		if !best.ok || gain > best.gain {
			best.ok = true
			best.gain = gain
			best.threshold = (v + next) / 2
		}
	}
	if !best.ok {
		return best
	}

	for _, i := range sorted {
		if X[i][f] <= best.threshold {
			best.left = append(best.left, i)
		} else {
			best.right = append(best.right, i)
		}
	}
	return best
}

func (t *TreeClassifier) makeLeaf(counts []int) *treeNode {
	total := 0
	for _, c := range counts {
		total += c
	}
	probas := make([]float64, len(counts))
	pred, maxCount := 0, -1
	for i, c := range counts {
		probas[i] = float64(c) / float64(total)
		if c > maxCount {
			pred, maxCount = i, c
		}
	}
	return &treeNode{leaf: true, probas: probas, pred: pred}
}

func (t *TreeClassifier) classCounts(y, idx []int) []int {
	counts := make([]int, len(t.classes))
	for _, i := range idx {
		counts[t.classIndex(y[i])]++
	}
	return counts
}

func (t *TreeClassifier) classIndex(label int) int {
	return sort.SearchInts(t.classes, label)
}

func isPure(counts []int) bool {
	nonzero := 0
	for _, c := range counts {
		if c > 0 {
			nonzero++
		}
	}
	return nonzero <= 1
}

func giniFromCounts(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		g -= p * p
	}
	return g
}

func entropyFromCounts(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		h -= p * math.Log2(p)
	}
	return h
}

// ---------------------------
// Persistence (gob)
// ---------------------------

type treeWire struct {
	Leaf      bool
	Feature   int
	Threshold float64
	Probas    []float64
	Pred      int
	Left      *treeWire
	Right     *treeWire
}

type treeClassifierWire struct {
	MaxDepth            int
	MinSamplesSplit     int
	MinSamplesLeaf      int
	Criterion           string
	MaxFeatures         int
	MinImpurityDecrease float64
	RandomState         int64
	Classes             []int
	Root                *treeWire
}

func toWire(n *treeNode) *treeWire {
	if n == nil {
		return nil
	}
	return &treeWire{
		Leaf:      n.leaf,
		Feature:   n.feature,
		Threshold: n.threshold,
		Probas:    n.probas,
		Pred:      n.pred,
		Left:      toWire(n.left),
		Right:     toWire(n.right),
	}
}

func fromWire(w *treeWire) *treeNode {
	if w == nil {
		return nil
	}
	return &treeNode{
		leaf:      w.Leaf,
		feature:   w.Feature,
		threshold: w.Threshold,
		probas:    w.Probas,
		pred:      w.Pred,
		left:      fromWire(w.Left),
		right:     fromWire(w.Right),
	}
}

// MarshalBinary serializes the fitted tree with encoding/gob.
func (t *TreeClassifier) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	w := treeClassifierWire{
		MaxDepth:            t.MaxDepth,
		MinSamplesSplit:     t.MinSamplesSplit,
		MinSamplesLeaf:      t.MinSamplesLeaf,
		Criterion:           t.Criterion,
		MaxFeatures:         t.MaxFeatures,
		MinImpurityDecrease: t.MinImpurityDecrease,
		RandomState:         t.RandomState,
		Classes:             t.classes,
		Root:                toWire(t.root),
	}
	if err := gob.NewEncoder(&buf).Encode(w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary restores a tree serialized by MarshalBinary.
func (t *TreeClassifier) UnmarshalBinary(data []byte) error {
	var w treeClassifierWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return err
	}
	t.MaxDepth = w.MaxDepth
	t.MinSamplesSplit = w.MinSamplesSplit
	t.MinSamplesLeaf = w.MinSamplesLeaf
	t.Criterion = w.Criterion
	t.MaxFeatures = w.MaxFeatures
	t.MinImpurityDecrease = w.MinImpurityDecrease
	t.RandomState = w.RandomState
	t.classes = w.Classes
	t.root = fromWire(w.Root)
	return nil
}
