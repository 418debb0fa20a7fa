package model

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
)

// ForestClassifier is a random forest of TreeClassifiers. Trees are fit and
// queried concurrently, one goroutine per tree; results are deterministic
// for a fixed RandomState because every tree derives its own seed from it.
type ForestClassifier struct {
	// Hyperparameters / options
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int
	Bootstrap       bool
	RandomState     int64

	// Internal state
	Trees   []*TreeClassifier
	classes []int
}

// ForestOption is functional config for ForestClassifier.
type ForestOption func(*ForestClassifier)

func WithNEstimators(n int) ForestOption {
	return func(f *ForestClassifier) { f.NEstimators = n }
}
func WithBootstrap(b bool) ForestOption {
	return func(f *ForestClassifier) { f.Bootstrap = b }
}
func WithForestMaxDepth(d int) ForestOption {
	return func(f *ForestClassifier) { f.MaxDepth = d }
}
func WithForestMaxFeatures(k int) ForestOption {
	return func(f *ForestClassifier) { f.MaxFeatures = k }
}
func WithForestRandomState(seed int64) ForestOption {
	return func(f *ForestClassifier) { f.RandomState = seed }
}

// NewForestClassifier initializes the forest with sensible defaults.
func NewForestClassifier(opts ...ForestOption) *ForestClassifier {
	f := &ForestClassifier{
		NEstimators:     100,
		MinSamplesSplit: 2,
		Bootstrap:       true,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fit trains the forest. Each tree gets its own bootstrap sample of row
// indices, so no rows are copied.
func (f *ForestClassifier) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("forest: empty X")
	}
	n := len(X)
	if len(y) != n {
		return errors.New("forest: X and y length mismatch")
	}

	f.Trees = make([]*TreeClassifier, f.NEstimators)
	var wg sync.WaitGroup
	errCh := make(chan error, f.NEstimators)

	for i := 0; i < f.NEstimators; i++ {
		wg.Add(1)
		go func(treeIdx int) {
			defer wg.Done()

			// Per-tree source: no contention, reproducible per seed.
			treeRand := rand.New(rand.NewSource(f.RandomState + int64(treeIdx)))
			sample := make([]int, n)
			for j := range sample {
				if f.Bootstrap {
					sample[j] = treeRand.Intn(n)
				} else {
					sample[j] = j
				}
			}

			tree := NewTreeClassifier(
				WithMaxDepth(f.MaxDepth),
				WithMinSamplesSplit(f.MinSamplesSplit),
				WithMaxFeatures(f.MaxFeatures),
				WithRandomState(f.RandomState+int64(treeIdx)),
			)
			if err := tree.FitIndices(X, y, sample); err != nil {
				errCh <- err
				return
			}
			f.Trees[treeIdx] = tree
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}

	// Union of classes across trees; a bootstrap sample can miss a rare one.
	seen := map[int]bool{}
	f.classes = nil
	for _, label := range y {
		if !seen[label] {
			seen[label] = true
			f.classes = append(f.classes, label)
		}
	}
	sort.Ints(f.classes)
	return nil
}

// Predict returns the majority vote of all trees for each row. Ties break
// toward the smallest class label so repeated calls agree.
func (f *ForestClassifier) Predict(X [][]float64) []int {
	n := len(X)
	allPreds := f.collectPredictions(X)

	out := make([]int, n)
	for i := 0; i < n; i++ {
		counts := make(map[int]int)
		for _, preds := range allPreds {
			counts[preds[i]]++
		}
		best, bestCount := 0, -1
		for cls, cnt := range counts {
			if cnt > bestCount || (cnt == bestCount && cls < best) {
				best, bestCount = cls, cnt
			}
		}
		out[i] = best
	}
	return out
}

// PredictProba averages the per-tree class distributions, aligned with
// Classes().
func (f *ForestClassifier) PredictProba(X [][]float64) [][]float64 {
	n := len(X)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, len(f.classes))
	}
	if len(f.Trees) == 0 {
		return out
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, tree := range f.Trees {
		wg.Add(1)
		go func(t *TreeClassifier) {
			defer wg.Done()
			treeClasses := t.Classes()
			probas := t.PredictProba(X)
			mu.Lock()
			defer mu.Unlock()
			for i, dist := range probas {
				for j, p := range dist {
					out[i][f.classIndex(treeClasses[j])] += p
				}
			}
		}(tree)
	}
	wg.Wait()

	inv := 1 / float64(len(f.Trees))
	for i := range out {
		for j := range out[i] {
			out[i][j] *= inv
		}
	}
	return out
}

// Classes returns the sorted class labels seen during fitting.
func (f *ForestClassifier) Classes() []int {
	out := make([]int, len(f.classes))
	copy(out, f.classes)
	return out
}

func (f *ForestClassifier) classIndex(label int) int {
	for i, c := range f.classes {
		if c == label {
			return i
		}
	}
	return 0
}

func (f *ForestClassifier) collectPredictions(X [][]float64) [][]int {
	allPreds := make([][]int, len(f.Trees))
	var wg sync.WaitGroup
	for i, tree := range f.Trees {
		wg.Add(1)
		go func(idx int, t *TreeClassifier) {
			defer wg.Done()
			allPreds[idx] = t.Predict(X)
		}(i, tree)
	}
	wg.Wait()
	return allPreds
}
