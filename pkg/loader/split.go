package loader

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/martijnende/TriesteML/pkg/data"
)

var (
	// ErrInvalidFraction indicates a test fraction outside (0, 1).
	ErrInvalidFraction = errors.New("split: test fraction must be in (0, 1)")
	// ErrEmptyDataset indicates a dataset with no rows.
	ErrEmptyDataset = errors.New("split: dataset has no rows")
)

// TrainTestSplit partitions a dataset into disjoint train and test subsets.
// The test subset gets round(testFraction * n) rows chosen by a permutation
// seeded with seed, so the same (dataset, fraction, seed) always produces
// the identical split. Every row lands in exactly one subset and keeps its
// feature/label pairing.
func TrainTestSplit(ds *data.Dataset, testFraction float64, seed int64) (train, test *data.Dataset, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("%w: got %g", ErrInvalidFraction, testFraction)
	}
	n := ds.Len()
	if n == 0 {
		return nil, nil, ErrEmptyDataset
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(math.Round(testFraction * float64(n)))
	test = ds.Subset(perm[:nTest])
	train = ds.Subset(perm[nTest:])
	return train, test, nil
}

// Shuffle returns a copy of the dataset with rows in seeded random order.
func Shuffle(ds *data.Dataset, seed int64) *data.Dataset {
	return ds.Subset(rand.New(rand.NewSource(seed)).Perm(ds.Len()))
}

// KFold deals n row indices into k folds in seeded random order. Folds are
// disjoint and cover all indices; sizes differ by at most one.
func KFold(n, k int, seed int64) ([][]int, error) {
	if k < 2 || k > n {
		return nil, fmt.Errorf("split: need 2 <= k <= n, got k=%d n=%d", k, n)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	folds := make([][]int, k)
	for i, idx := range perm {
		folds[i%k] = append(folds[i%k], idx)
	}
	return folds, nil
}
