package loader_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martijnende/TriesteML/pkg/data"
	"github.com/martijnende/TriesteML/pkg/loader"
)

// makeDataset builds n rows whose single feature equals the row index, so
// tests can recover a row's origin from its value.
func makeDataset(n int) *data.Dataset {
	ds := &data.Dataset{
		Columns: []data.Column{{Name: "idx"}},
		X:       make([][]float64, n),
		Y:       make([]int, n),
	}
	for i := 0; i < n; i++ {
		ds.X[i] = []float64{float64(i)}
		ds.Y[i] = i
	}
	return ds
}

// TestTrainTestSplit_Sizes covers the reference scenario: 100 rows, f=0.2,
// seed=0 gives exactly 20 test rows and 80 train rows with no overlap.
func TestTrainTestSplit_Sizes(t *testing.T) {
	ds := makeDataset(100)

	train, test, err := loader.TrainTestSplit(ds, 0.2, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, test.Len())
	assert.Equal(t, 80, train.Len())

	seen := make(map[int]int)
	for _, y := range train.Y {
		seen[y]++
	}
	for _, y := range test.Y {
		seen[y]++
	}
	require.Len(t, seen, 100, "union of subsets must cover every input row")
	for idx, count := range seen {
		assert.Equal(t, 1, count, "row %d must appear in exactly one subset", idx)
	}
}

// TestTrainTestSplit_PairingPreserved verifies that each row keeps its own
// label through the split.
func TestTrainTestSplit_PairingPreserved(t *testing.T) {
	ds := makeDataset(50)

	train, test, err := loader.TrainTestSplit(ds, 0.3, 7)
	require.NoError(t, err)
	for i := range train.X {
		assert.Equal(t, float64(train.Y[i]), train.X[i][0])
	}
	for i := range test.X {
		assert.Equal(t, float64(test.Y[i]), test.X[i][0])
	}
}

// TestTrainTestSplit_Deterministic checks that the same seed reproduces a
// bit-identical split and a different seed does not.
func TestTrainTestSplit_Deterministic(t *testing.T) {
	ds := makeDataset(100)

	train1, test1, err := loader.TrainTestSplit(ds, 0.2, 42)
	require.NoError(t, err)
	train2, test2, err := loader.TrainTestSplit(ds, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, train1.Y, train2.Y)
	assert.Equal(t, test1.Y, test2.Y)

	_, test3, err := loader.TrainTestSplit(ds, 0.2, 43)
	require.NoError(t, err)
	assert.NotEqual(t, test1.Y, test3.Y)
}

// TestTrainTestSplit_Rounding checks |test| = round(f*n) on a case where
// truncation would differ.
func TestTrainTestSplit_Rounding(t *testing.T) {
	ds := makeDataset(7)

	// round(0.25 * 7) = 2
	train, test, err := loader.TrainTestSplit(ds, 0.25, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, test.Len())
	assert.Equal(t, 5, train.Len())
}

// TestTrainTestSplit_InvalidFraction rejects fractions outside (0, 1),
// including the f=1.5 scenario.
func TestTrainTestSplit_InvalidFraction(t *testing.T) {
	ds := makeDataset(10)
	for _, f := range []float64{1.5, 0, 1, -0.2} {
		t.Run(fmt.Sprintf("f=%g", f), func(t *testing.T) {
			_, _, err := loader.TrainTestSplit(ds, f, 0)
			assert.ErrorIs(t, err, loader.ErrInvalidFraction)
		})
	}
}

// TestTrainTestSplit_EmptyDataset rejects zero-row input.
func TestTrainTestSplit_EmptyDataset(t *testing.T) {
	_, _, err := loader.TrainTestSplit(makeDataset(0), 0.2, 0)
	assert.ErrorIs(t, err, loader.ErrEmptyDataset)
}

// TestShuffle_Deterministic checks seeded shuffles reproduce and preserve
// pairing.
func TestShuffle_Deterministic(t *testing.T) {
	ds := makeDataset(30)

	a := loader.Shuffle(ds, 5)
	b := loader.Shuffle(ds, 5)
	assert.Equal(t, a.Y, b.Y)
	assert.Equal(t, 30, a.Len())
	for i := range a.X {
		assert.Equal(t, float64(a.Y[i]), a.X[i][0])
	}
}

// TestKFold_Partition checks folds are disjoint, exhaustive, and balanced.
func TestKFold_Partition(t *testing.T) {
	folds, err := loader.KFold(10, 3, 1)
	require.NoError(t, err)
	require.Len(t, folds, 3)

	seen := make(map[int]bool)
	for _, fold := range folds {
		assert.GreaterOrEqual(t, len(fold), 3)
		assert.LessOrEqual(t, len(fold), 4)
		for _, idx := range fold {
			assert.False(t, seen[idx], "index %d appears twice", idx)
			seen[idx] = true
		}
	}
	assert.Len(t, seen, 10)

	_, err = loader.KFold(5, 1, 0)
	assert.Error(t, err)
	_, err = loader.KFold(3, 4, 0)
	assert.Error(t, err)
}
