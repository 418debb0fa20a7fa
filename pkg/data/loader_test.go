package data_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martijnende/TriesteML/pkg/data"
	"github.com/martijnende/TriesteML/pkg/dataprep"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig() data.Config {
	return data.Config{
		IDColumn:    "building_id",
		LabelColumn: "damage_grade",
		Categorical: map[string]*dataprep.Vocabulary{
			"land_surface_condition": dataprep.MustVocabulary("n", "o", "t"),
		},
	}
}

const featuresCSV = `building_id,age,land_surface_condition,area
802906,30,o,6
28830,10,t,8
94947,22,n,5
`

const labelsCSV = `building_id,damage_grade
802906,3
28830,2
94947,3
`

// TestLoadPair_Basic verifies alignment, id dropping, and categorical
// encoding on a small well-formed pair of sources.
func TestLoadPair_Basic(t *testing.T) {
	dir := t.TempDir()
	fp := writeCSV(t, dir, "values.csv", featuresCSV)
	lp := writeCSV(t, dir, "labels.csv", labelsCSV)

	ds, err := data.LoadPair(fp, lp, testConfig())
	require.NoError(t, err)

	require.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"age", "land_surface_condition", "area"}, ds.FeatureNames())
	assert.NotContains(t, ds.FeatureNames(), "building_id",
		"identifier column must not reach the feature matrix")

	// land_surface_condition: o→1, t→2, n→0
	assert.Equal(t, [][]float64{
		{30, 1, 6},
		{10, 2, 8},
		{22, 0, 5},
	}, ds.X)
	assert.Equal(t, []int{3, 2, 3}, ds.Y)

	assert.Equal(t, data.KindCategorical, ds.Columns[1].Kind)
	assert.Equal(t, data.KindNumeric, ds.Columns[0].Kind)
}

// TestLoadPair_MaxRows verifies bounded ingestion: rows beyond the first N
// are not read.
func TestLoadPair_MaxRows(t *testing.T) {
	dir := t.TempDir()
	fp := writeCSV(t, dir, "values.csv", featuresCSV)
	lp := writeCSV(t, dir, "labels.csv", labelsCSV)

	cfg := testConfig()
	cfg.MaxRows = 2
	ds, err := data.LoadPair(fp, lp, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []int{3, 2}, ds.Y)
}

// TestLoadPair_RowCountMismatch covers the 50-vs-49 style scenario: the
// sources disagree on row count.
func TestLoadPair_RowCountMismatch(t *testing.T) {
	dir := t.TempDir()
	fp := writeCSV(t, dir, "values.csv", featuresCSV)
	lp := writeCSV(t, dir, "labels.csv", "building_id,damage_grade\n802906,3\n28830,2\n")

	_, err := data.LoadPair(fp, lp, testConfig())
	assert.ErrorIs(t, err, data.ErrSchemaMismatch)
}

// TestLoadPair_MissingCategoricalColumn fails when a configured categorical
// column is absent from the feature source.
func TestLoadPair_MissingCategoricalColumn(t *testing.T) {
	dir := t.TempDir()
	fp := writeCSV(t, dir, "values.csv", "building_id,age\n1,30\n")
	lp := writeCSV(t, dir, "labels.csv", "building_id,damage_grade\n1,2\n")

	_, err := data.LoadPair(fp, lp, testConfig())
	assert.ErrorIs(t, err, data.ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "land_surface_condition")
}

// TestLoadPair_IdentifierDivergence fails when the two sources list
// different records at the same position.
func TestLoadPair_IdentifierDivergence(t *testing.T) {
	dir := t.TempDir()
	fp := writeCSV(t, dir, "values.csv", "building_id,age,land_surface_condition,area\n1,30,o,6\n")
	lp := writeCSV(t, dir, "labels.csv", "building_id,damage_grade\n2,3\n")

	_, err := data.LoadPair(fp, lp, testConfig())
	assert.ErrorIs(t, err, data.ErrSchemaMismatch)
}

// TestLoadPair_UnknownCategory propagates the encoder's strict failure.
func TestLoadPair_UnknownCategory(t *testing.T) {
	dir := t.TempDir()
	fp := writeCSV(t, dir, "values.csv", "building_id,age,land_surface_condition,area\n1,30,z,6\n")
	lp := writeCSV(t, dir, "labels.csv", "building_id,damage_grade\n1,3\n")

	_, err := data.LoadPair(fp, lp, testConfig())
	assert.ErrorIs(t, err, dataprep.ErrUnknownCategory)
}

// TestLoadPair_NonNumericCell fails when a numeric column cannot be parsed.
func TestLoadPair_NonNumericCell(t *testing.T) {
	dir := t.TempDir()
	fp := writeCSV(t, dir, "values.csv", "building_id,age,land_surface_condition,area\n1,old,o,6\n")
	lp := writeCSV(t, dir, "labels.csv", "building_id,damage_grade\n1,3\n")

	_, err := data.LoadPair(fp, lp, testConfig())
	assert.ErrorIs(t, err, data.ErrSchemaMismatch)
	assert.Contains(t, err.Error(), `"age"`)
}

// TestLoadPair_MissingLabelColumn fails when the label source lacks the
// configured target column.
func TestLoadPair_MissingLabelColumn(t *testing.T) {
	dir := t.TempDir()
	fp := writeCSV(t, dir, "values.csv", featuresCSV)
	lp := writeCSV(t, dir, "labels.csv", "building_id,grade\n802906,3\n28830,2\n94947,3\n")

	_, err := data.LoadPair(fp, lp, testConfig())
	assert.ErrorIs(t, err, data.ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "damage_grade")
}

// TestDataset_Subset keeps feature/label pairing and copies rows.
func TestDataset_Subset(t *testing.T) {
	ds := &data.Dataset{
		Columns: []data.Column{{Name: "a"}, {Name: "b"}},
		X:       [][]float64{{1, 2}, {3, 4}, {5, 6}},
		Y:       []int{1, 2, 3},
	}

	sub := ds.Subset([]int{2, 0})
	assert.Equal(t, [][]float64{{5, 6}, {1, 2}}, sub.X)
	assert.Equal(t, []int{3, 1}, sub.Y)

	sub.X[0][0] = 99
	assert.Equal(t, 5.0, ds.X[2][0], "subset must not alias the source rows")
}

// TestDataset_Matrix checks the gonum handoff has the right shape and
// values.
func TestDataset_Matrix(t *testing.T) {
	ds := &data.Dataset{
		Columns: []data.Column{{Name: "a"}, {Name: "b"}},
		X:       [][]float64{{1, 2}, {3, 4}},
		Y:       []int{0, 1},
	}
	m := ds.Matrix()
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 4.0, m.At(1, 1))
}

// TestDataset_Describe spot-checks the per-column summaries.
func TestDataset_Describe(t *testing.T) {
	ds := &data.Dataset{
		Columns: []data.Column{{Name: "a"}},
		X:       [][]float64{{1}, {2}, {3}},
		Y:       []int{0, 0, 0},
	}
	sum := ds.Describe()
	require.Len(t, sum, 1)
	assert.Equal(t, "a", sum[0].Name)
	assert.InDelta(t, 2.0, sum[0].Mean, 1e-12)
	assert.Equal(t, 1.0, sum[0].Min)
	assert.Equal(t, 3.0, sum[0].Max)
	assert.Equal(t, 2.0, sum[0].Median)
}
