package data

import (
	"gonum.org/v1/gonum/mat"

	"github.com/martijnende/TriesteML/pkg/dataprep"
	"github.com/martijnende/TriesteML/pkg/stats"
)

// ColumnKind distinguishes numeric columns from categorical ones. The kind
// of every column is fixed by configuration before any data is read, never
// inferred from cell contents.
type ColumnKind int

const (
	KindNumeric ColumnKind = iota
	KindCategorical
)

func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column describes one feature column. Vocab is non-nil iff Kind is
// KindCategorical.
type Column struct {
	Name  string
	Kind  ColumnKind
	Vocab *dataprep.Vocabulary
}

// Dataset is an encoded feature matrix with an aligned label vector.
// Row i of X pairs with Y[i]; every operation on a Dataset preserves that
// pairing. After loading, categorical columns hold vocabulary codes, so X
// is fully numeric.
type Dataset struct {
	Columns []Column
	X       [][]float64
	Y       []int
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.X) }

// FeatureNames returns the column names in matrix order.
func (d *Dataset) FeatureNames() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Name
	}
	return out
}

// Matrix returns the features as a dense gonum matrix for numeric
// collaborators. The matrix shares no storage with the Dataset.
func (d *Dataset) Matrix() *mat.Dense {
	r, c := len(d.X), len(d.Columns)
	m := mat.NewDense(r, c, nil)
	for i, row := range d.X {
		m.SetRow(i, row)
	}
	return m
}

// Subset builds a new Dataset from the rows at the given indices, keeping
// feature/label pairing. The rows are copied; mutating the subset does not
// touch the source.
func (d *Dataset) Subset(indices []int) *Dataset {
	sub := &Dataset{
		Columns: d.Columns,
		X:       make([][]float64, len(indices)),
		Y:       make([]int, len(indices)),
	}
	for i, idx := range indices {
		row := make([]float64, len(d.X[idx]))
		copy(row, d.X[idx])
		sub.X[i] = row
		sub.Y[i] = d.Y[idx]
	}
	return sub
}

// ColumnSummary holds descriptive statistics for one column.
type ColumnSummary struct {
	Name   string
	Kind   ColumnKind
	Mean   float64
	Std    float64
	Median float64
	Min    float64
	Max    float64
}

// Describe computes per-column summary statistics.
func (d *Dataset) Describe() []ColumnSummary {
	out := make([]ColumnSummary, len(d.Columns))
	col := make([]float64, len(d.X))
	for j, c := range d.Columns {
		for i := range d.X {
			col[i] = d.X[i][j]
		}
		min, max := stats.MinMax(col)
		out[j] = ColumnSummary{
			Name:   c.Name,
			Kind:   c.Kind,
			Mean:   stats.Mean(col),
			Std:    stats.Std(col),
			Median: stats.Median(col),
			Min:    min,
			Max:    max,
		}
	}
	return out
}
