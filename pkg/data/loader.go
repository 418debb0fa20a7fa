package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/martijnende/TriesteML/pkg/dataprep"
)

// ErrSchemaMismatch is returned when the feature and label sources disagree
// with each other or with the configured schema: different row counts,
// diverging record identifiers, a missing configured column, or a cell that
// cannot be parsed as its column's kind.
var ErrSchemaMismatch = errors.New("load: source does not match schema")

// Config describes how to read a feature/label source pair. All of it is
// supplied up front; nothing is inferred from the data.
type Config struct {
	// MaxRows bounds ingestion: rows beyond the first MaxRows are not read
	// from either source. Zero reads everything.
	MaxRows int

	// IDColumn names the shared record identifier. It is used to verify the
	// two sources are aligned and is then dropped from the feature matrix.
	IDColumn string

	// LabelColumn names the target column in the label source.
	LabelColumn string

	// Categorical maps column names to their fixed vocabularies. Every
	// listed column must exist in the feature source.
	Categorical map[string]*dataprep.Vocabulary
}

// LoadPair reads two parallel CSV sources into one aligned Dataset.
// Both files carry a header row. The identifier column is checked row by
// row across the sources and dropped; categorical columns are encoded to
// vocabulary codes; every remaining cell must parse as a number.
func LoadPair(featuresPath, labelsPath string, cfg Config) (*Dataset, error) {
	featHeader, featRows, err := readTable(featuresPath, cfg.MaxRows)
	if err != nil {
		return nil, err
	}
	labelHeader, labelRows, err := readTable(labelsPath, cfg.MaxRows)
	if err != nil {
		return nil, err
	}
	if len(featRows) != len(labelRows) {
		return nil, fmt.Errorf("%w: %d feature rows vs %d label rows",
			ErrSchemaMismatch, len(featRows), len(labelRows))
	}

	featID := columnIndex(featHeader, cfg.IDColumn)
	if cfg.IDColumn != "" && featID < 0 {
		return nil, fmt.Errorf("%w: feature source missing id column %q",
			ErrSchemaMismatch, cfg.IDColumn)
	}
	labelID := columnIndex(labelHeader, cfg.IDColumn)
	labelIdx := columnIndex(labelHeader, cfg.LabelColumn)
	if labelIdx < 0 {
		return nil, fmt.Errorf("%w: label source missing column %q",
			ErrSchemaMismatch, cfg.LabelColumn)
	}

	// Feature columns keep header order, minus the identifier.
	var columns []Column
	var srcIdx []int
	for j, name := range featHeader {
		if j == featID {
			continue
		}
		col := Column{Name: name, Kind: KindNumeric}
		if vocab, ok := cfg.Categorical[name]; ok {
			col.Kind = KindCategorical
			col.Vocab = vocab
		}
		columns = append(columns, col)
		srcIdx = append(srcIdx, j)
	}
	for name := range cfg.Categorical {
		if columnIndex(featHeader, name) < 0 {
			return nil, fmt.Errorf("%w: feature source missing categorical column %q",
				ErrSchemaMismatch, name)
		}
	}

	n := len(featRows)
	ds := &Dataset{
		Columns: columns,
		X:       make([][]float64, n),
		Y:       make([]int, n),
	}

	// Categorical cells are collected column-wise and encoded in one shot
	// per column; numeric cells parse in place.
	catCols := make(map[int][]string)
	for j, col := range columns {
		if col.Kind == KindCategorical {
			catCols[j] = make([]string, n)
		}
	}

	for i := range featRows {
		if featID >= 0 && labelID >= 0 && featRows[i][featID] != labelRows[i][labelID] {
			return nil, fmt.Errorf("%w: row %d identifier %q does not match label identifier %q",
				ErrSchemaMismatch, i, featRows[i][featID], labelRows[i][labelID])
		}

		row := make([]float64, len(columns))
		for j, src := range srcIdx {
			cell := featRows[i][src]
			if vals, ok := catCols[j]; ok {
				vals[i] = cell
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %q: not numeric: %q",
					ErrSchemaMismatch, i, columns[j].Name, cell)
			}
			row[j] = v
		}
		ds.X[i] = row

		label, err := strconv.Atoi(labelRows[i][labelIdx])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d label %q: not an integer: %q",
				ErrSchemaMismatch, i, cfg.LabelColumn, labelRows[i][labelIdx])
		}
		ds.Y[i] = label
	}

	enc := dataprep.NewEncoder(cfg.Categorical)
	for j, vals := range catCols {
		codes, err := enc.EncodeColumn(columns[j].Name, vals)
		if err != nil {
			return nil, err
		}
		for i := range ds.X {
			ds.X[i][j] = codes[i]
		}
	}

	return ds, nil
}

// readTable reads the header plus at most maxRows records from a CSV file.
// The file handle is released on every exit path.
func readTable(path string, maxRows int) (header []string, rows [][]string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	header, err = reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: reading header: %v", ErrSchemaMismatch, path, err)
	}
	for maxRows <= 0 || len(rows) < maxRows {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: row %d: %v", ErrSchemaMismatch, path, len(rows), err)
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}

func columnIndex(header []string, name string) int {
	if name == "" {
		return -1
	}
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}
