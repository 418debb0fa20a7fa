package dataprep

import "fmt"

// Encoder maps categorical columns to numeric codes using fixed, supplied
// vocabularies. It holds no learned state: construct it once from
// configuration and reuse it for every column.
type Encoder struct {
	vocabs map[string]*Vocabulary
}

// NewEncoder builds an encoder from a column-name → vocabulary map.
func NewEncoder(vocabs map[string]*Vocabulary) *Encoder {
	return &Encoder{vocabs: vocabs}
}

// Vocabulary returns the vocabulary configured for column, or nil if the
// column is not categorical.
func (e *Encoder) Vocabulary(column string) *Vocabulary {
	return e.vocabs[column]
}

// Columns returns the names of all configured categorical columns.
func (e *Encoder) Columns() []string {
	out := make([]string, 0, len(e.vocabs))
	for name := range e.vocabs {
		out = append(out, name)
	}
	return out
}

// EncodeColumn label-encodes a column of string values: each output element
// is the vocabulary position of the corresponding input. Fails with
// ErrUnknownCategory when a value is absent from the column's vocabulary.
func (e *Encoder) EncodeColumn(column string, values []string) ([]float64, error) {
	vocab, ok := e.vocabs[column]
	if !ok {
		return nil, fmt.Errorf("encode: column %q has no vocabulary", column)
	}
	out := make([]float64, len(values))
	for i, s := range values {
		code, err := vocab.Code(s)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", column, i, err)
		}
		out[i] = float64(code)
	}
	return out, nil
}

// OneHotColumn expands a column of string values into vocabulary-width
// indicator vectors. Column order matches vocabulary order, so the encoding
// is stable across datasets sharing a configuration.
func (e *Encoder) OneHotColumn(column string, values []string) ([][]float64, error) {
	vocab, ok := e.vocabs[column]
	if !ok {
		return nil, fmt.Errorf("encode: column %q has no vocabulary", column)
	}
	out := make([][]float64, len(values))
	for i, s := range values {
		code, err := vocab.Code(s)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", column, i, err)
		}
		vec := make([]float64, vocab.Len())
		vec[code] = 1
		out[i] = vec
	}
	return out, nil
}
