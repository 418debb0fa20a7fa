package dataprep

import (
	"errors"
	"fmt"
)

// ErrUnknownCategory is returned when a value is not part of a column's
// configured vocabulary. Vocabularies are supplied up front and never
// learned from data, so an unknown value means the configuration and the
// input disagree; the encoder fails rather than passing the value through.
var ErrUnknownCategory = errors.New("encode: value not in vocabulary")

// Vocabulary is the fixed, ordered set of recognized string values for one
// categorical column. A value's position in the list is its integer code.
type Vocabulary struct {
	values []string
	index  map[string]int
}

// NewVocabulary builds a vocabulary from an ordered list of values.
// Duplicate values would make codes ambiguous and are rejected.
func NewVocabulary(values ...string) (*Vocabulary, error) {
	v := &Vocabulary{
		values: make([]string, len(values)),
		index:  make(map[string]int, len(values)),
	}
	copy(v.values, values)
	for i, s := range values {
		if _, ok := v.index[s]; ok {
			return nil, fmt.Errorf("encode: duplicate vocabulary value %q", s)
		}
		v.index[s] = i
	}
	return v, nil
}

// MustVocabulary is NewVocabulary that panics on a bad value list.
// Intended for statically written vocabularies.
func MustVocabulary(values ...string) *Vocabulary {
	v, err := NewVocabulary(values...)
	if err != nil {
		panic(err)
	}
	return v
}

// Len returns the number of values in the vocabulary.
func (v *Vocabulary) Len() int { return len(v.values) }

// Code returns the integer code of value.
func (v *Vocabulary) Code(value string) (int, error) {
	i, ok := v.index[value]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, value)
	}
	return i, nil
}

// Value is the inverse of Code: it returns the string at position code.
func (v *Vocabulary) Value(code int) (string, error) {
	if code < 0 || code >= len(v.values) {
		return "", fmt.Errorf("encode: code %d out of range [0,%d)", code, len(v.values))
	}
	return v.values[code], nil
}

// Values returns a copy of the ordered value list.
func (v *Vocabulary) Values() []string {
	out := make([]string, len(v.values))
	copy(out, v.values)
	return out
}
