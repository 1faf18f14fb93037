// Package classifier implements the multinomial probabilistic classifier
// and the label encoding it depends on.
package classifier

import (
	"fmt"
	"sort"
)

// LabelEncoder is a bijection between category label strings and dense
// integer indices 0..K-1. The index space is fixed at fit time: Classes is
// the ordered list of labels and a label's index is its position. Labels
// are indexed in sorted order so the mapping is reproducible across runs
// over the same training set.
type LabelEncoder struct {
	Classes []string
}

// FitLabels builds an encoder over the distinct labels present in the
// training set.
func FitLabels(labels []string) (*LabelEncoder, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("cannot fit label encoder on empty label set")
	}

	seen := make(map[string]bool)
	var classes []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			classes = append(classes, l)
		}
	}
	sort.Strings(classes)

	return &LabelEncoder{Classes: classes}, nil
}

// Len returns the number of classes.
func (e *LabelEncoder) Len() int {
	return len(e.Classes)
}

// Encode returns the index for a label. Labels unseen at fit time have no
// index.
func (e *LabelEncoder) Encode(label string) (int, error) {
	for i, c := range e.Classes {
		if c == label {
			return i, nil
		}
	}
	return 0, fmt.Errorf("label %q not in encoder domain", label)
}

// Decode returns the label for an index.
func (e *LabelEncoder) Decode(idx int) (string, error) {
	if idx < 0 || idx >= len(e.Classes) {
		return "", fmt.Errorf("label index %d out of range [0,%d)", idx, len(e.Classes))
	}
	return e.Classes[idx], nil
}
