// Package encode turns categorical columns into numeric ones so the
// regression design matrix can be assembled.
package encode

import (
	"fmt"
	"sort"

	"goassume/internal/dataset"
	"goassume/internal/logger"
)

// Method selects the categorical encoding strategy.
type Method string

const (
	// MethodNone leaves categorical columns untouched; the caller must
	// have encoded them already.
	MethodNone Method = ""
	// MethodOneHot expands each categorical column into drop-first
	// indicator columns.
	MethodOneHot Method = "ohe"
	// MethodOrdinal replaces each categorical column with integer codes
	// assigned in sorted label order.
	MethodOrdinal Method = "ord"
)

// ParseMethod validates a user-supplied encoder name.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodNone, MethodOneHot, MethodOrdinal:
		return Method(s), nil
	default:
		return MethodNone, fmt.Errorf("unknown categorical encoder %q (choose %q or %q)", s, MethodOneHot, MethodOrdinal)
	}
}

// Detect returns the categorical columns of f excluding the target,
// in frame order.
func Detect(f *dataset.Frame, target string) []string {
	var names []string
	for _, c := range f.Columns() {
		if c.Name == target {
			continue
		}
		if c.Kind == dataset.KindCategorical {
			names = append(names, c.Name)
		}
	}
	return names
}

// Resolve reconciles the user-supplied categorical list with the
// auto-detected one. A user list that misses a detected categorical
// column is an error: the column would otherwise reach the model
// unencoded.
func Resolve(f *dataset.Frame, target string, userList []string) ([]string, error) {
	detected := Detect(f, target)
	if userList == nil {
		logger.Infof("categorical features automatically identified: %v", detected)
		return detected, nil
	}
	listed := make(map[string]bool, len(userList))
	for _, name := range userList {
		if !f.Has(name) {
			return nil, fmt.Errorf("categorical feature %q not found in dataset", name)
		}
		listed[name] = true
	}
	var missing []string
	for _, name := range detected {
		if !listed[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("these categorical features have not been encoded: %v", missing)
	}
	logger.Infof("categorical features specified by user: %v", userList)
	return userList, nil
}

// Apply encodes the named categorical columns of f with the given
// method and returns a new frame; f is never mutated. With MethodNone
// and a non-empty list the caller gets an error, matching the contract
// that the model only ever sees numeric columns.
func Apply(f *dataset.Frame, features []string, method Method) (*dataset.Frame, error) {
	if len(features) == 0 {
		logger.Infof("no non-encoded categorical features identified, proceeding")
		return f.Clone(), nil
	}
	switch method {
	case MethodOneHot:
		return oneHot(f, features)
	case MethodOrdinal:
		return ordinal(f, features)
	case MethodNone:
		return nil, fmt.Errorf("categorical features %v need encoding: set a categorical encoder or encode them manually", features)
	default:
		return nil, fmt.Errorf("unknown categorical encoder %q", method)
	}
}

// oneHot expands each listed column into len(levels)-1 indicator
// columns named column_level, dropping the first sorted level to avoid
// the dummy-variable trap. Dummies replace the source column in place
// to keep column order deterministic.
func oneHot(f *dataset.Frame, features []string) (*dataset.Frame, error) {
	encode := make(map[string]bool, len(features))
	for _, name := range features {
		encode[name] = true
	}
	cols := make([]dataset.Column, 0, f.NumCols())
	for _, c := range f.Columns() {
		if !encode[c.Name] {
			cols = append(cols, c)
			continue
		}
		if c.Kind != dataset.KindCategorical {
			return nil, fmt.Errorf("column %q is %s, cannot one-hot encode", c.Name, c.Kind)
		}
		levels := append([]string(nil), c.Levels()...)
		sort.Strings(levels)
		if len(levels) < 2 {
			return nil, fmt.Errorf("column %q has %d level(s), nothing to encode", c.Name, len(levels))
		}
		for _, level := range levels[1:] {
			dummy := dataset.Column{
				Name:   c.Name + "_" + level,
				Kind:   dataset.KindNumeric,
				Floats: make([]float64, len(c.Labels)),
			}
			for i, label := range c.Labels {
				if label == level {
					dummy.Floats[i] = 1
				}
			}
			cols = append(cols, dummy)
		}
	}
	out, err := dataset.New(cols...)
	if err != nil {
		return nil, err
	}
	logger.Infof("completed one-hot encoding of categorical features: %v", features)
	return out, nil
}

// ordinal replaces each listed column with integer codes in sorted
// label order.
func ordinal(f *dataset.Frame, features []string) (*dataset.Frame, error) {
	encode := make(map[string]bool, len(features))
	for _, name := range features {
		encode[name] = true
	}
	cols := make([]dataset.Column, 0, f.NumCols())
	for _, c := range f.Columns() {
		if !encode[c.Name] {
			cols = append(cols, c)
			continue
		}
		if c.Kind != dataset.KindCategorical {
			return nil, fmt.Errorf("column %q is %s, cannot ordinal encode", c.Name, c.Kind)
		}
		levels := append([]string(nil), c.Levels()...)
		sort.Strings(levels)
		code := make(map[string]float64, len(levels))
		for i, level := range levels {
			code[level] = float64(i)
		}
		enc := dataset.Column{Name: c.Name, Kind: dataset.KindNumeric, Floats: make([]float64, len(c.Labels))}
		for i, label := range c.Labels {
			enc.Floats[i] = code[label]
		}
		cols = append(cols, enc)
	}
	out, err := dataset.New(cols...)
	if err != nil {
		return nil, err
	}
	logger.Infof("completed ordinal encoding of categorical features: %v", features)
	return out, nil
}
