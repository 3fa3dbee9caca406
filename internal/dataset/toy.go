package dataset

import (
	_ "embed"
	"strings"
)

//go:embed toy_cars.csv
var toyCarsCSV string

// Toy returns the bundled demo dataset: fuel economy of 40 cars with a
// numeric target (mpg), four numeric predictors and two categorical ones.
func Toy() *Frame {
	f, err := ReadCSV(strings.NewReader(toyCarsCSV), ReadOptions{})
	if err != nil {
		// The file is embedded at build time; a parse failure is a
		// packaging bug, not a runtime condition.
		panic("dataset: embedded toy dataset is invalid: " + err.Error())
	}
	return f
}
