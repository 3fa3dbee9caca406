package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ReadOptions controls CSV parsing and type inference.
type ReadOptions struct {
	// SampleSize caps the number of rows inspected for type inference.
	// Zero means all rows.
	SampleSize int
	// ForceCategorical lists columns to treat as categorical even when
	// every sampled cell parses as a number (e.g. integer codes).
	ForceCategorical []string
}

// ReadCSV parses CSV data into a Frame. The first record is the header.
// A column is numeric when every non-empty cell parses as a float within
// the inference sample; otherwise it is categorical. Missing numeric
// cells become NaN, missing categorical cells become the empty label.
func ReadCSV(r io.Reader, opts ReadOptions) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header failed: %w", err)
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("CSV has no columns")
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
		if headers[i] == "" {
			return nil, fmt.Errorf("CSV header %d is empty", i)
		}
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row failed: %w", err)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV has no data rows")
	}

	forced := make(map[string]bool, len(opts.ForceCategorical))
	for _, name := range opts.ForceCategorical {
		forced[name] = true
	}

	sample := len(rows)
	if opts.SampleSize > 0 && opts.SampleSize < sample {
		sample = opts.SampleSize
	}

	cols := make([]Column, len(headers))
	for j, name := range headers {
		numeric := !forced[name]
		if numeric {
			numeric = columnLooksNumeric(rows, j, sample)
		}
		if numeric {
			cols[j] = Column{Name: name, Kind: KindNumeric, Floats: make([]float64, len(rows))}
		} else {
			cols[j] = Column{Name: name, Kind: KindCategorical, Labels: make([]string, len(rows))}
		}
	}

	for i, row := range rows {
		for j := range cols {
			cell := ""
			if j < len(row) {
				cell = strings.TrimSpace(row[j])
			}
			if cols[j].Kind == KindNumeric {
				if cell == "" {
					cols[j].Floats[i] = math.NaN()
					continue
				}
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					// Past the inference sample a stray label can still
					// show up; record it as missing rather than failing
					// the whole load.
					v = math.NaN()
				}
				cols[j].Floats[i] = v
			} else {
				cols[j].Labels[i] = cell
			}
		}
	}

	return New(cols...)
}

func columnLooksNumeric(rows [][]string, col, sample int) bool {
	seen := false
	for i := 0; i < sample; i++ {
		if col >= len(rows[i]) {
			continue
		}
		cell := strings.TrimSpace(rows[i][col])
		if cell == "" {
			continue
		}
		seen = true
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return false
		}
	}
	return seen
}
