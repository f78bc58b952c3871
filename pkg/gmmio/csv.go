// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

// Package gmmio loads feature matrices from CSV files: the "numeric
// substrate" ingestion path the estimator treats as an external
// collaborator. Values matching a configurable set of null tokens are
// mapped to gmm.Missing rather than a bare NaN print-out, so a caller
// that enables the missing-data variant gets a usable sentinel for
// free.
package gmmio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bitjungle/gogmm/pkg/gmm"
)

// Options configures CSV reading.
type Options struct {
	Delimiter  rune
	HasHeader  bool
	SkipRows   int
	NullValues []string // tokens mapped to gmm.Missing
}

// DefaultOptions returns the default CSV reading options.
func DefaultOptions() Options {
	return Options{
		Delimiter:  ',',
		HasHeader:  true,
		SkipRows:   0,
		NullValues: DefaultMissingValues(),
	}
}

// LoadMatrix reads filename into a feature matrix, returning the column
// headers if a header row was present. Every column is read as a
// feature: there is no row-label column, and a field that is neither a
// number nor a null token is an error.
func LoadMatrix(filename string, options Options) (gmm.Matrix, []string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ReadMatrix(file, options)
}

// ReadMatrix reads CSV data from r into a feature matrix.
func ReadMatrix(r io.Reader, options Options) (gmm.Matrix, []string, error) {
	reader := csv.NewReader(r)
	reader.Comma = options.Delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	nullMap := make(map[string]bool, len(options.NullValues))
	for _, nv := range options.NullValues {
		nullMap[nv] = true
	}

	var headers []string
	var data gmm.Matrix
	skip := options.SkipRows

	for rowIdx := 0; ; rowIdx++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("error reading CSV at row %d: %w", rowIdx+1, err)
		}

		if skip > 0 {
			skip--
			continue
		}

		if options.HasHeader && headers == nil {
			headers = append([]string(nil), record...)
			continue
		}

		row, err := parseRow(record, nullMap)
		if err != nil {
			return nil, nil, fmt.Errorf("error parsing row %d: %w", rowIdx+1, err)
		}
		data = append(data, row)
	}

	if len(data) == 0 {
		return nil, nil, fmt.Errorf("no data rows found")
	}

	cols := len(data[0])
	for i, row := range data {
		if len(row) != cols {
			return nil, nil, fmt.Errorf("inconsistent columns at row %d: expected %d, got %d", i+1, cols, len(row))
		}
	}

	return data, headers, nil
}

func parseRow(record []string, nullMap map[string]bool) ([]float64, error) {
	row := make([]float64, len(record))
	for i, field := range record {
		val := strings.TrimSpace(field)
		if nullMap[val] {
			row[i] = gmm.Missing
			continue
		}
		f, _, err := ParseNumericValueWithMissing(val, '.', nil)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as float in column %d: %w", val, i, err)
		}
		row[i] = f
	}
	return row, nil
}
