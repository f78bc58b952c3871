// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package gmmio

import (
	"reflect"
	"testing"
)

func TestDefaultMissingValues(t *testing.T) {
	defaults := DefaultMissingValues()
	expected := []string{"", "NA", "N/A", "nan", "NaN", "null", "NULL", "m"}

	if !reflect.DeepEqual(defaults, expected) {
		t.Errorf("DefaultMissingValues() = %v, want %v", defaults, expected)
	}
}

func TestIsMissingValue(t *testing.T) {
	defaultIndicators := DefaultMissingValues()

	tests := []struct {
		name       string
		value      string
		indicators []string
		want       bool
	}{
		// Empty string cases
		{"empty string", "", defaultIndicators, true},
		{"whitespace only", "   ", defaultIndicators, true},
		{"tabs and spaces", "\t  \n", defaultIndicators, true},

		// Standard missing values
		{"NA uppercase", "NA", defaultIndicators, true},
		{"na lowercase", "na", defaultIndicators, true},
		{"N/A", "N/A", defaultIndicators, true},
		{"n/a lowercase", "n/a", defaultIndicators, true},
		{"NaN", "NaN", defaultIndicators, true},
		{"nan lowercase", "nan", defaultIndicators, true},
		{"null", "null", defaultIndicators, true},
		{"NULL uppercase", "NULL", defaultIndicators, true},
		{"m", "m", defaultIndicators, true},
		{"M uppercase", "M", defaultIndicators, true},

		// With whitespace
		{"NA with leading space", " NA", defaultIndicators, true},
		{"NA with trailing space", "NA ", defaultIndicators, true},
		{"NA with surrounding spaces", "  NA  ", defaultIndicators, true},

		// Non-missing values
		{"regular number", "123", defaultIndicators, false},
		{"regular text", "hello", defaultIndicators, false},
		{"NA as part of word", "NATIONAL", defaultIndicators, false},
		{"contains NA", "BANANA", defaultIndicators, false},

		// Custom indicators
		{"custom indicator", "missing", []string{"missing", "absent"}, true},
		{"not in custom list", "NA", []string{"missing", "absent"}, false},
		{"case insensitive custom", "MISSING", []string{"missing"}, true},

		// Edge cases
		{"single space not in list", " ", []string{"NA"}, false},
		{"empty indicators list", "NA", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMissingValue(tt.value, tt.indicators); got != tt.want {
				t.Errorf("IsMissingValue(%q, %v) = %v, want %v",
					tt.value, tt.indicators, got, tt.want)
			}
		})
	}
}

func BenchmarkIsMissingValue(b *testing.B) {
	indicators := DefaultMissingValues()
	testValues := []string{"NA", "123", "", "hello", "null", "3.14"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, v := range testValues {
			_ = IsMissingValue(v, indicators)
		}
	}
}
