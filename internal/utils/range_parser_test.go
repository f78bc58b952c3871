package utils

import (
	"reflect"
	"testing"
)

func TestCropFeatures(t *testing.T) {
	data := [][]float64{
		{1, 2, 3, 4, 5},
		{6, 7, 8, 9, 10},
	}

	got, err := CropFeatures(data, 1, 2)
	if err != nil {
		t.Fatalf("CropFeatures() error = %v", err)
	}
	want := [][]float64{{2, 3}, {7, 8}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CropFeatures() = %v, want %v", got, want)
	}

	if _, err := CropFeatures(data, 3, 3); err == nil {
		t.Error("CropFeatures() expected error when crop leaves no columns")
	}
}

func TestCropFeaturesEmptyData(t *testing.T) {
	got, err := CropFeatures(nil, 0, 0)
	if err != nil {
		t.Fatalf("CropFeatures() error = %v", err)
	}
	if got != nil {
		t.Errorf("CropFeatures() on empty data = %v, want nil", got)
	}
}

func TestCropFeaturesNegativeCount(t *testing.T) {
	data := [][]float64{{1, 2, 3}}
	if _, err := CropFeatures(data, -1, 0); err == nil {
		t.Error("CropFeatures() expected error for negative crop count")
	}
}

func TestCropFeaturesInconsistentRowLength(t *testing.T) {
	data := [][]float64{
		{1, 2, 3},
		{4, 5},
	}
	if _, err := CropFeatures(data, 1, 0); err == nil {
		t.Error("CropFeatures() expected error for inconsistent row length")
	}
}
