package utils

import (
	"fmt"
)

// CropFeatures drops left columns from the start and right columns from
// the end of every row, implementing the crop_num_feature_dimensions_left
// / crop_num_feature_dimensions_right options.
func CropFeatures(data [][]float64, left, right int) ([][]float64, error) {
	if len(data) == 0 {
		return data, nil
	}
	cols := len(data[0])
	if left < 0 || right < 0 {
		return nil, fmt.Errorf("crop counts must be non-negative, got left=%d right=%d", left, right)
	}
	if left+right >= cols {
		return nil, fmt.Errorf("crop counts left=%d right=%d leave no columns out of %d", left, right, cols)
	}

	cropped := make([][]float64, len(data))
	for i, row := range data {
		if len(row) != cols {
			return nil, fmt.Errorf("inconsistent row length at index %d: expected %d, got %d", i, cols, len(row))
		}
		kept := make([]float64, cols-left-right)
		copy(kept, row[left:cols-right])
		cropped[i] = kept
	}
	return cropped, nil
}
