package safe

import (
	"fmt"
)

func ValidateMatForOperation(mat *Mat, operation string) error {
	if mat == nil {
		return fmt.Errorf("Mat is nil for operation %s: %w", operation, ErrInvalidMat)
	}

	if !mat.IsValid() {
		return fmt.Errorf("Mat is closed for operation %s: %w", operation, ErrInvalidMat)
	}

	if mat.Empty() {
		return fmt.Errorf("Mat is empty for operation %s: %w", operation, ErrInvalidMat)
	}

	return nil
}

// ValidateChannels checks that mat has one of the allowed channel counts.
func ValidateChannels(mat *Mat, operation string, allowed ...int) error {
	if err := ValidateMatForOperation(mat, operation); err != nil {
		return err
	}

	channels := mat.Channels()
	for _, c := range allowed {
		if channels == c {
			return nil
		}
	}
	return fmt.Errorf("%s requires %v channels, got %d", operation, allowed, channels)
}

func ValidateCoordinates(row, col, rows, cols int, operation string) error {
	if row < 0 || row >= rows {
		return fmt.Errorf("row %d out of bounds [0, %d) for operation: %s", row, rows, operation)
	}

	if col < 0 || col >= cols {
		return fmt.Errorf("col %d out of bounds [0, %d) for operation: %s", col, cols, operation)
	}

	return nil
}

func ValidateChannel(channel, channels int, operation string) error {
	if channel < 0 || channel >= channels {
		return fmt.Errorf("channel %d out of bounds [0, %d) for operation: %s", channel, channels, operation)
	}

	return nil
}
