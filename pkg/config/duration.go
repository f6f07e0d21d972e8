package config

import (
	"fmt"
	"time"
)

// ValidatePositiveDuration returns an error naming field when d is not > 0.
func ValidatePositiveDuration(field string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %v", field, d)
	}
	return nil
}
