package cache

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfiguration is returned by New and NewTiered when the
// configuration cannot produce a working cache (for example Capacity <= 0).
// No partial cache is returned alongside it.
var ErrInvalidConfiguration = errors.New("invalid cache configuration")

// maxCapacity bounds Capacity so slot handles fit in an int32.
const maxCapacity = math.MaxInt32

func validateCapacity(capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfiguration, capacity)
	}
	if capacity > maxCapacity {
		return fmt.Errorf("%w: capacity must be at most %d, got %d", ErrInvalidConfiguration, maxCapacity, capacity)
	}
	return nil
}
