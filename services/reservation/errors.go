package reservation

import "errors"

// ErrSlotUnavailable is the pre-check failure: the requested slot conflicts
// at the instant of reservation. Recoverable by picking another slot. A
// residual race window remains here; the authoritative guard is the job
// store's uniqueness constraint at confirmation time.
var ErrSlotUnavailable = errors.New("slot is not available")

// ErrNotFound covers unknown, expired and already-confirmed tokens on the
// validate path.
var ErrNotFound = errors.New("reservation not found or no longer valid")
