package dataset

import "errors"

// ErrNotFound reports that a dataset does not exist at the fetched path.
// Callers treat it the same as any other fetch failure, but it lets tests and
// logs distinguish missing tiers from transport problems.
var ErrNotFound = errors.New("dataset: not found")
