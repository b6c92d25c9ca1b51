package submissionservice

import "errors"

// ErrPersistenceFailure marks a submission that failed after validation and was rolled
// back in full. The client may retry.
var ErrPersistenceFailure = errors.New("submission could not be stored")
