// Package results carries the success/failure split used by application services.
//
// A service operation returns (OperationResult, error). The error is reserved for
// infrastructure problems (the database went away, a transaction failed). Business
// rejections travel in Failure so callers can tell "your request was wrong" apart
// from "try again later".
package results

// OperationResult holds exactly one of Success or Failure.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// SuccessResult wraps a success payload.
func SuccessResult[S any, F any](s S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &s}
}

// FailureResult wraps a failure payload.
func FailureResult[S any, F any](f F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &f}
}

func (r OperationResult[S, F]) IsSuccess() bool {
	return r.Success != nil
}

func (r OperationResult[S, F]) IsFailure() bool {
	return r.Failure != nil
}
