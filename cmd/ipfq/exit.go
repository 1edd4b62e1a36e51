package main

import "errors"

// Process exit codes.
const (
	ExitSuccess    = 0
	ExitInputError = 1 // bad flags, filter or configuration
	ExitAPIError   = 2 // the IP Fabric API call failed
)

// apiError marks a failure talking to the API.
type apiError struct {
	err error
}

func (e *apiError) Error() string { return e.err.Error() }
func (e *apiError) Unwrap() error { return e.err }

// apiFailure wraps err so that it maps to ExitAPIError.
func apiFailure(err error) error {
	if err == nil {
		return nil
	}
	return &apiError{err: err}
}

// exitCode maps a command error to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ae *apiError
	if errors.As(err, &ae) {
		return ExitAPIError
	}
	return ExitInputError
}
