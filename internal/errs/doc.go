// Package errs provides the sentinel errors shared across the generator.
//
// Errors are wrapped with fmt.Errorf and %w so callers can classify them with
// errors.Is regardless of how much context was added on the way up.
package errs
