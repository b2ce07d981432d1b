// Package errors defines the error kinds shared by the pipeline stages and
// the prediction service. Each kind carries enough structure for callers to
// match with errors.As and decide how to report the failure.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// DataAccessError indicates that a raw data source could not be read:
// missing file, unreadable encoding, or inconsistent column counts.
type DataAccessError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DataAccessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot read data source %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot read data source %s: %s", e.Path, e.Reason)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

func NewDataAccessError(path, reason string, err error) error {
	return errors.WithStack(&DataAccessError{Path: path, Reason: reason, Err: err})
}

// ValidationError indicates a schema mismatch, most commonly a column that
// the preprocessing configuration requires but the table does not have.
type ValidationError struct {
	Column string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("validation failed for column %q: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

func NewValidationError(column, reason string) error {
	return errors.WithStack(&ValidationError{Column: column, Reason: reason})
}

// FitError indicates that model training failed. Fit failures are fatal and
// never retried.
type FitError struct {
	Op   string
	Kind string
	Err  error
}

func (e *FitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *FitError) Unwrap() error { return e.Err }

func NewFitError(op, kind string, err error) error {
	return errors.WithStack(&FitError{Op: op, Kind: kind, Err: err})
}

// InvalidInputError indicates a malformed prediction request, for example a
// record that is missing a required field. The prediction service maps this
// to a client-facing error response.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid input field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func NewInvalidInputError(field, reason string) error {
	return errors.WithStack(&InvalidInputError{Field: field, Reason: reason})
}

// NotFittedError indicates Predict or Transform was called before Fit.
type NotFittedError struct {
	What   string
	Method string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s is not fitted yet, call Fit before %s", e.What, e.Method)
}

func NewNotFittedError(what, method string) error {
	return errors.WithStack(&NotFittedError{What: what, Method: method})
}

// Wrappers so callers do not need to import cockroachdb/errors alongside
// this package.

func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target interface{}) bool { return errors.As(err, target) }

func New(message string) error { return errors.New(message) }

func Newf(format string, args ...interface{}) error { return errors.Newf(format, args...) }

func Wrap(err error, message string) error { return errors.Wrap(err, message) }

func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}
