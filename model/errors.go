package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures a view can recover from by showing an error panel.
type ErrorKind string

const (
	KindResourceNotFound ErrorKind = "resource_not_found"
	KindSchemaMismatch   ErrorKind = "schema_mismatch"
	KindEmptyDataset     ErrorKind = "empty_dataset"
	KindDivisionByZero   ErrorKind = "division_by_zero"
)

// Sentinels usable with errors.Is against any *DataError of the same kind.
var (
	ErrResourceNotFound = &DataError{Kind: KindResourceNotFound}
	ErrSchemaMismatch   = &DataError{Kind: KindSchemaMismatch}
	ErrEmptyDataset     = &DataError{Kind: KindEmptyDataset}
	ErrDivisionByZero   = &DataError{Kind: KindDivisionByZero}
)

// DataError identifies the resource and the expectation that failed.
type DataError struct {
	Kind        ErrorKind
	Resource    string
	Expectation string
	Err         error
}

func (e *DataError) Error() string {
	msg := fmt.Sprintf("%s: resource %q", e.Kind, e.Resource)
	if e.Expectation != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Expectation)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// Is matches on kind only, so a sentinel matches any resource.
func (e *DataError) Is(target error) bool {
	t, ok := target.(*DataError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func NewResourceNotFoundError(resource string, err error) *DataError {
	return &DataError{Kind: KindResourceNotFound, Resource: resource, Expectation: "dataset must exist", Err: err}
}

func NewSchemaMismatchError(resource, expectation string) *DataError {
	return &DataError{Kind: KindSchemaMismatch, Resource: resource, Expectation: expectation}
}

func NewEmptyDatasetError(resource, expectation string) *DataError {
	return &DataError{Kind: KindEmptyDataset, Resource: resource, Expectation: expectation}
}

func NewDivisionByZeroError(resource, expectation string) *DataError {
	return &DataError{Kind: KindDivisionByZero, Resource: resource, Expectation: expectation}
}

// AsDataError returns the first *DataError in err's chain.
func AsDataError(err error) (*DataError, bool) {
	var dataErr *DataError
	if errors.As(err, &dataErr) {
		return dataErr, true
	}
	return nil, false
}
