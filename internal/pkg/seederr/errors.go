package seederr

import (
	"fmt"
)

const (
	CodeSchema            = "SCHEMA_ERROR"
	CodeDuplicateSlug     = "DUPLICATE_SLUG"
	CodeDanglingReference = "DANGLING_REFERENCE"
	CodeStore             = "STORE_ERROR"
	CodeNotFound          = "NOT_FOUND"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

var (
	// ErrSchema is reported when a record is missing a required field or has a field of the wrong type.
	ErrSchema = New(SeverityError, CodeSchema, "record does not satisfy the easter egg schema")

	// ErrDuplicateSlug is reported when two records share (gameShortName, mapSlug, slug).
	ErrDuplicateSlug = New(SeverityError, CodeDuplicateSlug, "another record already uses this (gameShortName, mapSlug, slug)")

	// ErrDanglingReference is reported when a buildableReferenceSlug does not resolve to a buildable of the same map.
	ErrDanglingReference = New(SeverityWarning, CodeDanglingReference, "buildable reference does not resolve")

	// ErrStore is reported when the backing store fails to persist a record.
	ErrStore = New(SeverityError, CodeStore, "failed to persist record")

	// ErrNotFound is returned when a stored record is not found.
	ErrNotFound = New(SeverityError, CodeNotFound, "record not found with given parameters")
)

type Extras map[string]interface{}

type SeedError struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Extras   *Extras  `json:"extras,omitempty"`
}

func New(severity Severity, code string, message string) *SeedError {
	return &SeedError{
		Severity: severity,
		Code:     code,
		Message:  message,
	}
}

func (e SeedError) Msg(format string, parts ...interface{}) *SeedError {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e SeedError) WithExtras(extras Extras) *SeedError {
	e.Extras = &extras
	return &e
}

func (e *SeedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on the error code, so copies made with Msg or WithExtras still
// match their sentinel.
func (e *SeedError) Is(target error) bool {
	t, ok := target.(*SeedError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *SeedError) IsWarning() bool {
	return e.Severity == SeverityWarning
}
