package model

import "github.com/m-mizutani/goerr/v2"

// Validation errors
var (
	ErrMissingRequired  = goerr.New("required field is missing")
	ErrInvalidEnum      = goerr.New("invalid enum value")
	ErrOutOfRange       = goerr.New("value out of range")
	ErrInvalidReference = goerr.New("invalid reference")
)

// Context keys for error values
const (
	FieldNameKey  = "field"
	FieldValueKey = "value"
)
