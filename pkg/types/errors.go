package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Load and dispatch errors. Only ErrConfiguration aborts a load call; the
// others are contained to one file or one item.
var (
	ErrConfiguration  = errors.New("configuration error")
	ErrParse          = errors.New("parse error")
	ErrMissingUnitRow = errors.New("row 1 does not start with a Units marker")
	ErrClassification = errors.New("no process-type tag")
	ErrUnknownModel   = errors.New("unknown identifier")
	ErrDuplicate      = errors.New("duplicate identifier")
	ErrValidation     = errors.New("parameter validation failed")
)

// Lookup errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrTableLayout  = errors.New("unexpected table layout")
	ErrOutOfRange   = errors.New("value outside table range")
	ErrTypeMismatch = errors.New("type mismatch")
)

// ParseError reports a malformed record or table file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is matches ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ClassificationError reports a record without a process-type tag.
type ClassificationError struct {
	Identifier string
	Kind       Kind
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classify %s: no tag of the form \"<word> corrosion %s\"", e.Identifier, e.Kind)
}

// Is matches ErrClassification.
func (e *ClassificationError) Is(target error) bool { return target == ErrClassification }

// UnknownModelError reports an identifier missing from a registry.
type UnknownModelError struct {
	Identifier string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownModel, e.Identifier)
}

// Is matches ErrUnknownModel.
func (e *UnknownModelError) Is(target error) bool { return target == ErrUnknownModel }

// ParameterError describes one rejected parameter value.
type ParameterError struct {
	Key     string
	Value   any
	Message string
}

func (e ParameterError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Key, e.Message)
	}
	return fmt.Sprintf("%s=%v: %s", e.Key, e.Value, e.Message)
}

// ValidationError collects every rejected parameter of one ParameterSet.
type ValidationError struct {
	Errors []ParameterError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, pe := range e.Errors {
		msgs[i] = pe.Error()
	}
	sort.Strings(msgs)
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(msgs, "; "))
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Keys returns the rejected parameter keys in schema order.
func (e *ValidationError) Keys() []string {
	keys := make([]string, len(e.Errors))
	for i, pe := range e.Errors {
		keys[i] = pe.Key
	}
	return keys
}
