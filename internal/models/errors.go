package models

import "fmt"

// InvalidRangeError reports a malformed range argument (wrong element
// count or unparseable endpoint). Raised before any storage access.
type InvalidRangeError struct {
	Field  string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsTransient returns false; the caller must fix the request
func (e *InvalidRangeError) IsTransient() bool {
	return false
}

// UnsupportedComparisonError reports an unknown comparison kind
type UnsupportedComparisonError struct {
	Kind string
}

func (e *UnsupportedComparisonError) Error() string {
	return fmt.Sprintf("unsupported comparison type: %q (expected regional, temporal, or parametric)", e.Kind)
}

func (e *UnsupportedComparisonError) IsTransient() bool {
	return false
}

// UnknownFunctionError reports a function name outside the fixed query shapes
type UnknownFunctionError struct {
	Function string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown query function: %q", e.Function)
}

func (e *UnknownFunctionError) IsTransient() bool {
	return false
}

// IsUsageError reports whether err is a caller mistake that should map
// to a 4xx response rather than an error-tagged record.
func IsUsageError(err error) bool {
	switch err.(type) {
	case *InvalidRangeError, *UnsupportedComparisonError, *UnknownFunctionError, *ValidationError:
		return true
	}
	return false
}
