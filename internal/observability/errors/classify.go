// Package errors derives low-cardinality metric tags from errors.
package errors

import (
	goerrors "errors"
	"reflect"
	"strings"

	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
)

// Classify returns a normalized error class for tagging metrics and logs.
// Application errors are tagged by code; anything else by the innermost
// concrete type name in snake_case.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if code := apperrors.GetCode(err); code != "" {
		return "app_" + string(code)
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	name := strings.ReplaceAll(strings.ToLower(t.String()), ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}
