package app

import (
	"errors"
	"io/fs"
	"testing"
)

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *OperationError
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "op only",
			err:      &OperationError{Op: "reload"},
			expected: "reload",
		},
		{
			name:     "op and target",
			err:      &OperationError{Op: "read", Target: "/path/doc.tex"},
			expected: "read /path/doc.tex",
		},
		{
			name:     "full error chain",
			err:      &OperationError{Op: "read", Target: "/path/doc.tex", Err: errors.New("io error")},
			expected: "read /path/doc.tex: io error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.Error()
			if result != tt.expected {
				t.Errorf("Error() = '%s', expected '%s'", result, tt.expected)
			}
		})
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	err := NewOperationError("read", "doc.tex", fs.ErrNotExist)

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected errors.Is to match wrapped error")
	}

	var nilErr *OperationError
	if nilErr.Unwrap() != nil {
		t.Error("expected nil from Unwrap() on nil receiver")
	}
}

func TestInitError(t *testing.T) {
	inner := errors.New("bad locale")
	err := error(&InitError{Component: "i18n", Err: inner})

	if err.Error() != "init i18n: bad locale" {
		t.Errorf("Error() = '%s'", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to match wrapped error")
	}
}

func TestErrorList(t *testing.T) {
	var list ErrorList
	if list.AsError() != nil {
		t.Error("expected nil AsError() for empty list")
	}
	if list.Error() != "" {
		t.Errorf("Error() = '%s' for empty list", list.Error())
	}

	list.Add(nil)
	list.Add(ErrClosed)
	if list.Len() != 1 {
		t.Fatalf("Len() = %d, expected 1", list.Len())
	}
	if list.Error() != ErrClosed.Error() {
		t.Errorf("Error() = '%s', expected '%s'", list.Error(), ErrClosed)
	}

	list.Add(fs.ErrNotExist)
	err := list.AsError()
	if err == nil {
		t.Fatal("expected non-nil AsError()")
	}
	if err.Error() != "2 errors: first: runtime closed" {
		t.Errorf("Error() = '%s'", err.Error())
	}
	if !errors.Is(err, fs.ErrNotExist) || !errors.Is(err, ErrClosed) {
		t.Error("expected errors.Is to match every collected error")
	}

	errs := list.Errors()
	errs[0] = nil
	if list.Errors()[0] == nil {
		t.Error("Errors() exposed the internal slice")
	}
}
