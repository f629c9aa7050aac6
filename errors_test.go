package veil

import (
	"errors"
	"strings"
	"testing"
)

func TestFieldError_Error(t *testing.T) {
	tests := []struct {
		name  string
		err   *FieldError
		wants []string
	}{
		{
			name:  "with field",
			err:   &FieldError{Err: ErrInvalidTag, Field: "LastName"},
			wants: []string{"invalid tag", "LastName"},
		},
		{
			name:  "without field",
			err:   &FieldError{Err: ErrInvalidTag},
			wants: []string{"invalid tag"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.wants {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, want it to contain %q", msg, want)
				}
			}
		})
	}
}

func TestFieldError_Unwrap(t *testing.T) {
	err := newFieldError(ErrInvalidTag, "SSN")

	if !errors.Is(err, ErrInvalidTag) {
		t.Error("expected errors.Is to match ErrInvalidTag")
	}

	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatal("expected errors.As to match *FieldError")
	}
	if fieldErr.Field != "SSN" {
		t.Errorf("Field = %q, want SSN", fieldErr.Field)
	}
}
