package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "source unavailable",
			err:         fmt.Errorf("%w: GET /fmsca-records.csv: 404 Not Found", ErrSourceUnavailable),
			wantCode:    "SRC001",
			wantMessage: "The carrier dataset could not be loaded",
		},
		{
			name:        "source timeout still maps to source unavailable",
			err:         fmt.Errorf("%w: %w", ErrSourceUnavailable, context.DeadlineExceeded),
			wantCode:    "SRC001",
			wantMessage: "The carrier dataset could not be loaded",
		},
		{
			name:        "invalid csv",
			err:         fmt.Errorf("%w: bare \" in non-quoted field", ErrInvalidCSV),
			wantCode:    "SRC002",
			wantMessage: "The carrier dataset is not a valid CSV file",
		},
		{
			name:        "schema error",
			err:         &SchemaError{Missing: []string{"id"}},
			wantCode:    "SRC003",
			wantMessage: "The carrier dataset is missing required columns",
		},
		{
			name:        "record not found",
			err:         fmt.Errorf("%w: 42", ErrRecordNotFound),
			wantCode:    "REC001",
			wantMessage: "No carrier record has this id",
		},
		{
			name:        "invalid page size",
			err:         errors.New("invalid page size: \"25\""),
			wantCode:    "REQ001",
			wantMessage: "Page size is not one of the allowed values",
		},
		{
			name:        "cancelled",
			err:         context.Canceled,
			wantCode:    "REQ002",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "deadline",
			err:         context.DeadlineExceeded,
			wantCode:    "REQ003",
			wantMessage: "Request timed out",
		},
		{
			name:        "record id containing a pattern keeps its code",
			err:         fmt.Errorf("%w: timeout-invalid csv", ErrRecordNotFound),
			wantCode:    "REC001",
			wantMessage: "No carrier record has this id",
		},
		{
			name:        "source path containing a pattern keeps its code",
			err:         fmt.Errorf("%w: open /data/record not found.csv", ErrSourceUnavailable),
			wantCode:    "SRC001",
			wantMessage: "The carrier dataset could not be loaded",
		},
		{
			name:        "schema error naming a pattern column",
			err:         &SchemaError{Missing: []string{"timeout"}},
			wantCode:    "SRC003",
			wantMessage: "The carrier dataset is missing required columns",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("SOURCE UNAVAILABLE"),
			wantCode:    "SRC001",
			wantMessage: "The carrier dataset could not be loaded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(ErrRecordNotFound)
	want := "No carrier record has this id (Code: REC001). Go back to the listing and pick a record"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("nil should not be user facing")
	}
	if !IsUserFacing(ErrSourceUnavailable) {
		t.Error("source unavailable should be user facing")
	}
	if IsUserFacing(errors.New("segfault in the flux capacitor")) {
		t.Error("unknown errors should not be user facing")
	}
}

func TestCheckHeader(t *testing.T) {
	if err := CheckHeader([]string{"id", "legal_name"}, []string{"id"}); err != nil {
		t.Fatalf("CheckHeader() unexpected error: %v", err)
	}

	err := CheckHeader([]string{"legal_name"}, []string{"id", "legal_name", "phone"})
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("CheckHeader() error = %v, want *SchemaError", err)
	}
	if len(schemaErr.Missing) != 2 || schemaErr.Missing[0] != "id" || schemaErr.Missing[1] != "phone" {
		t.Errorf("Missing = %v, want [id phone]", schemaErr.Missing)
	}
}
