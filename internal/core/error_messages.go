package core

// error_messages.go maps technical errors to user-facing messages.
//
// # Error Codes Reference
//
// Source Errors (SRC001-SRC099)
//
//	SRC001 - Source unavailable: The carrier dataset could not be loaded
//	         Action: Please try again in a few moments
//	         Patterns: "source unavailable"
//
//	SRC002 - Invalid CSV: The carrier dataset is not a valid CSV file
//	         Action: Check the dataset file for unbalanced quotes
//	         Patterns: "invalid csv"
//
//	SRC003 - Missing columns: The dataset is missing required columns
//	         Action: Check that the header row matches the expected layout
//	         Patterns: "missing required column"
//
// Record Errors (REC001-REC099)
//
//	REC001 - Record not found: No carrier record has this id
//	         Action: Go back to the listing and pick a record
//	         Patterns: "record not found"
//
// Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid page size: Page size is not one of the allowed values
//	         Action: Choose 50, 100, 200, 500 or 1000 rows per page
//	         Patterns: "invalid page size"
//
//	REQ002 - Request cancelled
//	         Patterns: "context canceled"
//
//	REQ003 - Request timeout
//	         Patterns: "deadline exceeded", "timeout"
//
// Default Error (ERR000) is returned when nothing matches. Check the
// application logs for the original error.
//
// Wrapped sentinels are matched first with errors.Is and errors.As, in table
// order, so source errors that wrap a timeout still map to SRC001 and an id
// containing "timeout" stays REC001. Patterns are the fallback for foreign
// errors, matched case-insensitively with strings.Contains.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

type errorPattern struct {
	match   func(error) bool // typed check, tried before any pattern
	pattern string
	msg     UserMessage
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func isSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

var errorPatterns = []errorPattern{
	{
		match:   is(ErrSourceUnavailable),
		pattern: "source unavailable",
		msg: UserMessage{
			Message: "The carrier dataset could not be loaded",
			Action:  "Please try again in a few moments",
			Code:    "SRC001",
		},
	},
	{
		match:   is(ErrInvalidCSV),
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "The carrier dataset is not a valid CSV file",
			Action:  "Check the dataset file for unbalanced quotes",
			Code:    "SRC002",
		},
	},
	{
		match:   isSchemaError,
		pattern: "missing required column",
		msg: UserMessage{
			Message: "The carrier dataset is missing required columns",
			Action:  "Check that the header row matches the expected layout",
			Code:    "SRC003",
		},
	},
	{
		match:   is(ErrRecordNotFound),
		pattern: "record not found",
		msg: UserMessage{
			Message: "No carrier record has this id",
			Action:  "Go back to the listing and pick a record",
			Code:    "REC001",
		},
	},
	{
		pattern: "invalid page size",
		msg: UserMessage{
			Message: "Page size is not one of the allowed values",
			Action:  "Choose 50, 100, 200, 500 or 1000 rows per page",
			Code:    "REQ001",
		},
	},
	{
		match:   is(context.Canceled),
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		match:   is(context.DeadlineExceeded),
		pattern: "deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again later",
			Code:    "REQ003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again later",
			Code:    "REQ003",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// A nil error maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, ep := range errorPatterns {
		if ep.match != nil && ep.match(err) {
			return ep.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError formats err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
