package core

// # Error Codes Reference
//
// This file maps run failures to user-friendly messages with codes for
// support reference. Errors are matched first by kind (errors.Is against the
// Err* kinds), then by case-insensitive substring of the error text.
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Input not found: The input file does not exist
//	         Action: Check the input path
//	         Kind: ErrSourceNotFound
//
//	SRC002 - Unreadable input: The input is not a valid delimited file
//	         Action: Ensure the file has a header row and consistent columns
//	         Kind: ErrSourceParse
//
//	SRC003 - File too large: The input exceeds the configured size limit
//	         Action: Raise SOURCE_MAX_FILE_SIZE or split the file
//	         Patterns: "file too large"
//
// # Cleaning Errors (CLN001-CLN099)
//
//	CLN001 - Type conflict: A numeric column holds text that is not a number
//	         Action: Fix the value or declare the column categorical
//	         Kind: ErrColumnTypeConflict
//
//	CLN002 - Nothing to impute from: A column has no values at all
//	         Action: Drop the empty column or supply at least one value
//	         Kind: ErrImputationUndefined
//
// # Sink Errors (SNK001-SNK099)
//
//	SNK001 - Disk full: No space left on the output device
//	         Patterns: "no space left"
//
//	SNK002 - Permission denied: The output location is not writable
//	         Patterns: "permission denied"
//
//	SNK003 - Connection refused: Unable to connect to database
//	         Patterns: "connection refused"
//
//	SNK004 - Write failed: The output could not be written
//	         Kind: ErrSinkWrite
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the logs for the technical error.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern matches by substring of the lowercased error text.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorKind matches by errors.Is.
type errorKind struct {
	kind error
	msg  UserMessage
}

// errorPatterns are tried before kinds: they are more specific than the kind
// they usually arrive wrapped in (a full disk is still ErrSinkWrite).
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "Input file exceeds the configured size limit",
			Action:  "Raise SOURCE_MAX_FILE_SIZE or split the file",
			Code:    "SRC003",
		},
	},
	{
		pattern: "no space left",
		msg: UserMessage{
			Message: "No space left on the output device",
			Action:  "Free disk space and run again",
			Code:    "SNK001",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "Permission denied",
			Action:  "Check file permissions on the input and output paths",
			Code:    "SNK002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Check DATABASE_URL and that the server is running",
			Code:    "SNK003",
		},
	},
}

var errorKinds = []errorKind{
	{
		kind: ErrSourceNotFound,
		msg: UserMessage{
			Message: "Input file not found",
			Action:  "Check the input path",
			Code:    "SRC001",
		},
	},
	{
		kind: ErrSourceParse,
		msg: UserMessage{
			Message: "Input is not a valid delimited file",
			Action:  "Ensure the file has a header row and a consistent number of columns",
			Code:    "SRC002",
		},
	},
	{
		kind: ErrColumnTypeConflict,
		msg: UserMessage{
			Message: "A numeric column contains a value that is not a number",
			Action:  "Fix the value or declare the column categorical in SOURCE_COLUMN_KINDS",
			Code:    "CLN001",
		},
	},
	{
		kind: ErrImputationUndefined,
		msg: UserMessage{
			Message: "A column has no values to impute missing cells from",
			Action:  "Remove the empty column or supply at least one value",
			Code:    "CLN002",
		},
	},
	{
		kind: ErrSinkWrite,
		msg: UserMessage{
			Message: "Output could not be written",
			Action:  "Check the output path and try again",
			Code:    "SNK004",
		},
	},
}

// defaultMessage is returned when no pattern or kind matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for details",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	for _, ek := range errorKinds {
		if errors.Is(err, ek.kind) {
			return ek.msg
		}
	}

	return defaultMessage
}

// FormatUserError returns a single line suitable for the terminal.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
