package core

// error_messages.go maps technical errors to messages shown in the dashboard.
//
// # Error Codes Reference
//
// Load Errors (LOAD001-LOAD099):
//
//	LOAD001 - Source not found: the observation file does not exist
//	LOAD002 - Source unreachable: the observation URL could not be fetched
//	LOAD003 - Empty file: the file has no header row
//	LOAD004 - Missing columns: none of the expected headers were found
//	LOAD005 - Invalid CSV: the file could not be parsed
//	LOAD006 - File too large: the file exceeds DATA_MAX_FILE_SIZE
//
// Request Errors (REQ001-REQ099):
//
//	REQ001 - Not ready: the dataset is still loading
//	REQ002 - Unknown chart: the requested chart does not exist
//	REQ003 - Request cancelled or timed out
//
// Auth Errors (AUTH001-AUTH002):
//
//	AUTH001 - Missing API key
//	AUTH002 - Invalid API key
//
// Rate Limiting (RATE001-RATE002):
//
//	RATE001 - Too many requests
//	RATE002 - Too many concurrent chart renders or exports
//
// Default (ERR000): no pattern matched; check the server log.
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "Failed to load data: the observation file was not found",
			Action:  "Check DATA_PATH points at the observation CSV",
			Code:    "LOAD001",
		},
	},
	{
		pattern: "file does not exist",
		msg: UserMessage{
			Message: "Failed to load data: the observation file was not found",
			Action:  "Check DATA_PATH points at the observation CSV",
			Code:    "LOAD001",
		},
	},
	{
		pattern: "source unreachable",
		msg: UserMessage{
			Message: "Failed to load data: the observation file could not be fetched",
			Action:  "Check the data URL is reachable from the server",
			Code:    "LOAD002",
		},
	},
	{
		pattern: ": fetch:",
		msg: UserMessage{
			Message: "Failed to load data: the observation file could not be fetched",
			Action:  "Check the data URL is reachable from the server",
			Code:    "LOAD002",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "Failed to load data: the file is empty",
			Action:  "Provide a CSV file with a header row",
			Code:    "LOAD003",
		},
	},
	{
		pattern: "missing required column",
		msg: UserMessage{
			Message: "Failed to load data: no known columns in the header",
			Action:  "Use the header: " + strings.Join(HeaderLabels(), ", "),
			Code:    "LOAD004",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "Failed to load data: the file is too large",
			Action:  "Raise DATA_MAX_FILE_SIZE or trim the file",
			Code:    "LOAD006",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "Failed to load data: the file is not valid CSV",
			Action:  "Ensure the file is comma-separated with a header row",
			Code:    "LOAD005",
		},
	},
	{
		pattern: "dataset not ready",
		msg: UserMessage{
			Message: "The dataset is still loading",
			Action:  "Please wait a moment and reload",
			Code:    "REQ001",
		},
	},
	{
		pattern: "unknown chart",
		msg: UserMessage{
			Message: "Chart not found",
			Action:  "Use one of: adults, nests, totals, seen",
			Code:    "REQ002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ003",
		},
	},
	{
		pattern: "missing api key",
		msg: UserMessage{
			Message: "An API key is required",
			Action:  "Send the key in the X-API-Key header",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "invalid api key",
		msg: UserMessage{
			Message: "The API key was not accepted",
			Action:  "Check the key with the server administrator",
			Code:    "AUTH002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
	{
		pattern: "server busy",
		msg: UserMessage{
			Message: "The server is busy rendering other requests",
			Action:  "Please try again in a few seconds",
			Code:    "RATE002",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the server log",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// A nil error maps to the zero UserMessage.
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
	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
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
