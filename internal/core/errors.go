package core

import (
	"encoding/json"
	"errors"
)

// Error codes for CLIError, in the spirit of the teacher's ERR_* constants
// (internal/core/errorfmt.go, internal/model/errors.go).
const (
	ErrCodeInvalidConfig = "ERR_INVALID_CONFIG"
	ErrCodeParseFailure  = "ERR_PARSE_FAILURE"
	ErrCodeOutOfScope    = "ERR_OUT_OF_SCOPE"
)

// Sentinel errors for programmatic checking.
var (
	ErrMissingFilePath = errors.New("config: filePath is required")
)

// CLIError is a uniform error payload usable for both human-readable and
// machine-readable (JSON) output. Config and parse failures are fatal per
// spec §7 and are always reported as a CLIError so a caller can branch on
// Code without string-matching messages.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e CLIError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

// JSON renders the error as its JSON payload, for hosts that want structured
// error reporting instead of a plain string.
func (e CLIError) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// WrapError builds a CLIError with code and message, carrying inner's text
// as Detail.
func WrapError(code, message string, inner error) error {
	if inner == nil {
		return CLIError{Code: code, Message: message}
	}
	return CLIError{Code: code, Message: message, Detail: inner.Error()}
}
