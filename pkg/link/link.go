// Package link formats and parses cross-navigation links of the form
// <scheme>://open-list/<id>.
package link

import (
	"fmt"
	"net/url"
	"strings"
)

// CommandOpenList is the only command links carry today.
const CommandOpenList = "open-list"

type ErrorCode string

const (
	ErrCodeEmptyInput     ErrorCode = "empty_input"
	ErrCodeMalformed      ErrorCode = "malformed"
	ErrCodeUnknownScheme  ErrorCode = "unknown_scheme"
	ErrCodeUnknownCommand ErrorCode = "unknown_command"
	ErrCodeMissingID      ErrorCode = "missing_id"
	ErrCodeUnknownList    ErrorCode = "unknown_list"
)

// LinkError is a user-facing link failure.
type LinkError struct {
	Code    ErrorCode
	Message string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Target is what a link points at.
type Target struct {
	Command string
	ListID  string
}

// Format returns the link opening listID.
func Format(scheme, listID string) string {
	return scheme + "://" + CommandOpenList + "/" + url.PathEscape(listID)
}

// Parse resolves raw into a Target. The scheme is compared
// case-insensitively.
func Parse(raw, scheme string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, &LinkError{Code: ErrCodeEmptyInput, Message: "link is empty"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, &LinkError{Code: ErrCodeMalformed, Message: err.Error()}
	}
	if !strings.EqualFold(u.Scheme, scheme) {
		return Target{}, &LinkError{Code: ErrCodeUnknownScheme, Message: fmt.Sprintf("expected %s:// link, got %q", scheme, raw)}
	}

	command, rest := u.Host, u.EscapedPath()
	if u.Opaque != "" {
		command, rest, _ = strings.Cut(u.Opaque, "/")
	}
	if command != CommandOpenList {
		return Target{}, &LinkError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command %q", command)}
	}

	id, err := url.PathUnescape(strings.Trim(rest, "/"))
	if err != nil {
		return Target{}, &LinkError{Code: ErrCodeMalformed, Message: err.Error()}
	}
	if id == "" {
		return Target{}, &LinkError{Code: ErrCodeMissingID, Message: "link names no list"}
	}
	return Target{Command: command, ListID: id}, nil
}
