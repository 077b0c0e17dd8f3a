package adlookup

import (
	"errors"
	"strings"
)

var (
	// ErrUnknown is an unknown/undefined error
	ErrUnknown = errors.New("unknown")

	// ErrInvalidParameter is an invalid parameter error
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInternal is an internal error
	ErrInternal = errors.New("internal error")

	// ErrUnrecognizedRoot is returned when a search root is in none of the
	// supported forms (distinguished name, canonical name, dotted domain)
	ErrUnrecognizedRoot = errors.New("unrecognized search root format")

	// ErrSearchFailed wraps errors raised by the directory during a search
	ErrSearchFailed = errors.New("directory search failed")
)

// adDataCodes maps the hex "data" codes Active Directory embeds in bind
// diagnostic messages (for example "... AcceptSecurityContext error, data
// 52e, v3839") to their cause.
var adDataCodes = map[string]string{
	"525": "user not found",
	"52e": "invalid credentials",
	"52f": "account restriction",
	"530": "not permitted to logon at this time",
	"531": "not permitted to logon at this workstation",
	"532": "password expired",
	"533": "account disabled",
	"701": "account expired",
	"773": "user must reset password",
	"775": "account locked out",
}

// BindErrorDetail inspects an error returned from a bind against Active
// Directory and, when its diagnostic message carries a known "data" code,
// returns a human-readable cause.
func BindErrorDetail(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	const marker = ", data "
	msg := err.Error()
	i := strings.Index(msg, marker)
	if i < 0 {
		return "", false
	}
	code := rightOf(msg, len(msg)-i-len(marker))
	if j := strings.IndexAny(code, ", \n"); j >= 0 {
		code = leftOf(code, j)
	}
	detail, ok := adDataCodes[strings.ToLower(code)]
	return detail, ok
}

// leftOf returns the leftmost n characters of s.
func leftOf(s string, n int) string {
	switch {
	case n <= 0:
		return ""
	case n >= len(s):
		return s
	}
	return s[:n]
}

// rightOf returns the rightmost n characters of s.
func rightOf(s string, n int) string {
	switch {
	case n <= 0:
		return ""
	case n >= len(s):
		return s
	}
	return s[len(s)-n:]
}
