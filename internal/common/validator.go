package common

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	emailPattern     = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,4}$`)
	telephonePattern = regexp.MustCompile(`^\+7\d{10}$`)
)

// IsValidEndpoint reports whether endpoint is an absolute http(s) URL.
func IsValidEndpoint(endpoint string) bool {
	u, err := url.ParseRequestURI(endpoint)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && len(u.Host) > 0
}

// IsValidEmail applies the address pattern used by the account forms. It is
// deliberately narrower than RFC 5322.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidTelephone accepts numbers in the +7XXXXXXXXXX form.
func IsValidTelephone(telephone string) bool {
	return telephonePattern.MatchString(telephone)
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}
