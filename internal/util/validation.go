package util

import (
	"regexp"
)

// emailRegex accepts conventional local@domain.tld addresses: ASCII
// local part, dotted domain, TLD of at least two letters.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}
	return emailRegex.MatchString(email)
}
