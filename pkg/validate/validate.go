// Package validate holds the field checks shared by the checkout and
// booking forms.
package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	postalRegex = regexp.MustCompile(`^[A-Za-z0-9]{4,10}$`)
)

// Error lists the offending fields and why each was rejected.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid fields: %s", strings.Join(names, ", "))
}

// Add records a problem with field. The first problem per field wins.
func (e *Error) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Err returns e when it holds problems, else nil.
func (e *Error) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Email reports whether s looks like an email address.
func Email(s string) bool {
	return emailRegex.MatchString(s)
}

// Phone accepts 7 to 15 digits with optional spaces, dashes, dots,
// parentheses and a leading plus.
func Phone(s string) bool {
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}

// PostalCode accepts 4 to 10 letters or digits.
func PostalCode(s string) bool {
	return postalRegex.MatchString(s)
}
