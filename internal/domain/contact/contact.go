package contact

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail = errors.New("invalid email format")
	ErrInvalidPhone = errors.New("invalid phone number")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email is a syntactically valid, lower-cased address.
type Email string

func NewEmail(raw string) (Email, error) {
	trimmed := strings.TrimSpace(raw)
	if !emailPattern.MatchString(trimmed) {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, raw)
	}
	return Email(strings.ToLower(trimmed)), nil
}

func IsValidEmail(raw string) bool {
	return emailPattern.MatchString(strings.TrimSpace(raw))
}

func (e Email) String() string { return string(e) }

// Phone holds the digits of a Brazilian number: 10 for landlines, 11 for mobiles.
type Phone string

func NewPhone(raw string) (Phone, error) {
	digits := digitsOnly(raw)
	if !isValidPhoneDigits(digits) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}
	return Phone(digits), nil
}

// IsValidPhone accepts formatted or bare input.
func IsValidPhone(raw string) bool {
	return isValidPhoneDigits(digitsOnly(raw))
}

func (p Phone) IsMobile() bool { return len(p) == 11 }

// Formatted renders (XX) XXXX-XXXX or (XX) 9XXXX-XXXX.
func (p Phone) Formatted() string {
	s := string(p)
	switch len(s) {
	case 10:
		return "(" + s[:2] + ") " + s[2:6] + "-" + s[6:]
	case 11:
		return "(" + s[:2] + ") " + s[2:7] + "-" + s[7:]
	}
	return s
}

func (p Phone) String() string { return p.Formatted() }

func isValidPhoneDigits(d string) bool {
	switch len(d) {
	case 10:
		return true
	case 11:
		return d[2] == '9'
	}
	return false
}

func digitsOnly(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
