package user

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail = errors.New("invalid email format")
	ErrInvalidRole  = errors.New("invalid role")
)

const maxEmailLength = 254

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email keeps the local part as typed; the domain is case-insensitive and
// stored lower-cased.
type Email struct {
	local  string
	domain string
}

func NewEmail(s string) (Email, error) {
	s = strings.TrimSpace(s)
	if len(s) > maxEmailLength || !emailRegex.MatchString(s) || strings.Contains(s, "..") {
		return Email{}, ErrInvalidEmail
	}
	at := strings.LastIndexByte(s, '@')
	return Email{local: s[:at], domain: strings.ToLower(s[at+1:])}, nil
}

func (e Email) Value() string {
	if e.domain == "" {
		return ""
	}
	return e.local + "@" + e.domain
}

func (e Email) Domain() string {
	return e.domain
}
