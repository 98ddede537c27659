package model

import (
	"errors"
	"net/mail"
	"strings"

	"golang.org/x/net/idna"
)

// ErrInvalidEmail is returned for addresses that are not a single bare mailbox.
var ErrInvalidEmail = errors.New("Please enter a valid email address")

// NormalizeEmail validates addr and returns it with the domain in lower-case
// ASCII (punycode) form. Display names and address lists are rejected.
func NormalizeEmail(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" || len(addr) > 254 {
		return "", ErrInvalidEmail
	}
	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Name != "" || parsed.Address != addr {
		return "", ErrInvalidEmail
	}

	at := strings.LastIndexByte(addr, '@')
	local, domain := addr[:at], addr[at+1:]
	if local == "" || !strings.Contains(domain, ".") {
		return "", ErrInvalidEmail
	}
	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return "", ErrInvalidEmail
	}
	return local + "@" + strings.ToLower(ascii), nil
}

// ValidEmail reports whether addr passes NormalizeEmail.
func ValidEmail(addr string) bool {
	_, err := NormalizeEmail(addr)
	return err == nil
}
