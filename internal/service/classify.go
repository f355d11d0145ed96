package service

import (
	"errors"
	"strings"
)

// AuthErrorCategory buckets an auth failure for user-facing messaging.
type AuthErrorCategory int

const (
	AuthErrUnknown AuthErrorCategory = iota
	AuthErrInvalidCredentials
	AuthErrEmailNotConfirmed
	AuthErrAlreadyRegistered
	AuthErrWeakPassword
)

// ClassifyAuthError maps an authentication failure to its category.
// Sentinel errors are matched first; the message-substring fallback
// covers errors wrapped by layers that lose the sentinel chain.
func ClassifyAuthError(err error) AuthErrorCategory {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return AuthErrInvalidCredentials
	case errors.Is(err, ErrEmailNotConfirmed):
		return AuthErrEmailNotConfirmed
	case errors.Is(err, ErrAlreadyRegistered):
		return AuthErrAlreadyRegistered
	case errors.Is(err, ErrWeakPassword):
		return AuthErrWeakPassword
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "invalid login credentials"):
		return AuthErrInvalidCredentials
	case strings.Contains(msg, "email not confirmed"):
		return AuthErrEmailNotConfirmed
	case strings.Contains(msg, "already registered"):
		return AuthErrAlreadyRegistered
	case strings.Contains(msg, "weak password"), strings.Contains(msg, "at least 6"):
		return AuthErrWeakPassword
	}
	return AuthErrUnknown
}
