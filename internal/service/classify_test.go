package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyAuthErrorSentinels(t *testing.T) {
	cases := []struct {
		err  error
		want AuthErrorCategory
	}{
		{ErrInvalidCredentials, AuthErrInvalidCredentials},
		{ErrEmailNotConfirmed, AuthErrEmailNotConfirmed},
		{ErrAlreadyRegistered, AuthErrAlreadyRegistered},
		{ErrWeakPassword, AuthErrWeakPassword},
		{fmt.Errorf("login: %w", ErrInvalidCredentials), AuthErrInvalidCredentials},
	}
	for _, tc := range cases {
		if got := ClassifyAuthError(tc.err); got != tc.want {
			t.Errorf("ClassifyAuthError(%v): got %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestClassifyAuthErrorMessageFallback(t *testing.T) {
	cases := []struct {
		msg  string
		want AuthErrorCategory
	}{
		{"Invalid login credentials", AuthErrInvalidCredentials},
		{"Email not confirmed", AuthErrEmailNotConfirmed},
		{"User already registered", AuthErrAlreadyRegistered},
		{"Password should be at least 6 characters", AuthErrWeakPassword},
		{"something exploded", AuthErrUnknown},
	}
	for _, tc := range cases {
		if got := ClassifyAuthError(errors.New(tc.msg)); got != tc.want {
			t.Errorf("ClassifyAuthError(%q): got %v, want %v", tc.msg, got, tc.want)
		}
	}
}
