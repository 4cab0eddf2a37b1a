// internal/application/usecase/access_usecase.go
package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
)

var (
	ErrAccessNotConfigured = errors.New("access_usecase: passcode provider is not configured")

	// ErrAccessDenied means the submitted passcode did not match.
	ErrAccessDenied = errors.New("access_usecase: access denied")
)

// PasscodeProvider resolves the till passcode from a secret backend.
// The Secret Manager implementation lives in platform/di; the passcode is
// never stored in the client-readable database.
type PasscodeProvider interface {
	Passcode(ctx context.Context) (string, error)
}

// AccessUsecase backs the till access-gate screen. This gates the
// operator UI only; real authorization for mutating endpoints is the
// Firebase ID token middleware.
type AccessUsecase struct {
	provider PasscodeProvider
}

func NewAccessUsecase(provider PasscodeProvider) *AccessUsecase {
	return &AccessUsecase{provider: provider}
}

// Verify returns nil when the submitted passcode matches, ErrAccessDenied
// otherwise.
func (u *AccessUsecase) Verify(ctx context.Context, passcode string) error {
	if u == nil || u.provider == nil {
		return ErrAccessNotConfigured
	}

	want, err := u.provider.Passcode(ctx)
	if err != nil {
		return err
	}
	want = strings.TrimSpace(want)
	got := strings.TrimSpace(passcode)
	if want == "" {
		return ErrAccessNotConfigured
	}

	if subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		return ErrAccessDenied
	}
	return nil
}
