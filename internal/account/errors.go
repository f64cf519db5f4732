package account

import "errors"

// Kind identifies why an operation failed. Callers branch on the kind via
// errors.As instead of matching message strings.
type Kind string

const (
	KindUnauthorized           Kind = "UNAUTHORIZED"
	KindNoUserWithThatID       Kind = "NO_USER_WITH_THAT_ID"
	KindEmailAlreadyRegistered Kind = "EMAIL_IS_ALREADY_REGISTERED"
	KindInvalidEmail           Kind = "INVALID_EMAIL"
	KindNoUserWithThatEmail    Kind = "NO_USER_WITH_THAT_EMAIL"
	KindIncorrectPassword      Kind = "INCORRECT_PASSWORD"
	KindNoUserFound            Kind = "NO_USER_FOUND"
)

type Error struct {
	Kind Kind
}

func (e *Error) Error() string {
	return string(e.Kind)
}

// static table of the failure modes the service can raise

var (
	ErrUnauthorized           = &Error{Kind: KindUnauthorized}
	ErrNoUserWithThatID       = &Error{Kind: KindNoUserWithThatID}
	ErrEmailAlreadyRegistered = &Error{Kind: KindEmailAlreadyRegistered}
	ErrInvalidEmail           = &Error{Kind: KindInvalidEmail}
	ErrNoUserWithThatEmail    = &Error{Kind: KindNoUserWithThatEmail}
	ErrIncorrectPassword      = &Error{Kind: KindIncorrectPassword}
	ErrNoUserFound            = &Error{Kind: KindNoUserFound}
)

// KindOf extracts the symbolic kind, or "" when the error came from an
// external collaborator (store, hasher) and should surface as internal.
func KindOf(err error) Kind {
	var e *Error

	if errors.As(err, &e) {
		return e.Kind
	}

	return ""
}
