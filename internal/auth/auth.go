// Package auth is the client side of the external authentication
// collaborator. It exposes login/logout/current-user and maps provider
// error codes to fixed human-readable messages; the provider itself is not
// reimplemented here.
package auth

import (
	"context"

	"rentgear-storefront/internal/domain"
)

// Provider is the auth collaborator surface the storefront consumes.
type Provider interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	LoginWithGoogle(ctx context.Context, credential string) (*domain.User, error)
	SignUp(ctx context.Context, email, password, name string) (*domain.User, error)
	Logout()
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*domain.User, error)
	CurrentUser() *domain.User
	Subscribe() <-chan *domain.User
}

// ProfileUpdate carries the editable profile fields. Empty strings leave the
// field untouched. Phone and address live only in the local snapshot; the
// provider does not store them.
type ProfileUpdate struct {
	Name     string
	PhotoURL string
	Phone    string
	Address  string
}

// Error is a provider failure with the raw code and the user-facing message.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// genericAuthMessage is the fallback for provider codes not in the table.
const genericAuthMessage = "Authentication failed. Please try again."

var errorMessages = map[string]string{
	"INVALID_EMAIL":               "Invalid email address.",
	"USER_DISABLED":               "This account has been disabled.",
	"EMAIL_NOT_FOUND":             "No account found with this email.",
	"INVALID_PASSWORD":            "Incorrect password.",
	"INVALID_LOGIN_CREDENTIALS":   "Invalid email or password.",
	"TOO_MANY_ATTEMPTS_TRY_LATER": "Too many login attempts. Please try again later.",
	"EMAIL_EXISTS":                "An account already exists with this email.",
	"WEAK_PASSWORD":               "Password should be at least 6 characters.",
	"INVALID_IDP_RESPONSE":        "Google Sign-In failed. Please try again.",
	"INVALID_ID_TOKEN":            "Your session has expired. Please sign in again.",
}

// NewError wraps a provider error code with its user-facing message.
// Unknown codes fall back to a generic message.
func NewError(code string) *Error {
	msg, ok := errorMessages[code]
	if !ok {
		msg = genericAuthMessage
	}
	return &Error{Code: code, Message: msg}
}
