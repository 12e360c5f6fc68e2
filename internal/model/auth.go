package model

import (
	"context"
	"time"
)

// Credential is a stored email/password credential pair. SSO-provisioned
// accounts carry no password hash and cannot sign in with a password.
type Credential struct {
	ID           Identity
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// CredentialStore defines persistence operations for credentials.
type CredentialStore interface {
	Create(ctx context.Context, credential Credential) (Credential, error)
	GetByEmail(ctx context.Context, email string) (Credential, error)
	GetByID(ctx context.Context, id Identity) (Credential, error)
}

// AuthListener receives auth-state changes. signedIn=false carries an empty
// identity. Listeners are invoked once with the current state on
// registration, then on every change.
type AuthListener func(id Identity, signedIn bool)

// IdentityProvider is the external authentication collaborator. All errors
// it returns are *Fault values with one of the auth kinds.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (Identity, error)
	SignUp(ctx context.Context, email, password string) (Identity, error)
	// SignInWithIDToken exchanges a third-party single-sign-on token,
	// provisioning an account on first use.
	SignInWithIDToken(ctx context.Context, idToken string) (Identity, error)
	ResetPassword(ctx context.Context, email string) error
	SignOut(ctx context.Context) error
	Current() (Identity, bool)
	// OnAuthStateChanged registers a listener and returns its removal func.
	OnAuthStateChanged(listener AuthListener) (remove func())
}
