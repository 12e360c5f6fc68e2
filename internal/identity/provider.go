package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/snackradar/snackradar/internal/logger"
	"github.com/snackradar/snackradar/internal/model"
	"github.com/snackradar/snackradar/internal/token"
)

const (
	sessionTokenKey = "sessionToken"
	minPasswordLen  = 6
)

var _ model.IdentityProvider = (*Provider)(nil)

// Provider is an email/password identity provider over a credential store.
// The signed-in identity is carried as a session token in the local
// preference store so it survives process restarts. Every error returned is
// a *model.Fault with one of the auth kinds.
type Provider struct {
	store  model.CredentialStore
	tokens *token.JWT
	prefs  model.PreferenceStore
	logger *logger.Logger

	mu        sync.Mutex
	current   model.Identity
	signedIn  bool
	listeners map[int]model.AuthListener
	nextID    int
}

// NewProvider builds a provider and restores any persisted session.
func NewProvider(
	store model.CredentialStore,
	tokens *token.JWT,
	prefs model.PreferenceStore,
	logger *logger.Logger,
) *Provider {
	p := &Provider{
		store:     store,
		tokens:    tokens,
		prefs:     prefs,
		logger:    logger,
		listeners: map[int]model.AuthListener{},
	}
	p.restore()
	return p
}

func (p *Provider) restore() {
	raw, ok := p.prefs.Get(sessionTokenKey)
	if !ok {
		return
	}

	id, err := p.tokens.ParseSessionToken(raw)
	if err != nil {
		p.logger.Info("identity: discarding invalid persisted session", "error", err.Error())
		if err := p.prefs.Remove(sessionTokenKey); err != nil {
			p.logger.Error("identity: failed to drop persisted session", "error", err.Error())
		}
		return
	}

	p.current = id
	p.signedIn = true
}

// SignIn authenticates an email/password pair.
func (p *Provider) SignIn(ctx context.Context, email, password string) (model.Identity, error) {
	cred, err := p.store.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return "", model.NewFault(model.FaultAccountNotFound, "No account found with this email.", err)
	}
	if err != nil {
		return "", p.storeFault(err)
	}

	if len(cred.PasswordHash) == 0 {
		return "", model.NewFault(model.FaultInvalidCredentials, "Invalid email or password. Please try again.", nil)
	}
	if err := bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)); err != nil {
		return "", model.NewFault(model.FaultInvalidCredentials, "Invalid email or password. Please try again.", err)
	}

	if err := p.setSignedIn(cred.ID); err != nil {
		return "", err
	}
	return cred.ID, nil
}

// SignUp registers a new email/password account and signs it in.
func (p *Provider) SignUp(ctx context.Context, email, password string) (model.Identity, error) {
	if len(password) < minPasswordLen {
		return "", model.NewFault(model.FaultWeakPassword, "Password must be at least 6 characters.", nil)
	}

	_, err := p.store.GetByEmail(ctx, email)
	if err == nil {
		return "", model.NewFault(model.FaultEmailTaken, "This email is already registered.", nil)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return "", p.storeFault(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", model.NewFault(model.FaultUnknown, "Could not create the account.", err)
	}

	cred, err := p.store.Create(ctx, model.Credential{
		ID:           model.Identity(uuid.NewString()),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return "", p.storeFault(err)
	}

	if err := p.setSignedIn(cred.ID); err != nil {
		return "", err
	}
	return cred.ID, nil
}

// SignInWithIDToken exchanges a federated sign-on token, provisioning a
// passwordless account on first use.
func (p *Provider) SignInWithIDToken(ctx context.Context, idToken string) (model.Identity, error) {
	email, err := p.tokens.ParseSSOToken(idToken)
	if err != nil {
		return "", model.NewFault(model.FaultInvalidCredentials, "Invalid sign-on token.", err)
	}

	cred, err := p.store.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		cred, err = p.store.Create(ctx, model.Credential{
			ID:        model.Identity(uuid.NewString()),
			Email:     email,
			CreatedAt: time.Now(),
		})
	}
	if err != nil {
		return "", p.storeFault(err)
	}

	if err := p.setSignedIn(cred.ID); err != nil {
		return "", err
	}
	return cred.ID, nil
}

// ResetPassword issues a password-reset token for the account. Delivery is
// out of scope; the token is logged for the mail pipeline to pick up.
func (p *Provider) ResetPassword(ctx context.Context, email string) error {
	_, err := p.store.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.NewFault(model.FaultAccountNotFound, "No account found with this email.", err)
	}
	if err != nil {
		return p.storeFault(err)
	}

	reset, err := p.tokens.GenerateResetToken(email)
	if err != nil {
		return model.NewFault(model.FaultUnknown, "Could not start the password reset.", err)
	}

	p.logger.Info("identity: password reset token issued", "email", email, "token", reset)
	return nil
}

// SignOut clears the signed-in identity and notifies listeners.
func (p *Provider) SignOut(_ context.Context) error {
	p.mu.Lock()
	p.current = ""
	p.signedIn = false
	if err := p.prefs.Remove(sessionTokenKey); err != nil {
		p.logger.Error("identity: failed to drop persisted session", "error", err.Error())
	}
	p.notifyLocked()
	p.mu.Unlock()
	return nil
}

// Current returns the signed-in identity, if any.
func (p *Provider) Current() (model.Identity, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.signedIn
}

// OnAuthStateChanged registers a listener, invoking it immediately with the
// current state, and returns its removal func.
func (p *Provider) OnAuthStateChanged(listener model.AuthListener) (remove func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = listener
	current, signedIn := p.current, p.signedIn
	p.mu.Unlock()

	listener(current, signedIn)

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

func (p *Provider) setSignedIn(id model.Identity) error {
	sessionToken, err := p.tokens.GenerateSessionToken(id)
	if err != nil {
		return model.NewFault(model.FaultUnknown, "Could not establish the session.", err)
	}

	p.mu.Lock()
	p.current = id
	p.signedIn = true
	if err := p.prefs.Set(sessionTokenKey, sessionToken); err != nil {
		p.logger.Error("identity: failed to persist session", "error", err.Error())
	}
	p.notifyLocked()
	p.mu.Unlock()
	return nil
}

func (p *Provider) notifyLocked() {
	for _, fn := range p.listeners {
		fn(p.current, p.signedIn)
	}
}

// storeFault classifies credential store failures: timeouts and cancelled
// calls surface as network faults, everything else as unknown.
func (p *Provider) storeFault(err error) *model.Fault {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return model.NewFault(model.FaultNetwork, "Network error. Please check your connection.", err)
	}
	return model.NewFault(model.FaultUnknown, "Something went wrong. Please try again.", err)
}
