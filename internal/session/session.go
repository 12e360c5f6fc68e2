package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/snackradar/snackradar/internal/logger"
	"github.com/snackradar/snackradar/internal/model"
	"github.com/snackradar/snackradar/internal/push"
)

// State is the snapshot published to observers on every transition.
type State struct {
	Mode    model.Mode
	Profile *model.UserProfile
	Fault   *model.Fault
}

// Observer receives state snapshots. Observers are called with the
// coordinator lock held, serialized with transitions: each change is visible
// to all current observers before the next one is applied. Observers must
// not call back into the coordinator.
type Observer func(State)

// Coordinator owns the mapping from the authenticated identity to a live
// user profile and the derived client mode. All mutation is funneled through
// a single mutex; asynchronous results are checked against the identity
// generation they were started for and discarded when stale.
type Coordinator struct {
	provider model.IdentityProvider
	profiles model.ProfileStore
	watcher  model.ProfileWatcher
	prompter model.NotificationPrompter
	tokens   model.DeviceTokenSource
	registry model.PushRegistry
	logger   *logger.Logger

	fetchTimeout time.Duration

	mu          sync.Mutex
	gen         uint64
	identity    model.Identity
	profile     *model.UserProfile
	mode        model.Mode
	fault       *model.Fault
	cancelWatch func()
	observers   map[int]Observer
	nextObs     int
	removeAuth  func()
}

// Config carries coordinator tunables.
type Config struct {
	// FetchTimeout bounds the initial profile fetch after sign-in.
	FetchTimeout time.Duration
}

// NewCoordinator builds a session coordinator. Call Start to attach it to
// the identity provider and Close to detach.
func NewCoordinator(
	provider model.IdentityProvider,
	profiles model.ProfileStore,
	watcher model.ProfileWatcher,
	prompter model.NotificationPrompter,
	tokens model.DeviceTokenSource,
	registry model.PushRegistry,
	cfg Config,
	logger *logger.Logger,
) *Coordinator {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Coordinator{
		provider:     provider,
		profiles:     profiles,
		watcher:      watcher,
		prompter:     prompter,
		tokens:       tokens,
		registry:     registry,
		logger:       logger,
		fetchTimeout: timeout,
		mode:         model.ModeLoading,
		observers:    map[int]Observer{},
	}
}

// Start subscribes to auth-state changes. The provider delivers the current
// state immediately, so the first transition out of loading happens here.
func (c *Coordinator) Start() {
	c.removeAuth = c.provider.OnAuthStateChanged(c.handleAuthChange)
}

// Close detaches from the identity provider and cancels any active profile
// subscription. Idempotent.
func (c *Coordinator) Close() {
	if c.removeAuth != nil {
		c.removeAuth()
		c.removeAuth = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.stopWatchLocked()
}

// Observe registers an observer and returns its removal func. The observer
// immediately receives the current state.
func (c *Coordinator) Observe(fn Observer) (remove func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	fn(c.stateLocked())

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
	}
}

// Current returns the latest published state.
func (c *Coordinator) Current() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// ClearFault drops the recorded fault without changing mode.
func (c *Coordinator) ClearFault() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fault = nil
	c.notifyLocked()
}

func (c *Coordinator) handleAuthChange(id model.Identity, signedIn bool) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.stopWatchLocked()

	if !signedIn {
		c.identity = ""
		c.profile = nil
		c.mode = model.ModeSignedOut
		c.notifyLocked()
		c.mu.Unlock()
		return
	}

	c.identity = id
	c.profile = nil
	c.mode = model.ModeLoading
	c.notifyLocked()
	c.mu.Unlock()

	go c.establish(gen, id)
}

// establish performs the one-shot profile fetch for an identity and, when it
// is still the current one, applies the result and opens the live
// subscription. Results for a superseded identity are discarded.
func (c *Coordinator) establish(gen uint64, id model.Identity) {
	ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
	defer cancel()

	profile, err := c.profiles.Get(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.logger.Debug("session: discarding stale profile fetch", "identity", id)
		return
	}

	if errors.Is(err, model.ErrNotFound) {
		// Expected mid-signup: the account exists before its profile does.
		// The sign-up flow creates the profile and re-establishes.
		c.logger.Info("session: profile not found, awaiting profile creation", "identity", id)
		c.mode = model.ModeSignedOut
		c.notifyLocked()
		return
	}
	if err != nil {
		c.logger.Error("session: failed to fetch profile", "identity", id, "error", err.Error())
		c.fault = model.RemoteFault(err)
		c.mode = model.ModeSignedOut
		c.notifyLocked()
		return
	}

	c.applyProfileLocked(profile)
	c.openWatchLocked(gen, id)
}

// applyProfileLocked replaces the cached profile and re-derives mode.
func (c *Coordinator) applyProfileLocked(profile model.UserProfile) {
	c.profile = &profile
	c.mode = ModeFor(profile.Role, profile.IsApproved)
	c.notifyLocked()
}

func (c *Coordinator) openWatchLocked(gen uint64, id model.Identity) {
	ctx, cancel := context.WithCancel(context.Background())

	ch, stop, err := c.watcher.Watch(ctx, id)
	if err != nil {
		cancel()
		c.logger.Error("session: failed to open profile subscription", "identity", id, "error", err.Error())
		c.fault = model.RemoteFault(err)
		c.notifyLocked()
		return
	}

	c.cancelWatch = func() {
		stop()
		cancel()
	}

	go func() {
		for profile := range ch {
			c.mu.Lock()
			if gen != c.gen {
				c.mu.Unlock()
				return
			}
			c.applyProfileLocked(profile)
			c.mu.Unlock()
		}
	}()
}

// stopWatchLocked cancels the active subscription if any. Idempotent.
func (c *Coordinator) stopWatchLocked() {
	if c.cancelWatch != nil {
		c.cancelWatch()
		c.cancelWatch = nil
	}
}

func (c *Coordinator) stateLocked() State {
	return State{Mode: c.mode, Profile: c.profile, Fault: c.fault}
}

func (c *Coordinator) notifyLocked() {
	st := c.stateLocked()
	for _, fn := range c.observers {
		fn(st)
	}
}

// CreateProfile stores a fresh profile during sign-up. When the profile
// belongs to the currently signed-in identity the session is re-established,
// picking the new profile up without waiting for another auth event.
func (c *Coordinator) CreateProfile(ctx context.Context, id model.Identity, email string, role model.Role) error {
	profile := model.NewUserProfile(id, email, role)

	if _, err := c.profiles.Create(ctx, profile); err != nil {
		c.logger.Error("session: failed to create profile", "identity", id, "error", err.Error())
		return model.RemoteFault(err)
	}

	c.mu.Lock()
	if c.identity == id {
		c.gen++
		gen := c.gen
		c.stopWatchLocked()
		c.mu.Unlock()
		go c.establish(gen, id)
		return nil
	}
	c.mu.Unlock()
	return nil
}

// SignOut tears down the subscription, clears the cached profile and
// transitions to signed-out. The remote sign-out call is best effort: local
// state is cleared regardless of its outcome. Idempotent.
func (c *Coordinator) SignOut(ctx context.Context) {
	c.mu.Lock()
	c.gen++
	c.stopWatchLocked()
	c.identity = ""
	c.profile = nil
	c.mode = model.ModeSignedOut
	c.notifyLocked()
	c.mu.Unlock()

	if err := c.provider.SignOut(ctx); err != nil {
		c.logger.Error("session: remote sign-out failed", "error", err.Error())
	}
}

// SetPushNotifications flips the profile-owned notification toggle. Enabling
// requires the platform permission; refusal fails with a permission fault
// and leaves the stored toggle untouched. On success the device token is
// registered remotely and subscribed to the profile's campus topic; on
// disable the token is unregistered and removed.
func (c *Coordinator) SetPushNotifications(ctx context.Context, enabled bool) error {
	c.mu.Lock()
	if c.profile == nil {
		c.mu.Unlock()
		return model.RemoteFault(errors.New("no active profile"))
	}
	id := c.profile.ID
	campusID := c.profile.Campus()
	c.mu.Unlock()

	if !enabled {
		return c.disablePush(ctx, id, campusID)
	}

	granted, err := c.prompter.RequestPermission(ctx)
	if err != nil {
		return model.RemoteFault(err)
	}
	if !granted {
		return model.PermissionFault()
	}

	deviceToken, err := c.tokens.DeviceToken(ctx)
	if err != nil {
		return model.RemoteFault(err)
	}

	if err := c.profiles.UpdatePushToken(ctx, id, &deviceToken); err != nil {
		return model.RemoteFault(err)
	}
	if err := c.profiles.SetPushEnabled(ctx, id, true); err != nil {
		return model.RemoteFault(err)
	}

	if campusID != "" {
		if err := c.registry.Subscribe(ctx, deviceToken, push.CampusTopic(campusID)); err != nil {
			c.logger.Error("session: failed to subscribe campus topic", "campus_id", campusID, "error", err.Error())
		}
	}

	c.updateCachedPush(true, &deviceToken)
	return nil
}

func (c *Coordinator) disablePush(ctx context.Context, id model.Identity, campusID string) error {
	deviceToken, err := c.tokens.DeviceToken(ctx)
	if err != nil {
		return model.RemoteFault(err)
	}

	if campusID != "" {
		if err := c.registry.Unsubscribe(ctx, deviceToken, push.CampusTopic(campusID)); err != nil {
			c.logger.Error("session: failed to unsubscribe campus topic", "campus_id", campusID, "error", err.Error())
		}
	}

	if err := c.profiles.UpdatePushToken(ctx, id, nil); err != nil {
		return model.RemoteFault(err)
	}
	if err := c.profiles.SetPushEnabled(ctx, id, false); err != nil {
		return model.RemoteFault(err)
	}

	c.updateCachedPush(false, nil)
	return nil
}

// updateCachedPush mirrors a confirmed push-preference write into the cached
// profile so reads are fresh before the live update round-trips.
func (c *Coordinator) updateCachedPush(enabled bool, deviceToken *string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil {
		return
	}
	p := *c.profile
	p.PushEnabled = enabled
	p.PushToken = deviceToken
	c.profile = &p
	c.notifyLocked()
}
