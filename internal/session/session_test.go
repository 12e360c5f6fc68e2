package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snackradar/snackradar/internal/model"
	"github.com/snackradar/snackradar/internal/testutil"
)

type fakeProvider struct {
	mu        sync.Mutex
	listeners []model.AuthListener
	current   model.Identity
	signedIn  bool

	signOutCalls int
}

func (p *fakeProvider) SignIn(context.Context, string, string) (model.Identity, error) {
	return "", nil
}
func (p *fakeProvider) SignUp(context.Context, string, string) (model.Identity, error) {
	return "", nil
}
func (p *fakeProvider) SignInWithIDToken(context.Context, string) (model.Identity, error) {
	return "", nil
}
func (p *fakeProvider) ResetPassword(context.Context, string) error { return nil }

func (p *fakeProvider) SignOut(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signOutCalls++
	return nil
}

func (p *fakeProvider) Current() (model.Identity, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.signedIn
}

func (p *fakeProvider) OnAuthStateChanged(listener model.AuthListener) func() {
	p.mu.Lock()
	p.listeners = append(p.listeners, listener)
	current, signedIn := p.current, p.signedIn
	p.mu.Unlock()
	listener(current, signedIn)
	return func() {}
}

func (p *fakeProvider) emit(id model.Identity, signedIn bool) {
	p.mu.Lock()
	p.current = id
	p.signedIn = signedIn
	listeners := append([]model.AuthListener{}, p.listeners...)
	p.mu.Unlock()
	for _, l := range listeners {
		l(id, signedIn)
	}
}

type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[model.Identity]model.UserProfile
	getErr   error
	gates    map[model.Identity]chan struct{}
	getCalls int

	pushTokens  []*string
	pushEnabled []bool
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{
		profiles: map[model.Identity]model.UserProfile{},
		gates:    map[model.Identity]chan struct{}{},
	}
}

func (s *fakeProfileStore) Create(_ context.Context, profile model.UserProfile) (model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = profile
	return profile, nil
}

func (s *fakeProfileStore) Get(_ context.Context, id model.Identity) (model.UserProfile, error) {
	s.mu.Lock()
	gate := s.gates[id]
	s.getCalls++
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return model.UserProfile{}, s.getErr
	}
	profile, ok := s.profiles[id]
	if !ok {
		return model.UserProfile{}, model.ErrNotFound
	}
	return profile, nil
}

func (s *fakeProfileStore) Update(_ context.Context, profile model.UserProfile) (model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = profile
	return profile, nil
}

func (s *fakeProfileStore) UpdateCampus(context.Context, model.Identity, *string) error { return nil }

func (s *fakeProfileStore) UpdatePushToken(_ context.Context, _ model.Identity, token *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushTokens = append(s.pushTokens, token)
	return nil
}

func (s *fakeProfileStore) SetPushEnabled(_ context.Context, _ model.Identity, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushEnabled = append(s.pushEnabled, enabled)
	return nil
}

type fakeWatcher struct {
	mu    sync.Mutex
	chans map[model.Identity]chan model.UserProfile
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{chans: map[model.Identity]chan model.UserProfile{}}
}

func (w *fakeWatcher) Watch(_ context.Context, id model.Identity) (<-chan model.UserProfile, func(), error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	ch := make(chan model.UserProfile, 8)
	w.chans[id] = ch
	var once sync.Once
	return ch, func() { once.Do(func() { close(ch) }) }, nil
}

func (w *fakeWatcher) deliver(id model.Identity, profile model.UserProfile) {
	w.mu.Lock()
	ch := w.chans[id]
	w.mu.Unlock()
	ch <- profile
}

type fakePrompter struct{ granted bool }

func (p *fakePrompter) RequestPermission(context.Context) (bool, error) { return p.granted, nil }

type fakeTokenSource struct{ token string }

func (s *fakeTokenSource) DeviceToken(context.Context) (string, error) { return s.token, nil }

type fakeRegistry struct {
	mu          sync.Mutex
	subscribed  []string
	unsubbed    []string
	topicTokens map[string][]string
}

func (r *fakeRegistry) Subscribe(_ context.Context, token, topic string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribed = append(r.subscribed, token+"@"+topic)
	return nil
}

func (r *fakeRegistry) Unsubscribe(_ context.Context, token, topic string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unsubbed = append(r.unsubbed, token+"@"+topic)
	return nil
}

func (r *fakeRegistry) TopicTokens(_ context.Context, topic string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.topicTokens[topic], nil
}

type fixture struct {
	provider *fakeProvider
	store    *fakeProfileStore
	watcher  *fakeWatcher
	prompter *fakePrompter
	registry *fakeRegistry
	coord    *Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		provider: &fakeProvider{},
		store:    newFakeProfileStore(),
		watcher:  newFakeWatcher(),
		prompter: &fakePrompter{granted: true},
		registry: &fakeRegistry{},
	}
	f.coord = NewCoordinator(
		f.provider, f.store, f.watcher, f.prompter,
		&fakeTokenSource{token: "device-token"}, f.registry,
		Config{FetchTimeout: time.Second},
		testutil.MakeNoopLogger(),
	)
	f.coord.Start()
	t.Cleanup(f.coord.Close)
	return f
}

func (f *fixture) waitForMode(t *testing.T, mode model.Mode) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.coord.Current().Mode == mode
	}, 2*time.Second, 5*time.Millisecond, "expected mode %s, got %s", mode, f.coord.Current().Mode)
}

func TestCoordinator_StartsSignedOutWithoutIdentity(t *testing.T) {
	f := newFixture(t)

	st := f.coord.Current()
	assert.Equal(t, model.ModeSignedOut, st.Mode)
	assert.Nil(t, st.Profile)
	assert.Nil(t, st.Fault)
}

func TestCoordinator_ProfileNotFound_SignedOutWithoutFault(t *testing.T) {
	f := newFixture(t)

	f.provider.emit("u1", true)
	f.waitForMode(t, model.ModeSignedOut)

	st := f.coord.Current()
	assert.Nil(t, st.Profile)
	assert.Nil(t, st.Fault, "mid-signup missing profile is not an error")
}

func TestCoordinator_FetchFailure_FailsClosed(t *testing.T) {
	f := newFixture(t)
	f.store.getErr = errors.New("store unavailable")

	f.provider.emit("u1", true)
	f.waitForMode(t, model.ModeSignedOut)

	st := f.coord.Current()
	require.NotNil(t, st.Fault)
	assert.Equal(t, model.FaultRemote, st.Fault.Kind)
	assert.Nil(t, st.Profile)
}

func TestCoordinator_PendingOrganizer_ThenLiveApproval(t *testing.T) {
	f := newFixture(t)
	profile := model.NewUserProfile("u1", "org@campus.edu", model.RoleOrganizer)
	f.store.profiles["u1"] = profile

	f.provider.emit("u1", true)
	f.waitForMode(t, model.ModeOrganizerPendingApproval)

	fetches := f.store.getCalls
	profile.IsApproved = true
	f.watcher.deliver("u1", profile)
	f.waitForMode(t, model.ModeOrganizerHome)

	assert.Equal(t, fetches, f.store.getCalls, "approval must arrive via the subscription, not a refetch")
}

func TestCoordinator_StudentRoutesHome(t *testing.T) {
	f := newFixture(t)
	f.store.profiles["u1"] = model.NewUserProfile("u1", "s@campus.edu", model.RoleStudent)

	f.provider.emit("u1", true)
	f.waitForMode(t, model.ModeStudentHome)
}

func TestCoordinator_StaleIdentityDiscarded(t *testing.T) {
	f := newFixture(t)
	gate := make(chan struct{})
	f.store.gates["u1"] = gate
	f.store.profiles["u1"] = model.NewUserProfile("u1", "one@campus.edu", model.RoleOrganizer)
	f.store.profiles["u2"] = model.NewUserProfile("u2", "two@campus.edu", model.RoleStudent)

	f.provider.emit("u1", true) // fetch blocks on the gate
	f.provider.emit("", false)
	f.provider.emit("u2", true)
	f.waitForMode(t, model.ModeStudentHome)

	close(gate) // u1's fetch resolves late
	time.Sleep(50 * time.Millisecond)

	st := f.coord.Current()
	assert.Equal(t, model.ModeStudentHome, st.Mode)
	require.NotNil(t, st.Profile)
	assert.Equal(t, model.Identity("u2"), st.Profile.ID)
}

func TestCoordinator_SignOutIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.store.profiles["u1"] = model.NewUserProfile("u1", "s@campus.edu", model.RoleStudent)
	f.provider.emit("u1", true)
	f.waitForMode(t, model.ModeStudentHome)

	ctx := context.Background()
	f.coord.SignOut(ctx)
	f.coord.SignOut(ctx)

	st := f.coord.Current()
	assert.Equal(t, model.ModeSignedOut, st.Mode)
	assert.Nil(t, st.Profile)
	assert.Equal(t, 2, f.provider.signOutCalls)
}

func TestCoordinator_CreateProfileReestablishes(t *testing.T) {
	f := newFixture(t)

	f.provider.emit("u1", true)
	f.waitForMode(t, model.ModeSignedOut) // no profile yet

	err := f.coord.CreateProfile(context.Background(), "u1", "new@campus.edu", model.RoleStudent)
	require.NoError(t, err)
	f.waitForMode(t, model.ModeStudentHome)
}

func TestCoordinator_PushPermissionDenied(t *testing.T) {
	f := newFixture(t)
	f.prompter.granted = false
	profile := model.NewUserProfile("u1", "s@campus.edu", model.RoleStudent)
	f.store.profiles["u1"] = profile
	f.provider.emit("u1", true)
	f.waitForMode(t, model.ModeStudentHome)

	err := f.coord.SetPushNotifications(context.Background(), true)

	var fault *model.Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, model.FaultPermissionDenied, fault.Kind)
	assert.Empty(t, f.store.pushEnabled, "denied permission must not touch the stored toggle")
	assert.False(t, f.coord.Current().Profile.PushEnabled)
}

func TestCoordinator_PushEnableRegistersAndSubscribes(t *testing.T) {
	f := newFixture(t)
	campusID := "campus-7"
	profile := model.NewUserProfile("u1", "s@campus.edu", model.RoleStudent)
	profile.CampusID = &campusID
	f.store.profiles["u1"] = profile
	f.provider.emit("u1", true)
	f.waitForMode(t, model.ModeStudentHome)

	err := f.coord.SetPushNotifications(context.Background(), true)
	require.NoError(t, err)

	require.Len(t, f.store.pushTokens, 1)
	require.NotNil(t, f.store.pushTokens[0])
	assert.Equal(t, "device-token", *f.store.pushTokens[0])
	assert.Equal(t, []bool{true}, f.store.pushEnabled)
	assert.Equal(t, []string{"device-token@campus_campus-7"}, f.registry.subscribed)
	assert.True(t, f.coord.Current().Profile.PushEnabled)
}

func TestCoordinator_PushDisableUnregisters(t *testing.T) {
	f := newFixture(t)
	campusID := "campus-7"
	profile := model.NewUserProfile("u1", "s@campus.edu", model.RoleStudent)
	profile.CampusID = &campusID
	profile.PushEnabled = true
	f.store.profiles["u1"] = profile
	f.provider.emit("u1", true)
	f.waitForMode(t, model.ModeStudentHome)

	err := f.coord.SetPushNotifications(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, f.store.pushTokens, 1)
	assert.Nil(t, f.store.pushTokens[0])
	assert.Equal(t, []bool{false}, f.store.pushEnabled)
	assert.Equal(t, []string{"device-token@campus_campus-7"}, f.registry.unsubbed)
}

func TestCoordinator_ObserverSeesTransitions(t *testing.T) {
	f := newFixture(t)
	f.store.profiles["u1"] = model.NewUserProfile("u1", "s@campus.edu", model.RoleStudent)

	var mu sync.Mutex
	var modes []model.Mode
	remove := f.coord.Observe(func(st State) {
		mu.Lock()
		defer mu.Unlock()
		modes = append(modes, st.Mode)
	})
	defer remove()

	f.provider.emit("u1", true)
	f.waitForMode(t, model.ModeStudentHome)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, model.ModeSignedOut, modes[0], "observer receives current state on registration")
	assert.Equal(t, model.ModeStudentHome, modes[len(modes)-1])
}
