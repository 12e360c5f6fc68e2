package campus

import (
	"context"
	"sync"

	"github.com/snackradar/snackradar/internal/logger"
	"github.com/snackradar/snackradar/internal/model"
)

// SelectedCampusKey is the preference store key holding the campus id.
const SelectedCampusKey = "selectedCampusId"

// Selection is the campus scope published to observers.
type Selection struct {
	CampusID string
	Campus   *model.Campus
}

// Observer receives selection snapshots, serialized with changes.
type Observer func(Selection)

// Coordinator is the single source of which campus the client is scoped to.
// The local selection is optimistic and authoritative for this device's
// session; the profile's campus field is the cross-device source of truth
// and overwrites local state when they diverge.
type Coordinator struct {
	prefs    model.PreferenceStore
	campuses model.CampusStore
	profiles model.ProfileStore
	identity func() (model.Identity, bool)
	logger   *logger.Logger

	mu        sync.Mutex
	campusID  string
	campus    *model.Campus
	observers map[int]Observer
	nextObs   int
}

// NewCoordinator builds a campus selection coordinator. The identity func
// reports the currently signed-in identity so remote propagation can be
// skipped when nobody is signed in.
func NewCoordinator(
	prefs model.PreferenceStore,
	campuses model.CampusStore,
	profiles model.ProfileStore,
	identity func() (model.Identity, bool),
	logger *logger.Logger,
) *Coordinator {
	return &Coordinator{
		prefs:     prefs,
		campuses:  campuses,
		profiles:  profiles,
		identity:  identity,
		logger:    logger,
		observers: map[int]Observer{},
	}
}

// LoadCached restores a persisted selection at cold start, before any
// identity resolves, so listings have a scope to render. The detail fetch is
// best effort; the id alone is enough to scope queries.
func (c *Coordinator) LoadCached(ctx context.Context) {
	id, ok := c.prefs.Get(SelectedCampusKey)
	if !ok || id == "" {
		return
	}

	c.mu.Lock()
	c.campusID = id
	c.notifyLocked()
	c.mu.Unlock()

	c.fetchDetail(ctx, id)
}

// Observe registers an observer and returns its removal func. The observer
// immediately receives the current selection.
func (c *Coordinator) Observe(fn Observer) (remove func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	fn(c.selectionLocked())

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
	}
}

// Selected returns the current selection.
func (c *Coordinator) Selected() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectionLocked()
}

// HasSelection reports whether a campus is selected.
func (c *Coordinator) HasSelection() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.campusID != ""
}

// Select sets the selection by id: local state and persistence first, then
// the detail fetch and the profile write. Remote failure never rolls the
// local selection back.
func (c *Coordinator) Select(ctx context.Context, campusID string) {
	c.mu.Lock()
	c.campusID = campusID
	c.campus = nil
	c.persistLocked(campusID)
	c.notifyLocked()
	c.mu.Unlock()

	c.fetchDetail(ctx, campusID)
	c.propagate(ctx, &campusID)
}

// SelectCampus is Select for a fully known record; the detail fetch is
// skipped.
func (c *Coordinator) SelectCampus(ctx context.Context, campus model.Campus) {
	c.mu.Lock()
	c.campusID = campus.ID
	c.campus = &campus
	c.persistLocked(campus.ID)
	c.notifyLocked()
	c.mu.Unlock()

	c.propagate(ctx, &campus.ID)
}

// Clear drops the local selection and best-effort clears the profile field.
func (c *Coordinator) Clear(ctx context.Context) {
	c.mu.Lock()
	c.campusID = ""
	c.campus = nil
	if err := c.prefs.Remove(SelectedCampusKey); err != nil {
		c.logger.Error("campus: failed to clear persisted selection", "error", err.Error())
	}
	c.notifyLocked()
	c.mu.Unlock()

	c.propagate(ctx, nil)
}

// SyncFromProfile reconciles the selection against a freshly observed
// profile. A non-empty campus field differing from the local selection wins;
// an absent field leaves local state untouched.
func (c *Coordinator) SyncFromProfile(ctx context.Context, profile model.UserProfile) {
	remote := profile.Campus()
	if remote == "" {
		return
	}

	c.mu.Lock()
	if remote == c.campusID {
		c.mu.Unlock()
		return
	}
	c.campusID = remote
	c.campus = nil
	c.persistLocked(remote)
	c.notifyLocked()
	c.mu.Unlock()

	c.fetchDetail(ctx, remote)
}

func (c *Coordinator) persistLocked(campusID string) {
	if err := c.prefs.Set(SelectedCampusKey, campusID); err != nil {
		c.logger.Error("campus: failed to persist selection", "campus_id", campusID, "error", err.Error())
	}
}

// fetchDetail populates the cached campus record for the selected id. The
// result is dropped if the selection moved on while the fetch was in flight.
func (c *Coordinator) fetchDetail(ctx context.Context, campusID string) {
	campus, err := c.campuses.Get(ctx, campusID)
	if err != nil {
		c.logger.Error("campus: failed to fetch campus details", "campus_id", campusID, "error", err.Error())
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.campusID != campusID {
		return
	}
	c.campus = &campus
	c.notifyLocked()
}

// propagate writes the selection to the signed-in profile. nil clears the
// field. Best effort: failures are logged, never surfaced or rolled back.
func (c *Coordinator) propagate(ctx context.Context, campusID *string) {
	id, ok := c.identity()
	if !ok {
		return
	}

	if err := c.profiles.UpdateCampus(ctx, id, campusID); err != nil {
		c.logger.Error("campus: failed to propagate selection to profile", "identity", id, "error", err.Error())
	}
}

func (c *Coordinator) selectionLocked() Selection {
	return Selection{CampusID: c.campusID, Campus: c.campus}
}

func (c *Coordinator) notifyLocked() {
	sel := c.selectionLocked()
	for _, fn := range c.observers {
		fn(sel)
	}
}
