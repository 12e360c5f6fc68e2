package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snackradar/snackradar/internal/model"
	"github.com/snackradar/snackradar/internal/testutil"
)

type fakePromoStore struct {
	mu     sync.Mutex
	promos map[string]model.PromoPost
}

func newFakePromoStore() *fakePromoStore {
	return &fakePromoStore{promos: map[string]model.PromoPost{}}
}

func (s *fakePromoStore) Create(_ context.Context, p model.PromoPost) (model.PromoPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promos[p.ID] = p
	return p, nil
}

func (s *fakePromoStore) Get(_ context.Context, id string) (model.PromoPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.promos[id]
	if !ok {
		return model.PromoPost{}, model.ErrNotFound
	}
	return p, nil
}

func (s *fakePromoStore) Update(_ context.Context, p model.PromoPost) (model.PromoPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promos[p.ID] = p
	return p, nil
}

func (s *fakePromoStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.promos, id)
	return nil
}

func (s *fakePromoStore) ListByCampus(_ context.Context, campusID string) ([]model.PromoPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.PromoPost
	for _, p := range s.promos {
		if p.CampusID == campusID && p.IsApproved {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakePromoStore) ListByOrganizer(_ context.Context, organizerID model.Identity) ([]model.PromoPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.PromoPost
	for _, p := range s.promos {
		if p.OrganizerID == organizerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func newPromosService(profiles *fakeProfileStore, promos *fakePromoStore, images *fakeImageStore) *Promos {
	return NewPromos(promos, profiles, images, testutil.MakeNoopLogger())
}

func TestPromos_CreatePromo(t *testing.T) {
	profiles := newFakeProfileStore()
	profiles.profiles["org-1"] = approvedOrganizer("org-1")
	svc := newPromosService(profiles, newFakePromoStore(), &fakeImageStore{})

	saved, err := svc.CreatePromo(context.Background(), CreatePromoParams{
		OrganizerID: "org-1",
		CampusID:    "campus-1",
		Title:       "Taco Tuesday",
		Content:     "Half price all day at the union",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.True(t, saved.IsApproved)
	assert.False(t, saved.IsPinned)
}

func TestPromos_CreatePromoRejectsUnapprovedOrganizer(t *testing.T) {
	profiles := newFakeProfileStore()
	profiles.profiles["org-1"] = model.NewUserProfile("org-1", "o@campus.edu", model.RoleOrganizer)
	svc := newPromosService(profiles, newFakePromoStore(), &fakeImageStore{})

	_, err := svc.CreatePromo(context.Background(), CreatePromoParams{
		OrganizerID: "org-1",
		CampusID:    "campus-1",
		Title:       "Taco Tuesday",
	})

	var fault *model.Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, model.FaultPermissionDenied, fault.Kind)
}

func TestPromos_SetPinned(t *testing.T) {
	profiles := newFakeProfileStore()
	profiles.profiles["org-1"] = approvedOrganizer("org-1")
	promos := newFakePromoStore()
	svc := newPromosService(profiles, promos, &fakeImageStore{})
	ctx := context.Background()

	saved, err := svc.CreatePromo(ctx, CreatePromoParams{
		OrganizerID: "org-1",
		CampusID:    "campus-1",
		Title:       "Taco Tuesday",
	})
	require.NoError(t, err)

	pinned, err := svc.SetPinned(ctx, "org-1", saved.ID, true)
	require.NoError(t, err)
	assert.True(t, pinned.IsPinned)

	unpinned, err := svc.SetPinned(ctx, "org-1", saved.ID, false)
	require.NoError(t, err)
	assert.False(t, unpinned.IsPinned)
}

func TestPromos_SetPinnedRejectsForeignPromo(t *testing.T) {
	profiles := newFakeProfileStore()
	profiles.profiles["org-1"] = approvedOrganizer("org-1")
	promos := newFakePromoStore()
	svc := newPromosService(profiles, promos, &fakeImageStore{})
	ctx := context.Background()

	saved, err := svc.CreatePromo(ctx, CreatePromoParams{
		OrganizerID: "org-1",
		CampusID:    "campus-1",
		Title:       "Taco Tuesday",
	})
	require.NoError(t, err)

	_, err = svc.SetPinned(ctx, "org-2", saved.ID, true)

	var fault *model.Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, model.FaultPermissionDenied, fault.Kind)
}

func TestPromos_DeletePromoRemovesImage(t *testing.T) {
	profiles := newFakeProfileStore()
	profiles.profiles["org-1"] = approvedOrganizer("org-1")
	promos := newFakePromoStore()
	images := &fakeImageStore{}
	svc := newPromosService(profiles, promos, images)
	ctx := context.Background()

	saved, err := svc.CreatePromo(ctx, CreatePromoParams{
		OrganizerID: "org-1",
		CampusID:    "campus-1",
		Title:       "Taco Tuesday",
	})
	require.NoError(t, err)

	_, err = svc.AttachImage(ctx, "org-1", saved.ID, strings.NewReader("jpg bytes"), 9, "image/jpeg")
	require.NoError(t, err)

	require.NoError(t, svc.DeletePromo(ctx, "org-1", saved.ID))

	_, err = promos.Get(ctx, saved.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, []string{"promos/" + saved.ID}, images.removes)
}

func TestPromos_ListCampusPromos(t *testing.T) {
	profiles := newFakeProfileStore()
	profiles.profiles["org-1"] = approvedOrganizer("org-1")
	svc := newPromosService(profiles, newFakePromoStore(), &fakeImageStore{})
	ctx := context.Background()

	_, err := svc.CreatePromo(ctx, CreatePromoParams{
		OrganizerID: "org-1", CampusID: "campus-1", Title: "A",
	})
	require.NoError(t, err)
	_, err = svc.CreatePromo(ctx, CreatePromoParams{
		OrganizerID: "org-1", CampusID: "campus-2", Title: "B",
	})
	require.NoError(t, err)

	listed, err := svc.ListCampusPromos(ctx, "campus-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "A", listed[0].Title)
}
