package service

import (
	"context"
	"fmt"

	"github.com/snackradar/snackradar/internal/model"
)

// Campuses exposes the read-only campus catalogue to the client.
type Campuses struct {
	campuses model.CampusStore
}

func NewCampuses(campuses model.CampusStore) *Campuses {
	return &Campuses{campuses: campuses}
}

// ListActive returns the campuses offered in selection lists.
func (s *Campuses) ListActive(ctx context.Context) ([]model.Campus, error) {
	campuses, err := s.campuses.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active campuses: %w", err)
	}
	return campuses, nil
}

// Get returns a single campus.
func (s *Campuses) Get(ctx context.Context, id string) (model.Campus, error) {
	campus, err := s.campuses.Get(ctx, id)
	if err != nil {
		return model.Campus{}, fmt.Errorf("failed to get campus: %w", err)
	}
	return campus, nil
}
