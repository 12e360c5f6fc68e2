package model

import (
	"context"
	"fmt"
	"time"
)

// Campus is a physical location that scopes which events and promos a client
// queries for. Campuses are managed by admin tooling and read-only from the
// client's perspective.
type Campus struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zipCode"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// FullAddress renders the single-line postal address.
func (c Campus) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s %s", c.Address, c.City, c.State, c.ZipCode)
}

// CampusStore defines persistence operations for campuses.
type CampusStore interface {
	Get(ctx context.Context, id string) (Campus, error)
	// ListActive returns active campuses ordered by name. Selection lists
	// are always filtered to active campuses.
	ListActive(ctx context.Context) ([]Campus, error)
	List(ctx context.Context) ([]Campus, error)
	Create(ctx context.Context, campus Campus) (Campus, error)
	Update(ctx context.Context, campus Campus) (Campus, error)
	Deactivate(ctx context.Context, id string) error
}
