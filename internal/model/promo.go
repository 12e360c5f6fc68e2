package model

import (
	"context"
	"time"
)

// PromoPost is an organizer's promotional post scoped to a campus.
type PromoPost struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	ImageURL      *string   `json:"imageUrl,omitempty"`
	CampusID      string    `json:"campusId"`
	OrganizerID   Identity  `json:"organizerId"`
	OrganizerName string    `json:"organizerName"`
	IsApproved    bool      `json:"isApproved"`
	IsPinned      bool      `json:"isPinned"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PromoStore defines persistence operations for promo posts.
type PromoStore interface {
	Create(ctx context.Context, promo PromoPost) (PromoPost, error)
	Get(ctx context.Context, id string) (PromoPost, error)
	Update(ctx context.Context, promo PromoPost) (PromoPost, error)
	Delete(ctx context.Context, id string) error
	// ListByCampus returns approved promos for a campus, pinned first,
	// newest first within each group.
	ListByCampus(ctx context.Context, campusID string) ([]PromoPost, error)
	ListByOrganizer(ctx context.Context, organizerID Identity) ([]PromoPost, error)
}
