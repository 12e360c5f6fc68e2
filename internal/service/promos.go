package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/snackradar/snackradar/internal/logger"
	"github.com/snackradar/snackradar/internal/model"
)

// imageEntityPromo is the image store entity kind for promo images.
const imageEntityPromo = "promos"

// Promos owns the promotional post lifecycle.
type Promos struct {
	promos   model.PromoStore
	profiles model.ProfileStore
	images   model.ImageStore
	logger   *logger.Logger
}

func NewPromos(
	promos model.PromoStore,
	profiles model.ProfileStore,
	images model.ImageStore,
	logger *logger.Logger,
) *Promos {
	return &Promos{
		promos:   promos,
		profiles: profiles,
		images:   images,
		logger:   logger,
	}
}

// CreatePromoParams carries the organizer's form input.
type CreatePromoParams struct {
	OrganizerID model.Identity
	CampusID    string
	Title       string
	Content     string
}

// CreatePromo stores a new promo for an approved organizer.
func (s *Promos) CreatePromo(ctx context.Context, params CreatePromoParams) (model.PromoPost, error) {
	organizer, err := s.profiles.Get(ctx, params.OrganizerID)
	if errors.Is(err, model.ErrNotFound) {
		return model.PromoPost{}, model.RemoteFault(err)
	}
	if err != nil {
		return model.PromoPost{}, fmt.Errorf("failed to get organizer profile: %w", err)
	}

	if organizer.Role != model.RoleOrganizer || !organizer.IsApproved {
		return model.PromoPost{}, model.NewFault(model.FaultPermissionDenied,
			"Only approved organizers can create promos.", nil)
	}

	now := time.Now()
	promo := model.PromoPost{
		ID:            uuid.NewString(),
		Title:         params.Title,
		Content:       params.Content,
		CampusID:      params.CampusID,
		OrganizerID:   organizer.ID,
		OrganizerName: organizer.Email,
		IsApproved:    true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	saved, err := s.promos.Create(ctx, promo)
	if err != nil {
		return model.PromoPost{}, fmt.Errorf("failed to save promo: %w", err)
	}

	return saved, nil
}

// AttachImage uploads the promo's image and stores its URL.
func (s *Promos) AttachImage(ctx context.Context, organizerID model.Identity, promoID string, reader io.Reader, size int64, contentType string) (model.PromoPost, error) {
	promo, err := s.ownedPromo(ctx, organizerID, promoID)
	if err != nil {
		return model.PromoPost{}, err
	}

	url, err := s.images.Put(ctx, imageEntityPromo, promo.ID, reader, size, contentType)
	if err != nil {
		return model.PromoPost{}, fmt.Errorf("failed to upload promo image: %w", err)
	}

	promo.ImageURL = &url
	saved, err := s.promos.Update(ctx, promo)
	if err != nil {
		return model.PromoPost{}, fmt.Errorf("failed to store promo image url: %w", err)
	}

	return saved, nil
}

// SetPinned pins or unpins an organizer's own promo.
func (s *Promos) SetPinned(ctx context.Context, organizerID model.Identity, promoID string, pinned bool) (model.PromoPost, error) {
	promo, err := s.ownedPromo(ctx, organizerID, promoID)
	if err != nil {
		return model.PromoPost{}, err
	}

	promo.IsPinned = pinned
	saved, err := s.promos.Update(ctx, promo)
	if err != nil {
		return model.PromoPost{}, fmt.Errorf("failed to update promo: %w", err)
	}

	return saved, nil
}

// DeletePromo removes an organizer's own promo; image removal is best
// effort.
func (s *Promos) DeletePromo(ctx context.Context, organizerID model.Identity, promoID string) error {
	promo, err := s.ownedPromo(ctx, organizerID, promoID)
	if err != nil {
		return err
	}

	if err := s.promos.Delete(ctx, promo.ID); err != nil {
		return fmt.Errorf("failed to delete promo: %w", err)
	}

	if promo.ImageURL != nil {
		if err := s.images.Remove(ctx, imageEntityPromo, promo.ID); err != nil {
			s.logger.Error("promos service: failed to remove promo image",
				"promo_id", promo.ID,
				"error", err.Error())
		}
	}

	return nil
}

// ListCampusPromos returns approved promos scoped to a campus, pinned first.
func (s *Promos) ListCampusPromos(ctx context.Context, campusID string) ([]model.PromoPost, error) {
	promos, err := s.promos.ListByCampus(ctx, campusID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campus promos: %w", err)
	}
	return promos, nil
}

func (s *Promos) ownedPromo(ctx context.Context, organizerID model.Identity, promoID string) (model.PromoPost, error) {
	promo, err := s.promos.Get(ctx, promoID)
	if errors.Is(err, model.ErrNotFound) {
		return model.PromoPost{}, model.ErrNotFound
	}
	if err != nil {
		return model.PromoPost{}, fmt.Errorf("failed to get promo by id: %w", err)
	}

	if promo.OrganizerID != organizerID {
		return model.PromoPost{}, model.NewFault(model.FaultPermissionDenied,
			"You can only manage your own promos.", nil)
	}

	return promo, nil
}
