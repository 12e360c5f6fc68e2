package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/snackradar/snackradar/internal/logger"
	"github.com/snackradar/snackradar/internal/model"
)

var _ model.ProfileStore = (*ProfileRepository)(nil)

// ProfileRepository persists user profiles. Every successful write publishes
// the fresh document so live subscribers observe it; the publish is best
// effort because the write itself is already durable.
type ProfileRepository struct {
	db        *Connection
	publisher model.ProfilePublisher
	logger    *logger.Logger
}

func NewProfileRepository(db *Connection, publisher model.ProfilePublisher, logger *logger.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:        db,
		publisher: publisher,
		logger:    logger,
	}
}

const profileColumns = `id, email, role, campus_id, push_token, push_enabled,
			  is_approved, role_upgrade_requested, social_links, created_at`

func scanProfile(row pgx.Row) (model.UserProfile, error) {
	var p model.UserProfile
	var links []byte

	err := row.Scan(
		&p.ID, &p.Email, &p.Role, &p.CampusID, &p.PushToken, &p.PushEnabled,
		&p.IsApproved, &p.RoleUpgradeRequested, &links, &p.CreatedAt,
	)
	if err != nil {
		return model.UserProfile{}, err
	}

	if len(links) > 0 {
		p.SocialLinks = &model.SocialLinks{}
		if err := json.Unmarshal(links, p.SocialLinks); err != nil {
			return model.UserProfile{}, fmt.Errorf("failed to decode social links: %w", err)
		}
	}

	return p, nil
}

func encodeLinks(links *model.SocialLinks) ([]byte, error) {
	if links == nil {
		return nil, nil
	}
	data, err := json.Marshal(links)
	if err != nil {
		return nil, fmt.Errorf("failed to encode social links: %w", err)
	}
	return data, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile model.UserProfile) (model.UserProfile, error) {
	links, err := encodeLinks(profile.SocialLinks)
	if err != nil {
		return model.UserProfile{}, err
	}

	query := `INSERT INTO profiles (id, email, role, campus_id, push_token, push_enabled,
			  is_approved, role_upgrade_requested, social_links, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING ` + profileColumns

	saved, err := scanProfile(r.db.QueryRow(ctx, query,
		profile.ID, profile.Email, profile.Role, profile.CampusID, profile.PushToken,
		profile.PushEnabled, profile.IsApproved, profile.RoleUpgradeRequested, links,
		profile.CreatedAt,
	))
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("failed to create profile: %w", err)
	}

	r.publish(ctx, saved)
	return saved, nil
}

func (r *ProfileRepository) Get(ctx context.Context, id model.Identity) (model.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	profile, err := scanProfile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UserProfile{}, model.ErrNotFound
		}
		return model.UserProfile{}, fmt.Errorf("failed to get profile by id: %w", err)
	}

	return profile, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile model.UserProfile) (model.UserProfile, error) {
	links, err := encodeLinks(profile.SocialLinks)
	if err != nil {
		return model.UserProfile{}, err
	}

	query := `UPDATE profiles
			  SET email = $2, role = $3, campus_id = $4, push_token = $5, push_enabled = $6,
			  is_approved = $7, role_upgrade_requested = $8, social_links = $9
			  WHERE id = $1
			  RETURNING ` + profileColumns

	saved, err := scanProfile(r.db.QueryRow(ctx, query,
		profile.ID, profile.Email, profile.Role, profile.CampusID, profile.PushToken,
		profile.PushEnabled, profile.IsApproved, profile.RoleUpgradeRequested, links,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UserProfile{}, model.ErrNotFound
		}
		return model.UserProfile{}, fmt.Errorf("failed to update profile: %w", err)
	}

	r.publish(ctx, saved)
	return saved, nil
}

func (r *ProfileRepository) UpdateCampus(ctx context.Context, id model.Identity, campusID *string) error {
	query := `UPDATE profiles SET campus_id = $2 WHERE id = $1
			  RETURNING ` + profileColumns

	saved, err := scanProfile(r.db.QueryRow(ctx, query, id, campusID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to update profile campus: %w", err)
	}

	r.publish(ctx, saved)
	return nil
}

func (r *ProfileRepository) UpdatePushToken(ctx context.Context, id model.Identity, pushToken *string) error {
	query := `UPDATE profiles SET push_token = $2 WHERE id = $1
			  RETURNING ` + profileColumns

	saved, err := scanProfile(r.db.QueryRow(ctx, query, id, pushToken))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to update profile push token: %w", err)
	}

	r.publish(ctx, saved)
	return nil
}

func (r *ProfileRepository) SetPushEnabled(ctx context.Context, id model.Identity, enabled bool) error {
	query := `UPDATE profiles SET push_enabled = $2 WHERE id = $1
			  RETURNING ` + profileColumns

	saved, err := scanProfile(r.db.QueryRow(ctx, query, id, enabled))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to update profile push flag: %w", err)
	}

	r.publish(ctx, saved)
	return nil
}

func (r *ProfileRepository) publish(ctx context.Context, profile model.UserProfile) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.PublishProfile(ctx, profile); err != nil {
		r.logger.Error("profile repository: failed to publish update",
			"identity", profile.ID,
			"error", err.Error())
	}
}
