package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/snackradar/snackradar/internal/model"
)

var _ model.PromoStore = (*PromoRepository)(nil)

type PromoRepository struct {
	db *Connection
}

func NewPromoRepository(db *Connection) *PromoRepository {
	return &PromoRepository{
		db: db,
	}
}

const promoColumns = `id, title, content, image_url, campus_id, organizer_id, organizer_name,
			  is_approved, is_pinned, created_at, updated_at`

func scanPromo(row pgx.Row) (model.PromoPost, error) {
	var p model.PromoPost
	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.ImageURL, &p.CampusID, &p.OrganizerID,
		&p.OrganizerName, &p.IsApproved, &p.IsPinned, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *PromoRepository) Create(ctx context.Context, promo model.PromoPost) (model.PromoPost, error) {
	query := `INSERT INTO promos (id, title, content, image_url, campus_id, organizer_id, organizer_name,
			  is_approved, is_pinned, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING ` + promoColumns

	saved, err := scanPromo(r.db.QueryRow(ctx, query,
		promo.ID, promo.Title, promo.Content, promo.ImageURL, promo.CampusID,
		promo.OrganizerID, promo.OrganizerName, promo.IsApproved, promo.IsPinned,
		promo.CreatedAt, promo.UpdatedAt,
	))
	if err != nil {
		return model.PromoPost{}, fmt.Errorf("failed to create promo: %w", err)
	}

	return saved, nil
}

func (r *PromoRepository) Get(ctx context.Context, id string) (model.PromoPost, error) {
	query := `SELECT ` + promoColumns + ` FROM promos WHERE id = $1`

	promo, err := scanPromo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PromoPost{}, model.ErrNotFound
		}
		return model.PromoPost{}, fmt.Errorf("failed to get promo by id: %w", err)
	}

	return promo, nil
}

func (r *PromoRepository) Update(ctx context.Context, promo model.PromoPost) (model.PromoPost, error) {
	query := `UPDATE promos
			  SET title = $2, content = $3, image_url = $4, campus_id = $5,
			  is_approved = $6, is_pinned = $7, updated_at = now()
			  WHERE id = $1
			  RETURNING ` + promoColumns

	saved, err := scanPromo(r.db.QueryRow(ctx, query,
		promo.ID, promo.Title, promo.Content, promo.ImageURL, promo.CampusID,
		promo.IsApproved, promo.IsPinned,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PromoPost{}, model.ErrNotFound
		}
		return model.PromoPost{}, fmt.Errorf("failed to update promo: %w", err)
	}

	return saved, nil
}

func (r *PromoRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM promos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete promo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *PromoRepository) ListByCampus(ctx context.Context, campusID string) ([]model.PromoPost, error) {
	query := `SELECT ` + promoColumns + ` FROM promos
			  WHERE campus_id = $1 AND is_approved
			  ORDER BY is_pinned DESC, created_at DESC`
	return r.list(ctx, query, campusID)
}

func (r *PromoRepository) ListByOrganizer(ctx context.Context, organizerID model.Identity) ([]model.PromoPost, error) {
	query := `SELECT ` + promoColumns + ` FROM promos
			  WHERE organizer_id = $1
			  ORDER BY created_at DESC`
	return r.list(ctx, query, organizerID)
}

func (r *PromoRepository) list(ctx context.Context, query string, args ...any) ([]model.PromoPost, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list promos: %w", err)
	}
	defer rows.Close()

	var promos []model.PromoPost
	for rows.Next() {
		promo, err := scanPromo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan promo: %w", err)
		}
		promos = append(promos, promo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read promos: %w", err)
	}

	return promos, nil
}
