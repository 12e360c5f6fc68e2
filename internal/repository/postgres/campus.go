package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/snackradar/snackradar/internal/model"
)

var _ model.CampusStore = (*CampusRepository)(nil)

type CampusRepository struct {
	db *Connection
}

func NewCampusRepository(db *Connection) *CampusRepository {
	return &CampusRepository{
		db: db,
	}
}

const campusColumns = `id, name, address, city, state, zip_code, latitude, longitude, is_active, created_at`

func scanCampus(row pgx.Row) (model.Campus, error) {
	var c model.Campus
	err := row.Scan(
		&c.ID, &c.Name, &c.Address, &c.City, &c.State, &c.ZipCode,
		&c.Latitude, &c.Longitude, &c.IsActive, &c.CreatedAt,
	)
	return c, err
}

func (r *CampusRepository) Get(ctx context.Context, id string) (model.Campus, error) {
	query := `SELECT ` + campusColumns + ` FROM campuses WHERE id = $1`

	campus, err := scanCampus(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Campus{}, model.ErrNotFound
		}
		return model.Campus{}, fmt.Errorf("failed to get campus by id: %w", err)
	}

	return campus, nil
}

func (r *CampusRepository) ListActive(ctx context.Context) ([]model.Campus, error) {
	query := `SELECT ` + campusColumns + ` FROM campuses WHERE is_active ORDER BY name`
	return r.list(ctx, query)
}

func (r *CampusRepository) List(ctx context.Context) ([]model.Campus, error) {
	query := `SELECT ` + campusColumns + ` FROM campuses ORDER BY name`
	return r.list(ctx, query)
}

func (r *CampusRepository) list(ctx context.Context, query string, args ...any) ([]model.Campus, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list campuses: %w", err)
	}
	defer rows.Close()

	var campuses []model.Campus
	for rows.Next() {
		campus, err := scanCampus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campus: %w", err)
		}
		campuses = append(campuses, campus)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read campuses: %w", err)
	}

	return campuses, nil
}

func (r *CampusRepository) Create(ctx context.Context, campus model.Campus) (model.Campus, error) {
	query := `INSERT INTO campuses (id, name, address, city, state, zip_code, latitude, longitude, is_active, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING ` + campusColumns

	saved, err := scanCampus(r.db.QueryRow(ctx, query,
		campus.ID, campus.Name, campus.Address, campus.City, campus.State, campus.ZipCode,
		campus.Latitude, campus.Longitude, campus.IsActive, campus.CreatedAt,
	))
	if err != nil {
		return model.Campus{}, fmt.Errorf("failed to create campus: %w", err)
	}

	return saved, nil
}

func (r *CampusRepository) Update(ctx context.Context, campus model.Campus) (model.Campus, error) {
	query := `UPDATE campuses
			  SET name = $2, address = $3, city = $4, state = $5, zip_code = $6,
			  latitude = $7, longitude = $8, is_active = $9
			  WHERE id = $1
			  RETURNING ` + campusColumns

	saved, err := scanCampus(r.db.QueryRow(ctx, query,
		campus.ID, campus.Name, campus.Address, campus.City, campus.State, campus.ZipCode,
		campus.Latitude, campus.Longitude, campus.IsActive,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Campus{}, model.ErrNotFound
		}
		return model.Campus{}, fmt.Errorf("failed to update campus: %w", err)
	}

	return saved, nil
}

func (r *CampusRepository) Deactivate(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE campuses SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate campus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
