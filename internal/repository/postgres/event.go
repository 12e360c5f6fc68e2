package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/snackradar/snackradar/internal/model"
)

var _ model.EventStore = (*EventRepository)(nil)

type EventRepository struct {
	db *Connection
}

func NewEventRepository(db *Connection) *EventRepository {
	return &EventRepository{
		db: db,
	}
}

const eventColumns = `id, title, description, campus_id, organizer_id, organizer_name,
			  location, food_type, start_time, end_time, image_url, is_approved, created_at, updated_at`

func scanEvent(row pgx.Row) (model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.CampusID, &e.OrganizerID, &e.OrganizerName,
		&e.Location, &e.FoodType, &e.StartTime, &e.EndTime, &e.ImageURL, &e.IsApproved,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *EventRepository) Create(ctx context.Context, event model.Event) (model.Event, error) {
	query := `INSERT INTO events (id, title, description, campus_id, organizer_id, organizer_name,
			  location, food_type, start_time, end_time, image_url, is_approved, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			  RETURNING ` + eventColumns

	saved, err := scanEvent(r.db.QueryRow(ctx, query,
		event.ID, event.Title, event.Description, event.CampusID, event.OrganizerID,
		event.OrganizerName, event.Location, event.FoodType, event.StartTime, event.EndTime,
		event.ImageURL, event.IsApproved, event.CreatedAt, event.UpdatedAt,
	))
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to create event: %w", err)
	}

	return saved, nil
}

func (r *EventRepository) Get(ctx context.Context, id string) (model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Event{}, model.ErrNotFound
		}
		return model.Event{}, fmt.Errorf("failed to get event by id: %w", err)
	}

	return event, nil
}

func (r *EventRepository) Update(ctx context.Context, event model.Event) (model.Event, error) {
	query := `UPDATE events
			  SET title = $2, description = $3, campus_id = $4, location = $5, food_type = $6,
			  start_time = $7, end_time = $8, image_url = $9, is_approved = $10, updated_at = now()
			  WHERE id = $1
			  RETURNING ` + eventColumns

	saved, err := scanEvent(r.db.QueryRow(ctx, query,
		event.ID, event.Title, event.Description, event.CampusID, event.Location,
		event.FoodType, event.StartTime, event.EndTime, event.ImageURL, event.IsApproved,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Event{}, model.ErrNotFound
		}
		return model.Event{}, fmt.Errorf("failed to update event: %w", err)
	}

	return saved, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *EventRepository) ListByCampus(ctx context.Context, campusID string) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
			  WHERE campus_id = $1 AND is_approved
			  ORDER BY start_time`
	return r.list(ctx, query, campusID)
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID model.Identity) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
			  WHERE organizer_id = $1
			  ORDER BY start_time DESC`
	return r.list(ctx, query, organizerID)
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]model.Event, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	return events, nil
}
