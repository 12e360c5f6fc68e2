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
	"github.com/snackradar/snackradar/internal/push"
)

// imageEntityEvent is the image store entity kind for event images.
const imageEntityEvent = "events"

// Events owns the organizer-facing event lifecycle and the student-facing
// campus listing.
type Events struct {
	events   model.EventStore
	profiles model.ProfileStore
	images   model.ImageStore
	registry model.PushRegistry
	logger   *logger.Logger
}

func NewEvents(
	events model.EventStore,
	profiles model.ProfileStore,
	images model.ImageStore,
	registry model.PushRegistry,
	logger *logger.Logger,
) *Events {
	return &Events{
		events:   events,
		profiles: profiles,
		images:   images,
		registry: registry,
		logger:   logger,
	}
}

// CreateEventParams carries the organizer's form input.
type CreateEventParams struct {
	OrganizerID model.Identity
	CampusID    string
	Title       string
	Description string
	Location    string
	FoodType    model.FoodType
	StartTime   time.Time
	EndTime     time.Time
}

// CreateEvent stores a new event for an approved organizer and notifies the
// campus topic. Students and unapproved organizers are refused.
func (s *Events) CreateEvent(ctx context.Context, params CreateEventParams) (model.Event, error) {
	organizer, err := s.profiles.Get(ctx, params.OrganizerID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Event{}, model.RemoteFault(err)
	}
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to get organizer profile: %w", err)
	}

	if organizer.Role != model.RoleOrganizer || !organizer.IsApproved {
		return model.Event{}, model.NewFault(model.FaultPermissionDenied,
			"Only approved organizers can create events.", nil)
	}

	if !params.EndTime.After(params.StartTime) {
		return model.Event{}, model.NewFault(model.FaultUnknown,
			"The event must end after it starts.", nil)
	}

	now := time.Now()
	event := model.Event{
		ID:            uuid.NewString(),
		Title:         params.Title,
		Description:   params.Description,
		CampusID:      params.CampusID,
		OrganizerID:   organizer.ID,
		OrganizerName: organizer.Email,
		Location:      params.Location,
		FoodType:      params.FoodType,
		StartTime:     params.StartTime,
		EndTime:       params.EndTime,
		IsApproved:    true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	saved, err := s.events.Create(ctx, event)
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to save event: %w", err)
	}

	s.notifyCampus(ctx, saved.CampusID, "new_event", saved.ID)
	return saved, nil
}

// AttachImage uploads the event's image and stores its URL on the event.
func (s *Events) AttachImage(ctx context.Context, organizerID model.Identity, eventID string, reader io.Reader, size int64, contentType string) (model.Event, error) {
	event, err := s.ownedEvent(ctx, organizerID, eventID)
	if err != nil {
		return model.Event{}, err
	}

	url, err := s.images.Put(ctx, imageEntityEvent, event.ID, reader, size, contentType)
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to upload event image: %w", err)
	}

	event.ImageURL = &url
	saved, err := s.events.Update(ctx, event)
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to store event image url: %w", err)
	}

	return saved, nil
}

// UpdateEvent applies an organizer's edit to their own event and notifies
// the campus topic about the change.
func (s *Events) UpdateEvent(ctx context.Context, organizerID model.Identity, event model.Event) (model.Event, error) {
	if _, err := s.ownedEvent(ctx, organizerID, event.ID); err != nil {
		return model.Event{}, err
	}

	saved, err := s.events.Update(ctx, event)
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to update event: %w", err)
	}

	s.notifyCampus(ctx, saved.CampusID, "event_update", saved.ID)
	return saved, nil
}

// DeleteEvent removes an organizer's own event; the image removal is best
// effort.
func (s *Events) DeleteEvent(ctx context.Context, organizerID model.Identity, eventID string) error {
	event, err := s.ownedEvent(ctx, organizerID, eventID)
	if err != nil {
		return err
	}

	if err := s.events.Delete(ctx, event.ID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if event.ImageURL != nil {
		if err := s.images.Remove(ctx, imageEntityEvent, event.ID); err != nil {
			s.logger.Error("events service: failed to remove event image",
				"event_id", event.ID,
				"error", err.Error())
		}
	}

	return nil
}

// ListCampusEvents returns approved events scoped to a campus, optionally
// filtered to a derived status.
func (s *Events) ListCampusEvents(ctx context.Context, campusID string, status *model.EventStatus) ([]model.Event, error) {
	events, err := s.events.ListByCampus(ctx, campusID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campus events: %w", err)
	}
	if status == nil {
		return events, nil
	}

	now := time.Now()
	filtered := events[:0]
	for _, event := range events {
		if event.Status(now) == *status {
			filtered = append(filtered, event)
		}
	}
	return filtered, nil
}

// ListOrganizerEvents returns all of an organizer's events, newest first.
func (s *Events) ListOrganizerEvents(ctx context.Context, organizerID model.Identity) ([]model.Event, error) {
	events, err := s.events.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizer events: %w", err)
	}
	return events, nil
}

func (s *Events) ownedEvent(ctx context.Context, organizerID model.Identity, eventID string) (model.Event, error) {
	event, err := s.events.Get(ctx, eventID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Event{}, model.ErrNotFound
	}
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to get event by id: %w", err)
	}

	if event.OrganizerID != organizerID {
		return model.Event{}, model.NewFault(model.FaultPermissionDenied,
			"You can only manage your own events.", nil)
	}

	return event, nil
}

// notifyCampus fans an event notification out to the campus topic. Payload
// formatting and transport delivery belong to the push provider; this logs
// the fanout for the delivery pipeline.
func (s *Events) notifyCampus(ctx context.Context, campusID, kind, eventID string) {
	topic := push.CampusTopic(campusID)
	tokens, err := s.registry.TopicTokens(ctx, topic)
	if err != nil {
		s.logger.Error("events service: failed to list topic tokens",
			"topic", topic,
			"error", err.Error())
		return
	}

	s.logger.Info("events service: campus notification queued",
		"topic", topic,
		"kind", kind,
		"event_id", eventID,
		"recipients", len(tokens))
}
