package model

import (
	"context"
	"time"
)

// EventStatus is derived from the clock, never stored.
type EventStatus string

const (
	EventUpcoming EventStatus = "upcoming"
	EventLive     EventStatus = "live"
	EventExpired  EventStatus = "expired"
)

// DisplayName returns the human-readable status name.
func (s EventStatus) DisplayName() string {
	switch s {
	case EventLive:
		return "Live"
	case EventExpired:
		return "Expired"
	default:
		return "Upcoming"
	}
}

// CalculateStatus derives an event's status from its time window.
func CalculateStatus(start, end, now time.Time) EventStatus {
	switch {
	case now.Before(start):
		return EventUpcoming
	case now.After(end):
		return EventExpired
	default:
		return EventLive
	}
}

// FoodType enumerates the food categories an event can advertise.
type FoodType string

const (
	FoodPizza      FoodType = "pizza"
	FoodSandwiches FoodType = "sandwiches"
	FoodSalads     FoodType = "salads"
	FoodDesserts   FoodType = "desserts"
	FoodBeverages  FoodType = "beverages"
	FoodSnacks     FoodType = "snacks"
	FoodBreakfast  FoodType = "breakfast"
	FoodLunch      FoodType = "lunch"
	FoodDinner     FoodType = "dinner"
	FoodOther      FoodType = "other"
)

// FoodTypes lists all categories in display order.
func FoodTypes() []FoodType {
	return []FoodType{
		FoodPizza, FoodSandwiches, FoodSalads, FoodDesserts, FoodBeverages,
		FoodSnacks, FoodBreakfast, FoodLunch, FoodDinner, FoodOther,
	}
}

// Event is a campus food event created by an approved organizer.
type Event struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	CampusID      string    `json:"campusId"`
	OrganizerID   Identity  `json:"organizerId"`
	OrganizerName string    `json:"organizerName"`
	Location      string    `json:"location"`
	FoodType      FoodType  `json:"foodType"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	ImageURL      *string   `json:"imageUrl,omitempty"`
	IsApproved    bool      `json:"isApproved"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Status derives the event's current status.
func (e Event) Status(now time.Time) EventStatus {
	return CalculateStatus(e.StartTime, e.EndTime, now)
}

// EventStore defines persistence operations for events.
type EventStore interface {
	Create(ctx context.Context, event Event) (Event, error)
	Get(ctx context.Context, id string) (Event, error)
	Update(ctx context.Context, event Event) (Event, error)
	Delete(ctx context.Context, id string) error
	// ListByCampus returns approved events for a campus ordered by start time.
	ListByCampus(ctx context.Context, campusID string) ([]Event, error)
	ListByOrganizer(ctx context.Context, organizerID Identity) ([]Event, error)
}
