package model

import (
	"context"
	"time"
)

// Identity is the opaque handle of an authenticated user.
type Identity string

// Role enumerates user roles.
type Role string

const (
	// RoleStudent is a regular event-discovering user.
	RoleStudent Role = "student"
	// RoleOrganizer can create events and promos once approved.
	RoleOrganizer Role = "organizer"
)

// DisplayName returns the human-readable role name.
func (r Role) DisplayName() string {
	switch r {
	case RoleOrganizer:
		return "Organizer"
	default:
		return "Student"
	}
}

// SocialLinks holds an organizer's optional public links.
type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedIn,omitempty"`
	Website   string `json:"website,omitempty"`
}

// IsEmpty reports whether no link is set.
func (s SocialLinks) IsEmpty() bool {
	return s == SocialLinks{}
}

// UserProfile is the backend-stored record describing a user's role, campus
// and approval status. Students are always approved; organizers start
// unapproved and stay so until resolved by admin tooling.
type UserProfile struct {
	ID                   Identity     `json:"uid"`
	Email                string       `json:"email"`
	Role                 Role         `json:"userRole"`
	CampusID             *string      `json:"campusId,omitempty"`
	PushToken            *string      `json:"pushToken,omitempty"`
	PushEnabled          bool         `json:"notificationsEnabled"`
	IsApproved           bool         `json:"isApproved"`
	RoleUpgradeRequested bool         `json:"roleUpgradeRequested"`
	SocialLinks          *SocialLinks `json:"socialLinks,omitempty"`
	CreatedAt            time.Time    `json:"createdAt"`
}

// NewUserProfile builds a profile for a freshly signed-up user. The approval
// flag is forced by role: students are approved immediately, organizers wait
// for admin approval.
func NewUserProfile(id Identity, email string, role Role) UserProfile {
	return UserProfile{
		ID:         id,
		Email:      email,
		Role:       role,
		IsApproved: role == RoleStudent,
		CreatedAt:  time.Now(),
	}
}

// Campus returns the profile's campus id, or "" when none is embedded.
func (p UserProfile) Campus() string {
	if p.CampusID == nil {
		return ""
	}
	return *p.CampusID
}

// ProfileStore defines persistence operations for user profiles.
type ProfileStore interface {
	Create(ctx context.Context, profile UserProfile) (UserProfile, error)
	Get(ctx context.Context, id Identity) (UserProfile, error)
	Update(ctx context.Context, profile UserProfile) (UserProfile, error)
	// UpdateCampus sets the profile's campus field. A nil campusID clears it.
	UpdateCampus(ctx context.Context, id Identity, campusID *string) error
	// UpdatePushToken sets the remotely stored device token. Nil removes it.
	UpdatePushToken(ctx context.Context, id Identity, token *string) error
	SetPushEnabled(ctx context.Context, id Identity, enabled bool) error
}

// ProfileWatcher delivers live updates for a single profile document.
// Deliveries arrive in the backing store's natural order; last wins. The
// returned cancel func is idempotent and closes the channel.
type ProfileWatcher interface {
	Watch(ctx context.Context, id Identity) (<-chan UserProfile, func(), error)
}

// ProfilePublisher is the write-side half of ProfileWatcher: stores publish
// the fresh document after each successful write.
type ProfilePublisher interface {
	PublishProfile(ctx context.Context, profile UserProfile) error
}
