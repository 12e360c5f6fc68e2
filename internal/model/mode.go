package model

// Mode selects which top-level screen/flow the client shows. It is derived
// state, never stored.
type Mode string

const (
	// ModeLoading is the initial state before auth resolves.
	ModeLoading Mode = "loading"
	// ModeSignedOut shows the login flow. Also the fail-closed state: the
	// client never shows content with a stale or unknown profile.
	ModeSignedOut                Mode = "signed_out"
	ModeStudentHome              Mode = "student_home"
	ModeOrganizerHome            Mode = "organizer_home"
	ModeOrganizerPendingApproval Mode = "organizer_pending_approval"
)
