package session

import "github.com/snackradar/snackradar/internal/model"

// ModeFor maps a profile's role and approval flag to the client mode. This
// is the single place routing logic lives; it is total and side-effect-free.
// Students are routed home regardless of the approval flag, organizers wait
// on approval.
func ModeFor(role model.Role, isApproved bool) model.Mode {
	switch role {
	case model.RoleOrganizer:
		if isApproved {
			return model.ModeOrganizerHome
		}
		return model.ModeOrganizerPendingApproval
	default:
		return model.ModeStudentHome
	}
}
