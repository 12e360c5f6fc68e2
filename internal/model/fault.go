package model

// FaultKind classifies a user-facing failure so callers can branch on it
// without parsing the message. The message is presentation only.
type FaultKind string

const (
	// FaultRemote covers any document store or backend call failure.
	FaultRemote FaultKind = "remote"
	// FaultPermissionDenied is a platform notification permission refusal.
	FaultPermissionDenied FaultKind = "permission_denied"
	// FaultInvalidCredentials is a failed credential check.
	FaultInvalidCredentials FaultKind = "invalid_credentials"
	// FaultAccountNotFound means no account exists for the given email.
	FaultAccountNotFound FaultKind = "account_not_found"
	// FaultEmailTaken means the email is already registered.
	FaultEmailTaken FaultKind = "email_taken"
	// FaultWeakPassword means the password does not meet the minimum rules.
	FaultWeakPassword FaultKind = "weak_password"
	// FaultNetwork is a connectivity failure talking to a collaborator.
	FaultNetwork FaultKind = "network"
	// FaultUnknown is everything the provider could not classify.
	FaultUnknown FaultKind = "unknown"
)

// Fault is the only error type coordinators publish to the UI layer. Raw
// collaborator errors never cross the coordinator boundary.
type Fault struct {
	Kind    FaultKind
	Message string
	cause   error
}

func (f *Fault) Error() string {
	return f.Message
}

func (f *Fault) Unwrap() error {
	return f.cause
}

// NewFault builds a fault of the given kind wrapping the collaborator error.
func NewFault(kind FaultKind, message string, cause error) *Fault {
	return &Fault{Kind: kind, Message: message, cause: cause}
}

// RemoteFault wraps a failed backend call with a generic display message.
func RemoteFault(cause error) *Fault {
	return &Fault{
		Kind:    FaultRemote,
		Message: "Something went wrong. Please try again.",
		cause:   cause,
	}
}

// PermissionFault reports a refused platform notification permission. UI
// reacts to this kind by offering a link to system settings, not a retry.
func PermissionFault() *Fault {
	return &Fault{
		Kind:    FaultPermissionDenied,
		Message: "Notifications are disabled. Enable them in system settings.",
	}
}

// AsFault returns err as a *Fault, wrapping it as a remote fault when it is
// anything else.
func AsFault(err error) *Fault {
	if f, ok := err.(*Fault); ok {
		return f
	}
	return RemoteFault(err)
}
