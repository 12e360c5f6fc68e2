package push

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/snackradar/snackradar/internal/model"
)

const deviceTokenKey = "deviceToken"

var _ model.DeviceTokenSource = (*TokenSource)(nil)

// TokenSource mints a device token on first use and keeps it in the local
// preference store so the same token is re-registered across restarts.
type TokenSource struct {
	prefs model.PreferenceStore
}

// NewTokenSource creates a token source over the preference store.
func NewTokenSource(prefs model.PreferenceStore) *TokenSource {
	return &TokenSource{prefs: prefs}
}

// DeviceToken returns the stable token for this device.
func (s *TokenSource) DeviceToken(_ context.Context) (string, error) {
	if token, ok := s.prefs.Get(deviceTokenKey); ok {
		return token, nil
	}

	token := uuid.NewString()
	if err := s.prefs.Set(deviceTokenKey, token); err != nil {
		return "", fmt.Errorf("failed to persist device token: %w", err)
	}
	return token, nil
}
