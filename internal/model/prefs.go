package model

// PreferenceStore is device-local key/value persistence. Operations are
// synchronous and values survive process restart.
type PreferenceStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}
