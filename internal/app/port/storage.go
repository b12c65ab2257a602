package port

// KeyValueStore is the durable origin-scoped storage the page state lives in.
// Get reports false for a missing key.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}
