package driven

// ConfigStore holds flat dot-keyed settings such as "search.topk".
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	// GetString returns "" when the key is missing or not a string.
	GetString(key string) string

	// GetInt returns 0 when the key is missing or not a number.
	GetInt(key string) int

	// Set stores value under key and persists it.
	Set(key string, value any) error

	// Path returns where the settings live.
	Path() string
}
