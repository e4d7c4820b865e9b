package driven

// ConfigStore provides persistent application configuration (embedding
// endpoint, model, data directory). Distinct from ParamStore, which
// holds the live-tunable search parameters.
type ConfigStore interface {
	// Get retrieves a value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, "" when absent.
	GetString(key string) string

	// GetInt retrieves an integer value, 0 when absent.
	GetInt(key string) int

	// Set stores a value and persists the file.
	Set(key string, value any) error

	// Path returns the backing file path.
	Path() string
}
