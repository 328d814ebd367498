package driven

import "github.com/porysuite/porybridge/internal/core/domain"

// SchemaSource supplies table schemas for a project from outside the
// plugin's built-in set, typically TOML files under the user's config
// directory. Schemas returned here replace the plugin's built-in schema
// of the same table name.
type SchemaSource interface {
	// Schemas returns the override schemas for a project ID. An empty
	// slice and nil error means no overrides exist.
	Schemas(projectID string) ([]domain.TableSchema, error)
}

// SchemaWatcher pushes a notification whenever the backing schema files
// change, so the registry can hot-reload without a restart.
type SchemaWatcher interface {
	// Events returns the channel carrying changed project IDs. The
	// channel is closed when the watcher is closed.
	Events() <-chan string

	// Close stops watching and releases resources.
	Close() error
}
