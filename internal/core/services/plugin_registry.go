package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/porysuite/porybridge/internal/core/domain"
	"github.com/porysuite/porybridge/internal/core/ports/driven"
	"github.com/porysuite/porybridge/internal/core/ports/driving"
	"github.com/porysuite/porybridge/internal/logger"
)

// Ensure PluginRegistry implements the interface.
var _ driving.ProjectRegistry = (*PluginRegistry)(nil)

// PluginRegistry holds the registered project plugins and resolves their
// effective schema sets. Schemas from the optional SchemaSource override
// a plugin's built-in schema of the same table name, and a SchemaWatcher
// invalidates the cache when the backing files change.
type PluginRegistry struct {
	mu        sync.RWMutex
	plugins   map[string]driven.ProjectPlugin
	overrides driven.SchemaSource
	cache     map[string][]domain.TableSchema
}

// NewPluginRegistry creates a registry. overrides may be nil.
func NewPluginRegistry(overrides driven.SchemaSource) *PluginRegistry {
	return &PluginRegistry{
		plugins:   make(map[string]driven.ProjectPlugin),
		overrides: overrides,
		cache:     make(map[string][]domain.TableSchema),
	}
}

// Register adds a plugin. Re-registering an ID replaces the previous
// plugin and drops its cached schemas.
func (r *PluginRegistry) Register(plugin driven.ProjectPlugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[plugin.ID()] = plugin
	delete(r.cache, plugin.ID())
}

// WatchSchemas invalidates cached schemas as the watcher reports changes.
// Runs until the watcher's event channel closes.
func (r *PluginRegistry) WatchSchemas(watcher driven.SchemaWatcher) {
	go func() {
		for projectID := range watcher.Events() {
			logger.Info("Schema change detected for %s, reloading", projectID)
			r.mu.Lock()
			if projectID == "" {
				r.cache = make(map[string][]domain.TableSchema)
			} else {
				delete(r.cache, projectID)
			}
			r.mu.Unlock()
		}
	}()
}

// List returns all registered project types, sorted by ID.
func (r *PluginRegistry) List() []driving.ProjectInfo {
	r.mu.RLock()
	plugins := make([]driven.ProjectPlugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		plugins = append(plugins, p)
	}
	r.mu.RUnlock()

	sort.Slice(plugins, func(i, j int) bool { return plugins[i].ID() < plugins[j].ID() })

	infos := make([]driving.ProjectInfo, 0, len(plugins))
	for _, p := range plugins {
		infos = append(infos, r.info(p))
	}
	return infos
}

// Get returns a specific project type by ID.
func (r *PluginRegistry) Get(id string) (*driving.ProjectInfo, error) {
	r.mu.RLock()
	plugin, ok := r.plugins[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownProject, id)
	}
	info := r.info(plugin)
	return &info, nil
}

// Detect identifies which registered project a source tree belongs to.
// Plugins are probed in sorted order for determinism; the first match
// wins, so more specific variants must sort before their base project.
func (r *PluginRegistry) Detect(root string) (*driving.ProjectInfo, error) {
	r.mu.RLock()
	ids := make([]string, 0, len(r.plugins))
	for id := range r.plugins {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)

	for _, id := range ids {
		r.mu.RLock()
		plugin := r.plugins[id]
		r.mu.RUnlock()
		if plugin.Detect(root) {
			info := r.info(plugin)
			logger.Debug("Detected project %s at %s", info.ID, root)
			return &info, nil
		}
	}
	return nil, fmt.Errorf("%w: no plugin recognises %q", domain.ErrUnknownProject, root)
}

// Schemas returns the effective schema set for a project: the plugin's
// built-in schemas with source overrides applied, cached until
// invalidated.
func (r *PluginRegistry) Schemas(projectID string) ([]domain.TableSchema, error) {
	r.mu.RLock()
	cached, ok := r.cache[projectID]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.cache[projectID]; ok {
		return cached, nil
	}

	plugin, ok := r.plugins[projectID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownProject, projectID)
	}
	schemas, err := plugin.Schemas()
	if err != nil {
		return nil, fmt.Errorf("loading schemas for %s: %w", projectID, err)
	}

	if r.overrides != nil {
		over, err := r.overrides.Schemas(projectID)
		if err != nil {
			return nil, fmt.Errorf("loading schema overrides for %s: %w", projectID, err)
		}
		schemas = mergeSchemas(schemas, over)
	}

	r.cache[projectID] = schemas
	return schemas, nil
}

// Schema returns one table schema of a project.
func (r *PluginRegistry) Schema(projectID, table string) (*domain.TableSchema, error) {
	schemas, err := r.Schemas(projectID)
	if err != nil {
		return nil, err
	}
	for i := range schemas {
		if schemas[i].Name == table {
			return &schemas[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q in project %s", domain.ErrUnknownTable, table, projectID)
}

func (r *PluginRegistry) info(plugin driven.ProjectPlugin) driving.ProjectInfo {
	info := driving.ProjectInfo{ID: plugin.ID(), Name: plugin.Name()}
	schemas, err := plugin.Schemas()
	if err != nil {
		logger.Warn("Plugin %s schemas unavailable: %v", plugin.ID(), err)
		return info
	}
	for i := range schemas {
		info.Tables = append(info.Tables, schemas[i].Name)
	}
	sort.Strings(info.Tables)
	return info
}

// mergeSchemas overlays override schemas on the built-in set by table
// name, appending overrides for tables the plugin does not declare.
func mergeSchemas(builtin, overrides []domain.TableSchema) []domain.TableSchema {
	if len(overrides) == 0 {
		return builtin
	}
	out := make([]domain.TableSchema, len(builtin))
	copy(out, builtin)

	byName := make(map[string]int, len(out))
	for i := range out {
		byName[out[i].Name] = i
	}
	for _, o := range overrides {
		if i, ok := byName[o.Name]; ok {
			out[i] = o
		} else {
			out = append(out, o)
		}
	}
	return out
}
