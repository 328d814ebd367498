// Command porybridge is the CLI entrypoint. It wires the storage,
// schema, plugin and build adapters into the core services and hands
// control to the cobra command tree.
package main

import (
	"fmt"
	"os"

	"github.com/porysuite/porybridge/internal/adapters/driven/build/docker"
	"github.com/porysuite/porybridge/internal/adapters/driven/build/stub"
	configfile "github.com/porysuite/porybridge/internal/adapters/driven/config/file"
	schemafile "github.com/porysuite/porybridge/internal/adapters/driven/schema/file"
	"github.com/porysuite/porybridge/internal/adapters/driven/storage/memory"
	"github.com/porysuite/porybridge/internal/adapters/driven/storage/sqlite"
	"github.com/porysuite/porybridge/internal/adapters/driving/cli"
	"github.com/porysuite/porybridge/internal/core/ports/driven"
	"github.com/porysuite/porybridge/internal/core/services"
	"github.com/porysuite/porybridge/internal/logger"
	"github.com/porysuite/porybridge/internal/plugins"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cli.SetVersion(version)

	// Configuration is optional: a broken config file should not lock the
	// user out of read-only commands.
	var config driven.ConfigStore
	if store, err := configfile.NewConfigStore(""); err != nil {
		logger.Warn("Config unavailable: %v", err)
	} else {
		config = store
		cli.SetConfigStore(store)
	}

	checkouts, cleanup := openCheckoutStore(config)
	defer cleanup()

	source, err := schemafile.NewSource(schemaDir(config))
	if err != nil {
		return fmt.Errorf("opening schema overrides: %w", err)
	}

	registry := services.NewPluginRegistry(source)
	for _, plugin := range plugins.All() {
		registry.Register(plugin)
	}

	if watcher, err := schemafile.NewWatcher(source.Dir()); err != nil {
		logger.Warn("Schema watcher unavailable: %v", err)
	} else {
		defer watcher.Close()
		registry.WatchSchemas(watcher)
	}

	builder := newBuilder(config)
	editor := services.NewEditManager(checkouts, registry, builder)

	cli.SetProjectRegistry(registry)
	cli.SetCheckoutService(services.NewCheckoutService(checkouts, registry))
	cli.SetTableService(services.NewTableService(checkouts, registry))
	cli.SetEditService(editor)
	cli.SetBuildRunner(editor)

	return cli.Execute()
}

// openCheckoutStore opens the SQLite metadata store, falling back to the
// in-memory store when the database cannot be opened. The fallback keeps
// single-shot commands usable on a broken installation.
func openCheckoutStore(config driven.ConfigStore) (driven.CheckoutStore, func()) {
	dataDir := ""
	if config != nil {
		dataDir = config.GetString("data.dir")
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		logger.Warn("SQLite store unavailable, falling back to memory: %v", err)
		return memory.NewCheckoutStore(), func() {}
	}
	return store.CheckoutStore(), func() {
		if err := store.Close(); err != nil {
			logger.Warn("Closing store: %v", err)
		}
	}
}

func schemaDir(config driven.ConfigStore) string {
	if config == nil {
		return ""
	}
	return config.GetString("schemas.dir")
}

// newBuilder selects the build service from configuration. Docker is the
// default; 'stub' opts out of build verification entirely.
func newBuilder(config driven.ConfigStore) driven.BuildService {
	service, image := "", ""
	jobs := 0
	if config != nil {
		service = config.GetString("build.service")
		image = config.GetString("build.image")
		jobs = config.GetInt("build.jobs")
	}

	if service == "stub" {
		return stub.NewBuilder()
	}
	return docker.NewBuilder(image, jobs)
}
