// Package plugins wires the built-in project plugins together so the
// entrypoint registers them in one call.
package plugins

import (
	"github.com/porysuite/porybridge/internal/core/ports/driven"
	"github.com/porysuite/porybridge/internal/plugins/emeraldexpansion"
	"github.com/porysuite/porybridge/internal/plugins/pokeemerald"
)

// All returns every built-in project plugin.
func All() []driven.ProjectPlugin {
	return []driven.ProjectPlugin{
		pokeemerald.New(),
		emeraldexpansion.New(),
	}
}
