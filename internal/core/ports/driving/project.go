package driving

// ProjectInfo describes one registered project plugin.
type ProjectInfo struct {
	// ID is the project type identifier, e.g. "pokeemerald-expansion".
	ID string

	// Name is the human-readable project name.
	Name string

	// Tables lists the logical table names the project's schemas declare.
	Tables []string
}

// ProjectRegistry provides information about registered project plugins.
type ProjectRegistry interface {
	// List returns all registered project types, sorted by ID.
	List() []ProjectInfo

	// Get returns a specific project type by ID.
	Get(id string) (*ProjectInfo, error)

	// Detect identifies which registered project a source tree belongs to.
	Detect(root string) (*ProjectInfo, error)
}
