// Package file loads table schema definitions from TOML files.
//
// Schema files live under <dir>/<project-id>/<table>.toml and override
// the project plugin's built-in schema of the same table name. The same
// TOML format is used by the plugins for their embedded schemas, so a
// user can copy a built-in definition out, adjust a field domain, and
// drop it into the override directory.
package file
