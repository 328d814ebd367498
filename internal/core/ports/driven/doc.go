// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ProjectPlugin: Declares a supported decomp project and its table schemas
//   - CheckoutStore: Checkout and build-history persistence
//   - ConfigStore: Application configuration
//   - BuildService: Compiles a checkout and reports diagnostics
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SchemaSource: Overrides a plugin's built-in schemas from disk.
//     Without it, plugins serve their embedded schemas only.
//   - SchemaWatcher: Pushes schema-change notifications for hot reload.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or plugin package
package driven
