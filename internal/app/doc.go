// Package app provides the orchestration layer for the hexwalk application.
//
// # Overview
//
// This package wires together the data file, layout schema, user
// preferences, and the UI to create the complete hexwalk TUI experience.
// It serves as the composition root where all dependencies are initialized
// and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Read the binary data file into memory
//  2. Load and validate the TOML layout describing its structure
//  3. Decode the blob against the layout into a pattern tree
//  4. Load user preferences from ~/.config/hexwalk/prefs.toml
//  5. Start the TUI and block until user exits or context cancels
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> os.ReadFile()     Read the binary blob
//	       ├─────> schema.Load()     Parse the layout file
//	       ├─────> layout.Decode()   Build the pattern tree
//	       ├─────> prefs.Load()      Read user preferences
//	       └─────> ui.Run()          Start TUI (blocks)
//
// # Error Handling
//
// The app package distinguishes between fatal and recoverable errors:
//
// Fatal errors (returned from Run):
//   - Data file not found or unreadable
//   - Layout file missing, malformed, or referencing unknown types
//   - Decoding reads past the end of the data
//
// Recoverable (defaulted silently):
//   - Missing or malformed preferences file
//
// Decoding happens once, up front; a layout that does not fit the data
// fails fast rather than presenting a partial tree.
//
// # Configuration
//
// The Options struct allows callers to customize:
//
//   - DataPath: Path to the binary file to inspect (required)
//   - LayoutPath: Path to the TOML layout file (required)
//   - PrefsPath: Path to prefs.toml (default: ~/.config/hexwalk/prefs.toml)
//
// # Dependencies
//
//   - schema: Parses layout files and decodes binary data into pattern trees
//   - prefs: Loads and saves user preferences
//   - ui: Terminal user interface (TUI) implementation
//
// # Design Rationale
//
// This package intentionally keeps orchestration logic minimal and focused.
// Business logic lives in domain packages (schema, pattern, drawer, ui).
// The app package simply connects these pieces with sensible defaults for
// the single-file, read-only inspection use case.
package app
