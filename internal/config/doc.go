// Package config handles configuration loading for the bookstore inventory.
//
// # Overview
//
// Configuration is loaded from a YAML or TOML file with environment variable
// expansion. Every field has a default, so the program runs without a file.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from BOOKSTORE_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/bookstore/config.yaml
//  3. ~/.config/bookstore/config.yaml
//
// The format is picked from the extension: .toml is TOML, anything else YAML.
//
// # Environment
//
// .env and .env.local in the working directory are loaded first (see
// LoadEnvFiles); they never override variables that are already set.
// Values can reference environment variables:
//
//	database:
//	  path: "${HOME}/bookstore/ebookstore.db"
//
// BOOKSTORE_DB overrides database.path outright.
//
// # Configuration Sections
//
// Database:
//
//	database:
//	  driver: "sqlite"          # sqlite (pure Go) or sqlite3 (cgo)
//	  path: "ebookstore.db"
//
// Logging:
//
//	logging:
//	  level: "warn"             # debug, info, warn, error
//	  format: "text"            # text, json
//
// Report export:
//
//	report:
//	  format: "markdown"        # markdown (md) or html
//	  columns: ["id", "title", "author", "qty"]
//
// The same file in TOML:
//
//	[database]
//	path = "ebookstore.db"
//
//	[report]
//	columns = ["title", "qty"]
//
// Save writes a Config back out, choosing YAML or TOML the same way.
package config
