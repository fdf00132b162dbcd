// Package config provides type-safe configuration management for the plugin host.
//
// This package enables type-safe configuration handling through Go generics,
// eliminating runtime type assertions and map[string]interface{} conversions.
// It supports schema validation, configuration migration, and hierarchical
// configuration merging.
//
// # Type-Safe Configuration
//
// Define configuration structs with JSON/YAML tags:
//
//	type MyPluginConfig struct {
//	    APIKey    string `json:"api_key" yaml:"api_key"`
//	    Timeout   int    `json:"timeout" yaml:"timeout"`
//	    EnableLog bool   `json:"enable_log" yaml:"enable_log"`
//	}
//
//	// Register with defaults
//	config.Register("my-plugin", MyPluginConfig{
//	    Timeout:   30,
//	    EnableLog: false,
//	})
//
//	// Retrieve typed config - no type assertions needed
//	cfg, err := config.Get[MyPluginConfig]("my-plugin")
//	client := NewClient(cfg.Value.APIKey, cfg.Value.Timeout)
//
// # Schema Validation
//
// A JSON Schema is generated from the struct type by reflection; the
// validate struct tags supply the constraints:
//
//	type MyPluginConfig struct {
//	    APIKey  string `json:"api_key" validate:"required,min=10"`
//	    Timeout int    `json:"timeout" validate:"min=1"`
//	}
//
//	tc := config.NewTypedConfig("my-plugin", defaults)
//	tc.Schema = config.NewJSONSchemaFromValue(defaults)
//	err := tc.Validate()
//
// # Configuration Migration
//
// Handle breaking changes with versioned migrations:
//
//	migrator := config.NewMigrator()
//	migrator.AddMigration(1, 2, func(old map[string]interface{}) (map[string]interface{}, error) {
//	    // Rename "old_field" to "new_field"
//	    old["new_field"] = old["old_field"]
//	    delete(old, "old_field")
//	    return old, nil
//	})
//
// # Global Registry
//
// The package-level functions use a process-wide registry:
//
//	config.Register("my-plugin", defaults)
//	retrieved, err := config.Get[MyPluginConfig]("my-plugin")
//
// See docs/adr/ADR-003-configuration-management.md for design rationale.
package config
