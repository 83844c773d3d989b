// Package config provides configuration management for pricebook.
//
// Configuration is loaded from a YAML file with environment variable
// overrides:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention PRICEBOOK_SECTION_FIELD.
// For example:
//
//   - PRICEBOOK_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - PRICEBOOK_CATALOG_PATH overrides catalog.path
//   - PRICEBOOK_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
// Values are applied in the following order (later overrides earlier):
//
//  1. Default values (see Default and ApplyDefaults)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// When no path is given, DefaultConfigPath is read if it exists and the
// defaults are used otherwise.
package config
