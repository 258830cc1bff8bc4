// Package config loads runtime configuration from multiple sources (a YAML
// plan file, environment variables, CLI flags) with precedence: CLI flags >
// Environment variables > YAML plan file > Defaults. Besides naming and output
// settings, the plan carries the train job and the optional paired validation
// job as ordered override lists.
package config
