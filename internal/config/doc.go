// Package config provides configuration management for icdmap.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (icdmap.yaml, configs/icdmap.yaml or $ICDMAP_CONFIG)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern ICDMAP_<SECTION>_<FIELD>:
//
//	ICDMAP_LOGGING_LEVEL=debug
//	ICDMAP_PATHS_BASE_DIR=/srv/icd
//	ICDMAP_INPUT_ENCODINGS=utf-8,latin-1,windows-1252
//	ICDMAP_INPUT_SORT_FILES=true
//	ICDMAP_METRICS_ENABLED=true
//	ICDMAP_TRACING_ENABLED=true
//
// After loading, the struct is validated with go-playground/validator.
//
// # Paths
//
// Paths resolves the data, output and logs directories against a base directory,
// which defaults to the directory holding the executable. Output and log
// directories are created on demand; the data directory is not.
package config
