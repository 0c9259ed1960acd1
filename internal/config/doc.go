// Package config provides configuration management for the docxval CLI.
//
// # Configuration File
//
// The configuration file is config.yaml, searched in the current directory
// and then in the XDG config directory (~/.config/docxval on Linux):
//
//	version: 1
//	extension: .docx
//	format: text          # text, json, yaml
//	max_errors: 1000      # 0 = unlimited
//	max_part_size: 67108864
//	workers: 0            # 0 = one per CPU
//	disabled_rules:
//	  - SEM002
//	metrics_file: /var/lib/node_exporter/docxval.prom
//
// Every key can also be set through the environment with the DOCXVAL_
// prefix (DOCXVAL_MAX_ERRORS=50). A .env file in the working directory is
// loaded before the environment is consulted.
//
// # Validation
//
// Loaded configurations are validated with struct tags
// (github.com/go-playground/validator/v10); see [Validate].
package config
