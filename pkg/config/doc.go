/*
Package config provides configuration management for tmacl.

# Overview

Configuration values come from three sources, in increasing order of
precedence:

 1. Built-in defaults
 2. A YAML file (tmacl.yml) located at TMACL_CONFIG_PATH or
    /etc/tmacl/config
 3. TMACL_* environment variables

The source of each attribute is tracked, so operators can inspect
where a value came from with `tmaclctl configuration show`.

# Attributes

  - bind_address: address the HTTP server binds to
  - port: HTTP server port
  - trusted_proxies: CIDR ranges whose X-Forwarded-For headers are honored
  - project_class_names: object classes that confer project-manager
    authority through MANAGEMENT grants
  - api_list_limit_max: cap on list endpoint result sizes
  - audit_enabled: toggles audit event emission

# Usage

	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

Get lazily loads the global configuration on first use. Reload
re-reads file and environment and swaps the global atomically.
*/
package config
