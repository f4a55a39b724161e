// Package config provides centralized configuration management for the
// MCA Insights dashboard.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. A .env file in the working directory
//  3. A YAML configuration file
//  4. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern MCA_* for namespacing:
//
//	MCA_SERVER_PORT=8501
//	MCA_DATA_MASTER_PATH=/srv/mca/mca_master.csv
//	MCA_DATA_ENCODING=latin1
//	MCA_LOGGING_LEVEL=debug
//	MCA_TELEMETRY_ENABLE_TRACING=true
//
// MCA_CONFIG_FILE overrides the YAML file search.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
