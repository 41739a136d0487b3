// Package config loads xolmis settings from XOLMIS_* environment variables.
// Command-line flags take precedence over anything loaded here.
package config
