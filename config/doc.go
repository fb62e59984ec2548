// Package config loads the TOML configuration of the annotation tools.
//
// A configuration file is optional. Missing values keep their defaults, and two
// environment variables are applied after the file:
//
//	WFDBNOSORT   any value disables automatic reordering of out-of-order outputs
//	WFDB         space-separated search path for annotation files
package config
