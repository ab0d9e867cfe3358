// Package config provides configuration loading, merging, and validation
// facilities for docvault.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win for non-zero fields):
//  1. Command-line overrides supplied by the CLI layer
//  2. Environment variables
//  3. JSON config file (path resolved from sources 1 and 2)
//  4. Built-in defaults under the user's home directory
//
// The main entry point is [GetConfig].
//
// The PBKDF2 iteration count is deliberately absent here: it is a container
// format constant, not a tunable.
package config
