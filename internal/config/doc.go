// Package config provides configuration structures and utilities for wordhist.
// It defines the histogram settings, output format preferences, exclusion
// patterns and history options, and loads them from the optional .wordhist
// YAML file.
package config
