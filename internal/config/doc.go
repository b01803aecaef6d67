// Package config holds the server options, their defaults and the YAML
// configuration file format.
package config
