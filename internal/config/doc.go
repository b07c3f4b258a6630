// Package config handles listener configuration.
//
// Configuration comes either from a YAML file, which supports ${VAR} syntax
// for environment variable interpolation, or directly from the process
// environment (accountId, clientId, clientSecret, url).
package config
