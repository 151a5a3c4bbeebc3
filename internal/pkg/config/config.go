// Package config reads runtime settings from a file with environment overrides.
package config

import (
	"io"
	"time"
)

// Config is the read-only view of runtime configuration used across the app.
//
// Getters never fail: a missing key or an unconvertible value yields the zero
// value of the requested type, so callers apply their own defaults.
type Config interface {
	io.Closer

	// IsSet reports whether key has a value in the file or the environment.
	IsSet(key string) bool

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetFloat64(key string) float64

	// GetSecond reads an integer number of seconds.
	GetSecond(key string) time.Duration
	// GetMinute reads an integer number of minutes.
	GetMinute(key string) time.Duration

	// GetBinary reads a base64 encoded value.
	GetBinary(key string) []byte

	// GetArray reads either a YAML list or a comma separated string.
	// Elements are trimmed and empty ones dropped.
	GetArray(key string) []string

	// GetMap reads "k1:v1,k2:v2" pairs or a YAML mapping of scalars.
	GetMap(key string) map[string]string
}
