package server

import (
	"net"
	"strconv"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Host is the interface to bind. Empty binds every interface.
	Host string `mapstructure:"host" default:""`
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitKB caps request bodies.
	BodyLimitKB int `mapstructure:"body_limit_kb" default:"64"`
}

// Address returns the listen address.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsValidPort checks that Port is a number in the TCP range.
func (c Config) IsValidPort() bool {
	n, err := strconv.Atoi(c.Port)
	return err == nil && n > 0 && n <= 65535
}

// BodyLimit returns the body limit in bytes, defaulting to 64KB.
func (c Config) BodyLimit() int {
	if c.BodyLimitKB <= 0 {
		return 64 * 1024
	}
	return c.BodyLimitKB * 1024
}
