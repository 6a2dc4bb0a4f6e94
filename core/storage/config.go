package storage

import "strings"

// Config holds configuration for the storage provider.
type Config struct {
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket holds survey files and published reports.
	Bucket string `mapstructure:"bucket" default:"surveys"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// endpoint returns the bare host:port minio expects. An https:// scheme
// forces TLS even when UseSSL is off.
func (c Config) endpoint() (string, bool) {
	switch {
	case strings.HasPrefix(c.Endpoint, "https://"):
		return strings.TrimSuffix(strings.TrimPrefix(c.Endpoint, "https://"), "/"), true
	case strings.HasPrefix(c.Endpoint, "http://"):
		return strings.TrimSuffix(strings.TrimPrefix(c.Endpoint, "http://"), "/"), c.UseSSL
	default:
		return strings.TrimSuffix(c.Endpoint, "/"), c.UseSSL
	}
}
