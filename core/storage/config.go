package storage

import (
	"fmt"
	"strings"
	"time"
)

// Config locates the bucket a release is published to.
type Config struct {
	// Endpoint is the host of the S3-compatible service. An http:// or https:// scheme
	// overrides UseSSL.
	Endpoint  string `mapstructure:"endpoint" default:"localhost:9000"`
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	UseSSL    bool   `mapstructure:"use_ssl" default:"false"`
	// Bucket receives the artifacts, under Prefix.
	Bucket string `mapstructure:"bucket" default:"data-france"`
	Prefix string `mapstructure:"prefix" default:"latest"`
	// Region is used when the bucket has to be created, and spares a location lookup.
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds connection setup and the wait for each response.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Validate checks that the configuration names a service and a bucket.
func (c Config) Validate() error {
	host, _ := c.host()
	if host == "" {
		return fmt.Errorf("%w: empty endpoint", ErrInvalidConfig)
	}
	if strings.ContainsAny(host, "/?#") {
		return fmt.Errorf("%w: endpoint %q must not carry a path", ErrInvalidConfig, c.Endpoint)
	}
	if c.Bucket == "" {
		return fmt.Errorf("%w: empty bucket", ErrInvalidConfig)
	}
	return nil
}

// host returns the endpoint without its scheme, and whether TLS is used.
func (c Config) host() (string, bool) {
	switch {
	case strings.HasPrefix(c.Endpoint, "https://"):
		return strings.TrimPrefix(c.Endpoint, "https://"), true
	case strings.HasPrefix(c.Endpoint, "http://"):
		return strings.TrimPrefix(c.Endpoint, "http://"), false
	}
	return c.Endpoint, c.UseSSL
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
