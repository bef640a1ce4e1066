// Package transport builds the tuned http.RoundTripper used by default
// clients: connect and read/write timeouts enforced at the connection level,
// sane pool sizes, optional TLS verification skip.
package transport

import (
	"crypto/tls"
	"net/http"
	"time"
)

const (
	DefaultConnectTimeout   = 5 * time.Second
	DefaultReadWriteTimeout = 10 * time.Second
	DefaultKeepAliveTimeout = 30 * time.Second

	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 50 * time.Second
)

type Config struct {
	ConnectTimeout *time.Duration

	ReadWriteTimeout *time.Duration

	KeepAliveTimeout *time.Duration

	InsecureSkipVerify *bool
}

func newDefaultConfig() *Config {
	connectTimeout := DefaultConnectTimeout
	readWriteTimeout := DefaultReadWriteTimeout
	keepAliveTimeout := DefaultKeepAliveTimeout
	return &Config{
		ConnectTimeout:   &connectTimeout,
		ReadWriteTimeout: &readWriteTimeout,
		KeepAliveTimeout: &keepAliveTimeout,
	}
}

func (c *Config) mergeIn(other *Config) {
	if other.ConnectTimeout != nil {
		c.ConnectTimeout = other.ConnectTimeout
	}
	if other.ReadWriteTimeout != nil {
		c.ReadWriteTimeout = other.ReadWriteTimeout
	}
	if other.KeepAliveTimeout != nil {
		c.KeepAliveTimeout = other.KeepAliveTimeout
	}
	if other.InsecureSkipVerify != nil {
		c.InsecureSkipVerify = other.InsecureSkipVerify
	}
}

// New returns an *http.Transport configured from the defaults overlaid with
// the given configs.
func New(cfgs ...*Config) *http.Transport {
	cfg := newDefaultConfig()
	for _, c := range cfgs {
		if c != nil {
			cfg.mergeIn(c)
		}
	}

	transport := &http.Transport{
		DialContext:         newDialer(cfg).DialContext,
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}

	if cfg.InsecureSkipVerify != nil && *cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return transport
}
